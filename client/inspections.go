package client

import (
	"context"
	"net/url"
	"strconv"
)

// InspectionService handles inspection operations.
type InspectionService struct {
	c *Client
}

// listInspectionsResponse wraps the paginated inspection list response.
type listInspectionsResponse struct {
	Inspections []Inspection `json:"inspections"`
	HasMore     bool         `json:"has_more"`
}

// List returns inspections matching the given options.
func (s *InspectionService) List(ctx context.Context, opts *ListInspectionOptions) ([]Inspection, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.InspectorEmail != "" {
			params.Set("inspector_email", opts.InspectorEmail)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp listInspectionsResponse
	if err := s.c.get(ctx, "/api/v1/inspections", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Inspections, resp.HasMore, nil
}

// Get returns a single inspection by ID.
func (s *InspectionService) Get(ctx context.Context, id string) (*Inspection, error) {
	var resp Inspection
	if err := s.c.get(ctx, "/api/v1/inspections/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create starts a new draft inspection.
func (s *InspectionService) Create(ctx context.Context, req *CreateInspectionRequest) (*Inspection, error) {
	var resp Inspection
	if err := s.c.post(ctx, "/api/v1/inspections", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveSection saves one named section of a draft, leaving every other
// section untouched. The payload is the full replacement value for that
// section.
func (s *InspectionService) SaveSection(ctx context.Context, id, section string, payload any) (*Inspection, error) {
	path := "/api/v1/inspections/" + url.PathEscape(id) + "/sections/" + url.PathEscape(section)
	var resp Inspection
	if err := s.c.patch(ctx, path, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit runs full validation over the aggregate and completes it. An
// inspection without an ID is created directly as completed; an existing
// draft has all sections saved but stays a draft until explicitly completed.
// A validation failure carries the failing step, see FailingStep.
func (s *InspectionService) Submit(ctx context.Context, insp *Inspection) (*Inspection, error) {
	var resp Inspection
	if err := s.c.post(ctx, "/api/v1/inspections/submit", insp, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Complete transitions an existing draft to completed. Admin only.
func (s *InspectionService) Complete(ctx context.Context, id string) (*Inspection, error) {
	var resp Inspection
	if err := s.c.post(ctx, "/api/v1/inspections/"+url.PathEscape(id)+"/complete", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes an inspection. Admin only.
func (s *InspectionService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/api/v1/inspections/"+url.PathEscape(id), nil, nil)
}
