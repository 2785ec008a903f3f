package client

import "context"

// ComplianceService handles retention sweeps. Admin only.
type ComplianceService struct {
	c *Client
}

// Sweep deletes every completed inspection whose retention window has
// elapsed and returns the run summary. Safe to call repeatedly.
func (s *ComplianceService) Sweep(ctx context.Context) (*SweepResult, error) {
	var resp SweepResult
	if err := s.c.post(ctx, "/api/v1/compliance/sweep", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
