package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithSessionToken("test-token"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "1.2.0", Database: "connected"})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("got status %q, want ok", resp.Status)
	}
	if resp.Database != "connected" {
		t.Errorf("got database %q, want connected", resp.Database)
	}
}

func TestSessionTokenHeader(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("got Authorization %q, want Bearer test-token", got)
			}
			jsonResponse(w, 200, HealthResponse{Status: "ok"})
		},
	})
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health() error: %v", err)
	}
}

func TestInspectionLifecycle(t *testing.T) {
	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/inspections": func(w http.ResponseWriter, r *http.Request) {
			var req CreateInspectionRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 201, Inspection{
				ID: "i1", Number: "PDI-20260310-AB12CD34", Status: "draft",
				InspectorName: req.InspectorName, InspectorEmail: req.InspectorEmail,
			})
		},
		"GET /api/v1/inspections": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("status"); got != "draft" {
				t.Errorf("got status filter %q, want draft", got)
			}
			jsonResponse(w, 200, map[string]any{
				"inspections": []Inspection{{ID: "i1", Status: "draft"}},
				"has_more":    true,
			})
		},
		"PATCH /api/v1/inspections/i1/sections/barcode": func(w http.ResponseWriter, r *http.Request) {
			var patch Barcode
			json.NewDecoder(r.Body).Decode(&patch) //nolint:errcheck
			jsonResponse(w, 200, Inspection{ID: "i1", Status: "draft", Revision: 2, Barcode: &patch})
		},
		"POST /api/v1/inspections/i1/complete": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Inspection{ID: "i1", Status: "completed"})
		},
		"DELETE /api/v1/inspections/i1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]bool{"deleted": true})
		},
	})

	ctx := context.Background()

	insp, err := c.Inspections.Create(ctx, &CreateInspectionRequest{
		InspectorName: "Dana", InspectorEmail: "dana@example.com", InspectionDate: &date,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if insp.Status != "draft" {
		t.Errorf("got status %q, want draft", insp.Status)
	}
	if insp.Number == "" {
		t.Error("expected a number to be assigned")
	}

	list, hasMore, err := c.Inspections.List(ctx, &ListInspectionOptions{Status: "draft"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 || !hasMore {
		t.Errorf("got %d inspections (has_more=%v), want 1 with has_more", len(list), hasMore)
	}

	insp, err = c.Inspections.SaveSection(ctx, "i1", "barcode", Barcode{Code: "12345678", Type: "COMPLIANCE"})
	if err != nil {
		t.Fatalf("SaveSection error: %v", err)
	}
	if insp.Barcode == nil || insp.Barcode.Code != "12345678" {
		t.Errorf("got barcode %+v, want code 12345678", insp.Barcode)
	}
	if insp.Revision != 2 {
		t.Errorf("got revision %d, want 2", insp.Revision)
	}

	insp, err = c.Inspections.Complete(ctx, "i1")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if insp.Status != "completed" {
		t.Errorf("got status %q, want completed", insp.Status)
	}

	if err := c.Inspections.Delete(ctx, "i1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestSubmitValidationError(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/inspections/submit": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 422, map[string]any{
				"code": "validation_error", "message": "privacy consent is required", "failing_step": 6,
			})
		},
	})

	_, err := c.Inspections.Submit(context.Background(), &Inspection{InspectorName: "Dana"})
	if err == nil {
		t.Fatal("expected an error")
	}
	step, ok := FailingStep(err)
	if !ok || step != 6 {
		t.Errorf("got failing step %d (ok=%v), want 6", step, ok)
	}
}

func TestUsersCRUD(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/users": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("include_inactive"); got != "true" {
				t.Errorf("got include_inactive %q, want true", got)
			}
			jsonResponse(w, 200, map[string]any{"users": []User{{ID: "u1", Role: "technician"}}})
		},
		"POST /api/v1/users": func(w http.ResponseWriter, r *http.Request) {
			var req CreateUserRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 201, User{ID: "u2", Name: req.Name, Email: req.Email, Role: req.Role, IsActive: true})
		},
		"PUT /api/v1/users/u2": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, User{ID: "u2", Role: "manager", IsActive: true})
		},
		"DELETE /api/v1/users/u2": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]bool{"deactivated": true})
		},
	})

	ctx := context.Background()

	users, err := c.Users.List(ctx, true)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}

	u, err := c.Users.Create(ctx, &CreateUserRequest{Name: "Sam", Email: "sam@example.com", Phone: "555-0101", Role: "technician"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.ID != "u2" || !u.IsActive {
		t.Errorf("got user %+v, want active u2", u)
	}

	role := "manager"
	u, err = c.Users.Update(ctx, "u2", &UpdateUserRequest{Role: &role})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if u.Role != "manager" {
		t.Errorf("got role %q, want manager", u.Role)
	}

	if err := c.Users.Deactivate(ctx, "u2"); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
}

func TestAuditQuery(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/audit": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("action"); got != "inspection.deleted" {
				t.Errorf("got action %q, want inspection.deleted", got)
			}
			jsonResponse(w, 200, map[string]any{
				"entries":  []AuditEntry{{ID: 7, Action: "inspection.deleted", EntityID: "i1"}},
				"has_more": false,
			})
		},
	})

	entries, hasMore, err := c.Audit.Query(context.Background(), &AuditQueryOptions{Action: "inspection.deleted"})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(entries) != 1 || hasMore {
		t.Fatalf("got %d entries (has_more=%v), want 1 without has_more", len(entries), hasMore)
	}
	if entries[0].EntityID != "i1" {
		t.Errorf("got entity %q, want i1", entries[0].EntityID)
	}
}

func TestComplianceSweep(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/compliance/sweep": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, SweepResult{Scanned: 12, Deleted: 3, DeletedNumbers: []string{"PDI-1", "PDI-2", "PDI-3"}})
		},
	})

	result, err := c.Compliance.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if result.Scanned != 12 || result.Deleted != 3 {
		t.Errorf("got scanned=%d deleted=%d, want 12/3", result.Scanned, result.Deleted)
	}
}

func TestAPIErrorParsing(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/inspections/missing": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "inspection not found", "request_id": "rid-1"})
		},
		"GET /api/v1/inspections/broken": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(500)
			w.Write([]byte("upstream exploded")) //nolint:errcheck
		},
	})

	_, err := c.Inspections.Get(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.RequestID != "rid-1" {
		t.Errorf("expected request_id rid-1, got %v", err)
	}

	_, err = c.Inspections.Get(context.Background(), "broken")
	apiErr, ok = err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != "unknown" || apiErr.Message != "upstream exploded" {
		t.Errorf("got %q/%q, want unknown/upstream exploded", apiErr.Code, apiErr.Message)
	}
}
