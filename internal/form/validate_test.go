package form

import (
	"testing"
	"time"

	"github.com/pdihub/pdihub/internal/models"
)

func completeInspection() *models.Inspection {
	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &models.Inspection{
		InspectorName:  "Dana",
		InspectorEmail: "dana@example.com",
		InspectionDate: &date,
		VehicleInfo:    map[string]string{"vin": "1HGBH41JXMN109186"},
		Location:       &models.Location{Start: &models.GPSPoint{Lat: -33.86, Lng: 151.2}},
		Photos:         []models.Photo{{FileName: "front.jpg"}},
		Checklist: []models.ChecklistCategory{
			{Name: "Exterior", Items: []models.ChecklistItem{
				{Name: "Paint", Status: models.StatusOK},
				{Name: "Mirrors", Status: models.StatusAttention, Notes: "left mirror loose"},
			}},
		},
		Signatures:     &models.Signatures{Technician: "sig-data"},
		PrivacyConsent: true,
	}
}

func TestValidateAllComplete(t *testing.T) {
	if err := ValidateAll(completeInspection()); err != nil {
		t.Fatalf("complete inspection failed validation: step %d: %s", err.Step, err.Message)
	}
}

func TestValidateStepRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.Inspection)
		wantStep int
	}{
		{"blank inspector name", func(i *models.Inspection) { i.InspectorName = "   " }, StepInspectorInfo},
		{"missing email", func(i *models.Inspection) { i.InspectorEmail = "" }, StepInspectorInfo},
		{"malformed email", func(i *models.Inspection) { i.InspectorEmail = "not-an-email" }, StepInspectorInfo},
		{"missing date", func(i *models.Inspection) { i.InspectionDate = nil }, StepInspectorInfo},
		{"no vehicle identity", func(i *models.Inspection) { i.VehicleInfo = map[string]string{"make": "X"} }, StepVehicleInfo},
		{"nil vehicle info", func(i *models.Inspection) { i.VehicleInfo = nil }, StepVehicleInfo},
		{"no gps fix", func(i *models.Inspection) { i.Location = &models.Location{} }, StepLocation},
		{"nil location", func(i *models.Inspection) { i.Location = nil }, StepLocation},
		{"no photos", func(i *models.Inspection) { i.Photos = nil }, StepLocation},
		{"empty checklist", func(i *models.Inspection) { i.Checklist = nil }, StepChecklist},
		{"unnamed category", func(i *models.Inspection) { i.Checklist[0].Name = "" }, StepChecklist},
		{"category without items", func(i *models.Inspection) { i.Checklist[0].Items = nil }, StepChecklist},
		{"unnamed item", func(i *models.Inspection) { i.Checklist[0].Items[0].Name = "" }, StepChecklist},
		{"invalid item status", func(i *models.Inspection) { i.Checklist[0].Items[0].Status = "MAYBE" }, StepChecklist},
		{"no consent", func(i *models.Inspection) { i.PrivacyConsent = false }, StepSignatures},
		{"no signatures", func(i *models.Inspection) { i.Signatures = nil }, StepSignatures},
		{"blank signatures", func(i *models.Inspection) { i.Signatures = &models.Signatures{Technician: "  "} }, StepSignatures},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			insp := completeInspection()
			tc.mutate(insp)

			err := ValidateAll(insp)
			if err == nil {
				t.Fatal("expected a validation failure")
			}
			if err.Step != tc.wantStep {
				t.Errorf("got step %d (%s), want %d", err.Step, err.Message, tc.wantStep)
			}
		})
	}
}

// TestValidateStepIndependence verifies each step only checks its own data:
// an empty checklist does not fail the location step, and vice versa.
func TestValidateStepIndependence(t *testing.T) {
	insp := completeInspection()
	insp.Checklist = nil

	if err := ValidateStep(insp, StepLocation); err != nil {
		t.Errorf("location step failed on a checklist problem: %s", err.Message)
	}

	insp = completeInspection()
	insp.Location = nil
	insp.Photos = nil

	if err := ValidateStep(insp, StepChecklist); err != nil {
		t.Errorf("checklist step failed on a location problem: %s", err.Message)
	}
}

// TestValidateLegacyChecklistStatuses verifies pass/fail/na from older
// clients still validate.
func TestValidateLegacyChecklistStatuses(t *testing.T) {
	insp := completeInspection()
	insp.Checklist[0].Items = []models.ChecklistItem{
		{Name: "Paint", Status: models.LegacyPass},
		{Name: "Tyres", Status: models.LegacyFail},
		{Name: "Spare", Status: models.LegacyNA},
	}

	if err := ValidateStep(insp, StepChecklist); err != nil {
		t.Errorf("legacy statuses rejected: %s", err.Message)
	}
}

// TestVehicleIdentityAlternatives verifies any one of the three identity
// fields satisfies step 2.
func TestVehicleIdentityAlternatives(t *testing.T) {
	for _, key := range []string{"vin", "license_plate", "booking_number"} {
		insp := completeInspection()
		insp.VehicleInfo = map[string]string{key: "some-value"}

		if err := ValidateStep(insp, StepVehicleInfo); err != nil {
			t.Errorf("%s alone should satisfy vehicle identity: %s", key, err.Message)
		}
	}
}

// TestDisclaimerStepHasNoConstraint verifies step 5 always passes.
func TestDisclaimerStepHasNoConstraint(t *testing.T) {
	if err := ValidateStep(&models.Inspection{}, StepDisclaimer); err != nil {
		t.Errorf("disclaimer step must not constrain data: %s", err.Message)
	}
}
