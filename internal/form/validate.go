// Package form implements the multi-step inspection form: per-step
// validation rules and the step navigation state machine.
//
// Validation is pure — no side effects, no store access. The state machine
// consults an identity collaborator before every forward transition.
package form

import (
	"strings"

	"github.com/pdihub/pdihub/internal/models"
)

// Step numbers of the inspection form.
const (
	StepInspectorInfo = 1
	StepVehicleInfo   = 2
	StepLocation      = 3
	StepChecklist     = 4
	StepDisclaimer    = 5
	StepSignatures    = 6

	FirstStep = StepInspectorInfo
	LastStep  = StepSignatures
)

// ValidateStep checks whether the given form step is complete for the
// in-progress aggregate. Returns nil when valid, or a *models.StepError
// naming the first failing rule.
func ValidateStep(insp *models.Inspection, step int) *models.StepError {
	switch step {
	case StepInspectorInfo:
		return validateInspectorInfo(insp)
	case StepVehicleInfo:
		return validateVehicleInfo(insp)
	case StepLocation:
		return validateLocation(insp)
	case StepChecklist:
		return validateChecklist(insp)
	case StepDisclaimer:
		// Informational only; no data constraint.
		return nil
	case StepSignatures:
		return validateSignatures(insp)
	default:
		return models.NewStepError(step, "unknown step %d", step)
	}
}

// ValidateAll re-runs validation for every step in order, short-circuiting
// at the first failure so the caller can navigate the user there. Run
// immediately before final submission.
func ValidateAll(insp *models.Inspection) *models.StepError {
	for step := FirstStep; step <= LastStep; step++ {
		if err := ValidateStep(insp, step); err != nil {
			return err
		}
	}

	return nil
}

func validateInspectorInfo(insp *models.Inspection) *models.StepError {
	if strings.TrimSpace(insp.InspectorName) == "" {
		return models.NewStepError(StepInspectorInfo, "Inspector name is required")
	}

	if insp.InspectorEmail == "" {
		return models.NewStepError(StepInspectorInfo, "Inspector email is required")
	}

	if !models.ValidEmail(insp.InspectorEmail) {
		return models.NewStepError(StepInspectorInfo, "Inspector email is not a valid email address")
	}

	if insp.InspectionDate == nil {
		return models.NewStepError(StepInspectorInfo, "Inspection date is required")
	}

	return nil
}

func validateVehicleInfo(insp *models.Inspection) *models.StepError {
	if !insp.HasVehicleIdentity() {
		return models.NewStepError(StepVehicleInfo,
			"At least one of VIN, license plate or booking number is required")
	}

	return nil
}

func validateLocation(insp *models.Inspection) *models.StepError {
	if !insp.Location.HasFix() {
		return models.NewStepError(StepLocation, "At least one GPS location must be captured")
	}

	if len(insp.Photos) == 0 {
		return models.NewStepError(StepLocation, "At least one photo is required")
	}

	return nil
}

func validateChecklist(insp *models.Inspection) *models.StepError {
	if len(insp.Checklist) == 0 {
		return models.NewStepError(StepChecklist, "At least one checklist category is required")
	}

	for _, cat := range insp.Checklist {
		if strings.TrimSpace(cat.Name) == "" {
			return models.NewStepError(StepChecklist, "Every checklist category needs a name")
		}

		if len(cat.Items) == 0 {
			return models.NewStepError(StepChecklist, "Category %q has no items", cat.Name)
		}

		for _, item := range cat.Items {
			if strings.TrimSpace(item.Name) == "" {
				return models.NewStepError(StepChecklist, "Category %q has an unnamed item", cat.Name)
			}

			if !item.Status.Valid() {
				return models.NewStepError(StepChecklist,
					"Item %q has an invalid status %q", item.Name, item.Status)
			}
		}
	}

	return nil
}

func validateSignatures(insp *models.Inspection) *models.StepError {
	if !insp.PrivacyConsent {
		return models.NewStepError(StepSignatures, "Privacy consent must be given before submission")
	}

	if !insp.Signatures.HasAny() {
		return models.NewStepError(StepSignatures,
			"At least one of the technician or manager signatures is required")
	}

	return nil
}
