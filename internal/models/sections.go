package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Section names. Each maps to one or more top-level aggregate keys:
// inspectorInfo covers the three header scalars, the rest map 1:1 to their
// same-named nested structure.
const (
	SectionInspectorInfo = "inspectorInfo"
	SectionVehicleInfo   = "vehicleInfo"
	SectionLocation      = "location"
	SectionBarcode       = "barcode"
	SectionPhotos        = "photos"
	SectionChecklist     = "checklist"
	SectionSignatures    = "signatures"
)

// SectionNames lists all saveable sections in form order.
var SectionNames = []string{
	SectionInspectorInfo,
	SectionVehicleInfo,
	SectionLocation,
	SectionBarcode,
	SectionPhotos,
	SectionChecklist,
	SectionSignatures,
}

// KnownSection reports whether name is a saveable section.
func KnownSection(name string) bool {
	for _, s := range SectionNames {
		if s == name {
			return true
		}
	}

	return false
}

// inspectorInfoPatch is the decoded shape of an inspectorInfo section patch.
type inspectorInfoPatch struct {
	InspectorName  string     `json:"inspector_name"`
	InspectorEmail string     `json:"inspector_email"`
	InspectionDate *time.Time `json:"inspection_date"`
}

// ApplySectionPatch decodes patch into the typed structure for the named
// section and replaces the corresponding top-level keys of the aggregate.
// The merge is shallow: a patched nested object replaces the persisted one
// wholesale, it is never deep-merged.
func (i *Inspection) ApplySectionPatch(section string, patch json.RawMessage) error {
	switch section {
	case SectionInspectorInfo:
		var p inspectorInfoPatch
		if err := json.Unmarshal(patch, &p); err != nil {
			return fmt.Errorf("decoding %s patch: %w", section, err)
		}

		i.InspectorName = p.InspectorName
		i.InspectorEmail = NormalizeEmail(p.InspectorEmail)
		i.InspectionDate = p.InspectionDate
	case SectionVehicleInfo:
		var p map[string]string
		if err := json.Unmarshal(patch, &p); err != nil {
			return fmt.Errorf("decoding %s patch: %w", section, err)
		}

		i.VehicleInfo = p
	case SectionLocation:
		var p *Location
		if err := json.Unmarshal(patch, &p); err != nil {
			return fmt.Errorf("decoding %s patch: %w", section, err)
		}

		i.Location = p
	case SectionBarcode:
		var p *Barcode
		if err := json.Unmarshal(patch, &p); err != nil {
			return fmt.Errorf("decoding %s patch: %w", section, err)
		}

		if p != nil && p.Type == "" {
			p.Type = InferBarcodeType(p.Code)
		}

		i.Barcode = p
	case SectionPhotos:
		var p []Photo
		if err := json.Unmarshal(patch, &p); err != nil {
			return fmt.Errorf("decoding %s patch: %w", section, err)
		}

		i.Photos = p
	case SectionChecklist:
		var p []ChecklistCategory
		if err := json.Unmarshal(patch, &p); err != nil {
			return fmt.Errorf("decoding %s patch: %w", section, err)
		}

		i.Checklist = p
	case SectionSignatures:
		// The signatures patch also carries privacy consent: both live on
		// the final form step and are saved together.
		var p struct {
			Signatures     *Signatures `json:"signatures"`
			PrivacyConsent *bool       `json:"privacy_consent"`
		}
		if err := json.Unmarshal(patch, &p); err != nil {
			return fmt.Errorf("decoding %s patch: %w", section, err)
		}

		i.Signatures = p.Signatures
		if p.PrivacyConsent != nil {
			i.PrivacyConsent = *p.PrivacyConsent
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	return nil
}
