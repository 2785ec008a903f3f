// Package models defines data types for the inspection service.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultRetentionDays is the retention window applied when an inspection
// does not carry an explicit data_retention_days value.
const DefaultRetentionDays = 365

// InspectionStatus is the lifecycle state of an inspection.
type InspectionStatus string

// Inspection lifecycle states. An inspection is created as draft and becomes
// completed only through the final submission transition.
const (
	StatusDraft     InspectionStatus = "draft"
	StatusCompleted InspectionStatus = "completed"
)

// Valid reports whether s is a known lifecycle state.
func (s InspectionStatus) Valid() bool {
	return s == StatusDraft || s == StatusCompleted
}

// Inspection is the full pre-delivery inspection aggregate, including all
// independently-saved sections.
type Inspection struct {
	ID             string            `json:"id,omitempty"`
	Number         string            `json:"number,omitempty"`
	InspectorName  string            `json:"inspector_name"`
	InspectorEmail string            `json:"inspector_email"`
	InspectionDate *time.Time        `json:"inspection_date,omitempty"`
	Status         InspectionStatus  `json:"status"`
	// RetentionDays of 0 means "unset"; the sweeper falls back to DefaultRetentionDays.
	RetentionDays int `json:"data_retention_days,omitempty"`
	// Revision is bumped by the store on every write. It is informational:
	// writes are not rejected on a stale revision (last-writer-wins).
	Revision       int                 `json:"revision,omitempty"`
	VehicleInfo    map[string]string   `json:"vehicle_info,omitempty"`
	Location       *Location           `json:"location,omitempty"`
	Barcode        *Barcode            `json:"barcode,omitempty"`
	Photos         []Photo             `json:"photos,omitempty"`
	Checklist      []ChecklistCategory `json:"checklist,omitempty"`
	Signatures     *Signatures         `json:"signatures,omitempty"`
	PrivacyConsent bool                `json:"privacy_consent"`
	CreatedAt      time.Time           `json:"created_at,omitempty"`
	UpdatedAt      time.Time           `json:"updated_at,omitempty"`
}

// Well-known vehicle_info keys. The map is otherwise free-form.
const (
	VehicleKeyVIN           = "vin"
	VehicleKeyLicensePlate  = "license_plate"
	VehicleKeyBookingNumber = "booking_number"
)

// HasVehicleIdentity reports whether at least one of VIN, license plate or
// booking number is present in the vehicle info section.
func (i *Inspection) HasVehicleIdentity() bool {
	for _, k := range []string{VehicleKeyVIN, VehicleKeyLicensePlate, VehicleKeyBookingNumber} {
		if strings.TrimSpace(i.VehicleInfo[k]) != "" {
			return true
		}
	}

	return false
}

// RetentionExpiry returns the instant after which a completed inspection is
// eligible for deletion. Returns the zero time if no inspection date is set.
func (i *Inspection) RetentionExpiry() time.Time {
	if i.InspectionDate == nil {
		return time.Time{}
	}

	days := i.RetentionDays
	if days <= 0 {
		days = DefaultRetentionDays
	}

	return i.InspectionDate.AddDate(0, 0, days)
}

// GPSPoint is a single captured location fix.
type GPSPoint struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Address    string    `json:"address,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// TrackPoint is one sample in a road-test track. Samples arrive at the
// location provider's own cadence; order is significant.
type TrackPoint struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RoadTest holds the captured track of a test drive plus the derived
// distance and duration computed when the road test is stopped.
type RoadTest struct {
	DistanceKM      float64      `json:"distance_km"`
	DurationSeconds float64      `json:"duration_seconds"`
	Points          []TrackPoint `json:"points,omitempty"`
}

// Location groups the GPS captures of an inspection.
type Location struct {
	Start    *GPSPoint `json:"start,omitempty"`
	End      *GPSPoint `json:"end,omitempty"`
	Current  *GPSPoint `json:"current,omitempty"`
	RoadTest *RoadTest `json:"road_test,omitempty"`
}

// HasFix reports whether at least one GPS point has been captured.
func (l *Location) HasFix() bool {
	return l != nil && (l.Start != nil || l.End != nil || l.Current != nil)
}

// BarcodeType tags what kind of code was scanned.
type BarcodeType string

// Recognized barcode type tags.
const (
	BarcodeVIN        BarcodeType = "VIN"
	BarcodeCompliance BarcodeType = "COMPLIANCE"
	BarcodeOther      BarcodeType = "OTHER"
)

// Barcode is a scanned or OCR'd code plus its inferred type.
type Barcode struct {
	Code string      `json:"code"`
	Type BarcodeType `json:"type"`
}

// vinPattern matches a 17-character VIN. I, O and Q are never used in VINs.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// digitsPattern matches an all-numeric compliance plate code.
var digitsPattern = regexp.MustCompile(`^[0-9]{8,32}$`)

// InferBarcodeType classifies a scanned code as VIN, COMPLIANCE or OTHER.
func InferBarcodeType(code string) BarcodeType {
	code = strings.ToUpper(strings.TrimSpace(code))

	switch {
	case vinPattern.MatchString(code):
		return BarcodeVIN
	case digitsPattern.MatchString(code):
		return BarcodeCompliance
	default:
		return BarcodeOther
	}
}

// Photo references an uploaded image. The service stores identifiers only,
// never the bytes; order is display order.
type Photo struct {
	FileName string         `json:"file_name"`
	URL      string         `json:"url,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Signatures holds the image-encoded signature strings captured externally.
type Signatures struct {
	Technician string `json:"technician,omitempty"`
	Manager    string `json:"manager,omitempty"`
}

// HasAny reports whether at least one signature is present.
func (s *Signatures) HasAny() bool {
	return s != nil && (strings.TrimSpace(s.Technician) != "" || strings.TrimSpace(s.Manager) != "")
}

// emailPattern is a deliberately simple local@domain.tld check.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail lowercases and trims an email for use as an ownership key.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CreateInspectionRequest is the payload for creating a new draft inspection.
// Only the step-1 header fields are required at creation time; sections are
// filled in afterwards through section saves.
type CreateInspectionRequest struct {
	InspectorName  string     `json:"inspector_name"`
	InspectorEmail string     `json:"inspector_email"`
	InspectionDate *time.Time `json:"inspection_date"`
	RetentionDays  int        `json:"data_retention_days,omitempty"`
}

// Validate checks the creation payload.
func (r *CreateInspectionRequest) Validate() error {
	if strings.TrimSpace(r.InspectorName) == "" {
		return ErrMissingInspectorName
	}

	if r.InspectorEmail == "" {
		return ErrMissingInspectorEmail
	}

	if !ValidEmail(r.InspectorEmail) {
		return ErrInvalidInspectorEmail
	}

	if r.InspectionDate == nil {
		return ErrMissingInspectionDate
	}

	if r.RetentionDays < 0 {
		return fmt.Errorf("data_retention_days must not be negative")
	}

	return nil
}

// ListInspectionOpts holds filters for listing inspections.
type ListInspectionOpts struct {
	Status         InspectionStatus
	InspectorEmail string
	Limit          int
	Offset         int
}
