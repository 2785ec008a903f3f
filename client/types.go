package client

import "time"

// Inspection is a pre-delivery inspection record as returned by the API.
type Inspection struct {
	ID             string              `json:"id,omitempty"`
	Number         string              `json:"number,omitempty"`
	InspectorName  string              `json:"inspector_name"`
	InspectorEmail string              `json:"inspector_email"`
	InspectionDate *time.Time          `json:"inspection_date,omitempty"`
	Status         string              `json:"status"`
	RetentionDays  int                 `json:"data_retention_days,omitempty"`
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

// GPSPoint is a single captured location fix.
type GPSPoint struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Address    string    `json:"address,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// TrackPoint is one sample in a road-test track.
type TrackPoint struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RoadTest holds the captured track of a test drive and derived totals.
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

// Barcode is a scanned or OCR'd code plus its inferred type.
type Barcode struct {
	Code string `json:"code"`
	Type string `json:"type"`
}

// Photo references an uploaded image by name and URL.
type Photo struct {
	FileName string         `json:"file_name"`
	URL      string         `json:"url,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ChecklistItem is a single inspection point within a category.
type ChecklistItem struct {
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Notes  string  `json:"notes,omitempty"`
	Photos []Photo `json:"photos,omitempty"`
}

// ChecklistCategory groups related checklist items.
type ChecklistCategory struct {
	Name  string          `json:"name"`
	Items []ChecklistItem `json:"items"`
}

// Signatures holds the image-encoded signature strings.
type Signatures struct {
	Technician string `json:"technician,omitempty"`
	Manager    string `json:"manager,omitempty"`
}

// CreateInspectionRequest is the payload for starting a new draft inspection.
type CreateInspectionRequest struct {
	InspectorName  string     `json:"inspector_name"`
	InspectorEmail string     `json:"inspector_email"`
	InspectionDate *time.Time `json:"inspection_date"`
	RetentionDays  int        `json:"data_retention_days,omitempty"`
}

// ListInspectionOptions holds filters for listing inspections.
type ListInspectionOptions struct {
	Status         string
	InspectorEmail string
	Limit          int
	Offset         int
}

// User is an identity record.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// UpdateUserRequest is the payload for updating a user. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// AuditEntry is a single audit log record.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id"`
	ActorEmail string         `json:"actor_email"`
	ActorName  string         `json:"actor_name,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	IP         string         `json:"ip"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditQueryOptions holds filters for querying the audit log.
type AuditQueryOptions struct {
	EntityType string
	EntityID   string
	Action     string
	ActorEmail string
	Since      *time.Time
	Limit      int
	Offset     int
}

// SweepResult summarizes one compliance sweep run.
type SweepResult struct {
	Scanned        int       `json:"scanned"`
	Deleted        int       `json:"deleted"`
	DeletedNumbers []string  `json:"deleted_numbers,omitempty"`
	SweptAt        time.Time `json:"swept_at"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is the readiness check payload.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
