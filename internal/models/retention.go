package models

import "time"

// SweepResult summarizes one compliance sweep run.
type SweepResult struct {
	// Scanned is the number of completed inspections examined.
	Scanned int `json:"scanned"`
	// Deleted is the number of inspections actually removed. A re-run over
	// the same data deletes zero.
	Deleted int `json:"deleted"`
	// DeletedNumbers lists the business numbers of the removed inspections
	// for the audit trail.
	DeletedNumbers []string  `json:"deleted_numbers,omitempty"`
	SweptAt        time.Time `json:"swept_at"`
}
