package models

// ItemStatus is the enumerated result code of a checklist item.
type ItemStatus string

// Checklist status codes. The single-letter codes are the current set;
// pass/fail/na are legacy aliases still accepted from older clients.
const (
	StatusOK            ItemStatus = "OK"
	StatusCorrected     ItemStatus = "C"
	StatusAttention     ItemStatus = "A"
	StatusRepair        ItemStatus = "R"
	StatusReplaced      ItemStatus = "RP"
	StatusNotApplicable ItemStatus = "N"

	LegacyPass ItemStatus = "pass"
	LegacyFail ItemStatus = "fail"
	LegacyNA   ItemStatus = "na"
)

// Valid reports whether s is a recognized status code, legacy aliases included.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusOK, StatusCorrected, StatusAttention, StatusRepair, StatusReplaced, StatusNotApplicable,
		LegacyPass, LegacyFail, LegacyNA:
		return true
	}

	return false
}

// ChecklistItem is a single inspection point within a category.
type ChecklistItem struct {
	Name   string     `json:"name"`
	Status ItemStatus `json:"status"`
	Notes  string     `json:"notes,omitempty"`
	Photos []Photo    `json:"photos,omitempty"`
}

// ChecklistCategory groups related checklist items. Order is significant.
type ChecklistCategory struct {
	Name  string          `json:"name"`
	Items []ChecklistItem `json:"items"`
}
