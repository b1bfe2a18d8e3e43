package models

import "time"

// Asset statuses recognized by the dashboard.
var ValidStatuses = []string{
	"available",
	"assigned",
	"maintenance",
	"retired",
}

// IsValidStatus checks if a status is one of the recognized values
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Asset represents a tracked organizational asset
type Asset struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Description     *string    `json:"description,omitempty"`
	AssetCode       string     `json:"asset_code"`
	CategoryID      int64      `json:"category_id"`
	DepartmentID    *int64     `json:"department_id,omitempty"`
	Status          string     `json:"status"`
	AcquisitionDate *time.Time `json:"acquisition_date,omitempty"`
	AcquisitionCost *float64   `json:"acquisition_cost,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// Populated only when the caller asked for relation expansion.
	Category   *Category   `json:"category,omitempty"`
	Department *Department `json:"department,omitempty"`
}

// AssetInput is the submitted form state for creating or fully
// overwriting an asset. Fields the form leaves blank are sent as
// empty/null; there is no partial-patch shape.
type AssetInput struct {
	Name            string     `json:"name"`
	Description     *string    `json:"description,omitempty"`
	AssetCode       string     `json:"asset_code"`
	CategoryID      int64      `json:"category_id"`
	DepartmentID    *int64     `json:"department_id,omitempty"`
	Status          string     `json:"status"`
	AcquisitionDate *time.Time `json:"acquisition_date,omitempty"`
	AcquisitionCost *float64   `json:"acquisition_cost,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}
