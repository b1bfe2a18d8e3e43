package models

// Department represents an organizational department
type Department struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// DepartmentInput is the submitted form state for a department
type DepartmentInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}
