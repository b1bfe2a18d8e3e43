package models

// Category represents an asset category
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CategoryInput is the submitted form state for a category
type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}
