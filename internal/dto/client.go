package dto

// CreateClientRequest adds a directory entry.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
}

// UpdateClientRequest edits a directory entry.
type UpdateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Active  bool   `json:"active"`
}
