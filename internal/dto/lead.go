package dto

// LeadRequest payload for POST /leads.
type LeadRequest struct {
	Company string `json:"company" validate:"required,max=200"`
	Contact string `json:"contact" validate:"max=200"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Note    string `json:"note" validate:"max=1000"`
}
