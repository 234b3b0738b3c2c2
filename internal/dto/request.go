package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/here-event-os/internal/models"
)

// DateLayout is the calendar date format accepted by request payloads.
const DateLayout = "2006-01-02"

// SubmitRequest carries subject fields for any queue, keyed by column header.
type SubmitRequest struct {
	Fields []models.Field `json:"fields" validate:"required,min=1,dive"`
}

// LeaveRequest payload for POST /requests/leave.
type LeaveRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason" validate:"max=500"`
}

// AdvanceRequest payload for POST /requests/advance.
type AdvanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" validate:"max=500"`
}

// PurchaseRequest payload for POST /requests/purchase.
type PurchaseRequest struct {
	Item          string          `json:"item" validate:"required,max=200"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	Reason        string          `json:"reason" validate:"max=500"`
}

// RejectRequest carries the mandatory manager note.
type RejectRequest struct {
	Note string `json:"note"`
}

// SubmissionResponse echoes the appended row.
type SubmissionResponse struct {
	Queue     models.QueueName     `json:"queue"`
	Requester string               `json:"requester"`
	Status    models.RequestStatus `json:"status"`
	Fields    []models.Field       `json:"fields"`
}

// DecisionResponse reports the state written by approve or reject.
type DecisionResponse struct {
	Queue    models.QueueName     `json:"queue"`
	Position int                  `json:"position"`
	Status   models.RequestStatus `json:"status"`
	Note     string               `json:"note,omitempty"`
}

// ExportFile is a rendered queue download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
