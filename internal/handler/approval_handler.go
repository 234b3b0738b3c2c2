package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
	"github.com/noah-isme/here-event-os/pkg/response"
)

type approvalService interface {
	Queues() []models.QueueName
	ListPending(ctx context.Context, queue models.QueueName) ([]models.RequestRecord, error)
	ListByRequester(ctx context.Context, queue models.QueueName, requester string) ([]models.RequestRecord, error)
	Approve(ctx context.Context, actor *models.Session, queue models.QueueName, record models.RequestRecord) error
	Reject(ctx context.Context, actor *models.Session, queue models.QueueName, record models.RequestRecord, note string) error
	Export(ctx context.Context, queue models.QueueName, format string) (*dto.ExportFile, error)
}

// ApprovalHandler exposes the approval queues.
type ApprovalHandler struct {
	service approvalService
}

// NewApprovalHandler constructs the handler.
func NewApprovalHandler(svc approvalService) *ApprovalHandler {
	return &ApprovalHandler{service: svc}
}

// Queues godoc
// @Summary List queues
// @Tags Approvals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /queues [get]
func (h *ApprovalHandler) Queues(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Queues())
}

// Pending godoc
// @Summary List pending requests
// @Description Reads the queue table fresh and returns rows still awaiting a decision. Positions are only valid until the table changes.
// @Tags Approvals
// @Security BearerAuth
// @Produce json
// @Param queue path string true "Queue name (leave, advance, purchase)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /queues/{queue}/pending [get]
func (h *ApprovalHandler) Pending(c *gin.Context) {
	records, err := h.service.ListPending(c.Request.Context(), queueParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// Mine godoc
// @Summary List my requests
// @Tags Approvals
// @Security BearerAuth
// @Produce json
// @Param queue path string true "Queue name"
// @Success 200 {object} response.Envelope
// @Router /queues/{queue}/mine [get]
func (h *ApprovalHandler) Mine(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.service.ListByRequester(c.Request.Context(), queueParam(c), session.DisplayName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// Approve godoc
// @Summary Approve a request
// @Description Writes the approved status to the row at position. The row is not re-read; the last decision written wins.
// @Tags Approvals
// @Security BearerAuth
// @Produce json
// @Param queue path string true "Queue name"
// @Param position path int true "1-based data row"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /queues/{queue}/requests/{position}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	position, err := positionParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	queue := queueParam(c)
	if err := h.service.Approve(c.Request.Context(), session, queue, models.RequestRecord{Position: position}); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DecisionResponse{Queue: queue, Position: position, Status: models.RequestStatusApproved})
}

// Reject godoc
// @Summary Reject a request
// @Description Writes the rejected status and then the note. PARTIAL_WRITE means the status changed but the note was not saved.
// @Tags Approvals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param queue path string true "Queue name"
// @Param position path int true "1-based data row"
// @Param payload body dto.RejectRequest true "Rejection note"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /queues/{queue}/requests/{position}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	position, err := positionParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reject payload"))
		return
	}
	queue := queueParam(c)
	if err := h.service.Reject(c.Request.Context(), session, queue, models.RequestRecord{Position: position}, req.Note); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DecisionResponse{Queue: queue, Position: position, Status: models.RequestStatusRejected, Note: req.Note})
}

// Export godoc
// @Summary Download a queue
// @Tags Approvals
// @Security BearerAuth
// @Produce octet-stream
// @Param queue path string true "Queue name"
// @Param format query string false "csv, xlsx or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /queues/{queue}/export [get]
func (h *ApprovalHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), queueParam(c), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
