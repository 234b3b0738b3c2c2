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

type submissionService interface {
	Submit(ctx context.Context, queue models.QueueName, requester string, fields []models.Field) (*dto.SubmissionResponse, error)
	SubmitLeave(ctx context.Context, actor *models.Session, req dto.LeaveRequest) (*dto.SubmissionResponse, error)
	SubmitAdvance(ctx context.Context, actor *models.Session, req dto.AdvanceRequest) (*dto.SubmissionResponse, error)
	SubmitPurchase(ctx context.Context, actor *models.Session, req dto.PurchaseRequest) (*dto.SubmissionResponse, error)
}

// SubmissionHandler accepts new requests from employees.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(svc submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: svc}
}

// Submit godoc
// @Summary Submit a request with raw fields
// @Description Appends a pending row. Fields are keyed by column header; status, note and requester columns are filled by the server.
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param queue path string true "Queue name"
// @Param payload body dto.SubmitRequest true "Fields"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /queues/{queue}/requests [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}
	res, err := h.service.Submit(c.Request.Context(), queueParam(c), session.DisplayName, req.Fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Leave godoc
// @Summary Request leave
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.LeaveRequest true "Leave dates"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests/leave [post]
func (h *SubmissionHandler) Leave(c *gin.Context) {
	var req dto.LeaveRequest
	submitTyped(c, &req, func(ctx context.Context, s *models.Session) (*dto.SubmissionResponse, error) {
		return h.service.SubmitLeave(ctx, s, req)
	})
}

// Advance godoc
// @Summary Request a cash advance
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.AdvanceRequest true "Advance"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests/advance [post]
func (h *SubmissionHandler) Advance(c *gin.Context) {
	var req dto.AdvanceRequest
	submitTyped(c, &req, func(ctx context.Context, s *models.Session) (*dto.SubmissionResponse, error) {
		return h.service.SubmitAdvance(ctx, s, req)
	})
}

// Purchase godoc
// @Summary Request a purchase
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.PurchaseRequest true "Purchase"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests/purchase [post]
func (h *SubmissionHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	submitTyped(c, &req, func(ctx context.Context, s *models.Session) (*dto.SubmissionResponse, error) {
		return h.service.SubmitPurchase(ctx, s, req)
	})
}

// submitTyped binds the body into req before calling submit.
func submitTyped(c *gin.Context, req interface{}, submit func(context.Context, *models.Session) (*dto.SubmissionResponse, error)) {
	session, err := sessionFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}
	res, err := submit(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}
