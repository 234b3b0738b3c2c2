package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/internal/repository"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
)

type rowAppender interface {
	Append(ctx context.Context, queue models.QueueConfig, values []string) error
}

type notifier interface {
	Send(ctx context.Context, to, subject, body string) bool
}

type notificationRecorder interface {
	RecordNotification(ok bool)
}

// SubmissionService appends new pending requests to queue tables.
type SubmissionService struct {
	repo       rowAppender
	queues     models.QueueRegistry
	validator  *validator.Validate
	notifier   notifier
	recorder   notificationRecorder
	managerTo  string
	logger     *zap.Logger
	now        func() time.Time
	dateLayout string
}

// SubmissionServiceOption configures the service.
type SubmissionServiceOption func(*SubmissionService)

// WithManagerNotifier sends a best-effort message to address after every submission.
func WithManagerNotifier(n notifier, address string) SubmissionServiceOption {
	return func(s *SubmissionService) {
		s.notifier = n
		s.managerTo = strings.TrimSpace(address)
	}
}

// WithNotificationRecorder counts notification outcomes.
func WithNotificationRecorder(recorder notificationRecorder) SubmissionServiceOption {
	return func(s *SubmissionService) {
		s.recorder = recorder
	}
}

// WithSubmissionClock overrides the clock that stamps submission dates.
func WithSubmissionClock(now func() time.Time) SubmissionServiceOption {
	return func(s *SubmissionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSubmissionService constructs the service.
func NewSubmissionService(repo rowAppender, queues models.QueueRegistry, validate *validator.Validate, logger *zap.Logger, opts ...SubmissionServiceOption) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	svc := &SubmissionService{
		repo:       repo,
		queues:     queues,
		validator:  validate,
		logger:     logger,
		now:        time.Now,
		dateLayout: dto.DateLayout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Submit appends a Pending row built from fields in the queue's column order. It never reads the
// table, so duplicate submissions are not detected.
func (s *SubmissionService) Submit(ctx context.Context, queue models.QueueName, requester string, fields []models.Field) (*dto.SubmissionResponse, error) {
	cfg, ok := s.queues.Lookup(queue)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown queue %q", queue))
	}
	requester = strings.TrimSpace(requester)
	if requester == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requester is required")
	}
	values, err := repository.EncodeSubmission(cfg, requester, fields)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := s.repo.Append(ctx, cfg, values); err != nil {
		return nil, storeError(err, fmt.Sprintf("failed to submit %s request", cfg.Name))
	}
	s.logger.Info("request submitted", zap.String("queue", string(cfg.Name)), zap.String("requester", requester))

	resp := &dto.SubmissionResponse{
		Queue:     cfg.Name,
		Requester: requester,
		Status:    models.RequestStatusPending,
		Fields:    make([]models.Field, 0, len(cfg.Columns)),
	}
	for _, pos := range cfg.SubjectColumns() {
		resp.Fields = append(resp.Fields, models.Field{Name: cfg.Columns[pos-1], Value: values[pos-1]})
	}
	s.notify(ctx, cfg, requester, resp.Fields)
	return resp, nil
}

// SubmitLeave files a leave request. Days are counted inclusively: end - start + 1.
func (s *SubmissionService) SubmitLeave(ctx context.Context, actor *models.Session, req dto.LeaveRequest) (*dto.SubmissionResponse, error) {
	if err := s.validate(actor, req); err != nil {
		return nil, err
	}
	start, err := time.Parse(dto.DateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "startDate must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse(dto.DateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "endDate must be formatted as YYYY-MM-DD")
	}
	days, err := LeaveDays(start, end)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, models.QueueLeave, actor.DisplayName, []models.Field{
		{Name: models.ColumnDate, Value: s.today()},
		{Name: models.ColumnLeaveStart, Value: start.Format(dto.DateLayout)},
		{Name: models.ColumnLeaveEnd, Value: end.Format(dto.DateLayout)},
		{Name: models.ColumnLeaveDays, Value: strconv.Itoa(days)},
		{Name: models.ColumnReason, Value: strings.TrimSpace(req.Reason)},
	})
}

// SubmitAdvance files a cash advance request for a positive amount.
func (s *SubmissionService) SubmitAdvance(ctx context.Context, actor *models.Session, req dto.AdvanceRequest) (*dto.SubmissionResponse, error) {
	if err := s.validate(actor, req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must be greater than zero")
	}
	return s.Submit(ctx, models.QueueAdvance, actor.DisplayName, []models.Field{
		{Name: models.ColumnDate, Value: s.today()},
		{Name: models.ColumnAdvanceAmount, Value: req.Amount.StringFixed(2)},
		{Name: models.ColumnReason, Value: strings.TrimSpace(req.Reason)},
	})
}

// SubmitPurchase files a purchase request.
func (s *SubmissionService) SubmitPurchase(ctx context.Context, actor *models.Session, req dto.PurchaseRequest) (*dto.SubmissionResponse, error) {
	if err := s.validate(actor, req); err != nil {
		return nil, err
	}
	if req.EstimatedCost.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "estimatedCost must not be negative")
	}
	return s.Submit(ctx, models.QueuePurchase, actor.DisplayName, []models.Field{
		{Name: models.ColumnDate, Value: s.today()},
		{Name: models.ColumnPurchaseItem, Value: strings.TrimSpace(req.Item)},
		{Name: models.ColumnPurchaseQuantity, Value: strconv.Itoa(req.Quantity)},
		{Name: models.ColumnPurchaseCost, Value: req.EstimatedCost.StringFixed(2)},
		{Name: models.ColumnReason, Value: strings.TrimSpace(req.Reason)},
	})
}

// LeaveDays counts calendar days from start to end inclusive.
func LeaveDays(start, end time.Time) (int, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return 0, appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *SubmissionService) validate(actor *models.Session, req interface{}) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "login required")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}
	return nil
}

func (s *SubmissionService) today() string {
	return s.now().Format(s.dateLayout)
}

// notify tells the manager about a new request. The outcome never affects the submission.
func (s *SubmissionService) notify(ctx context.Context, cfg models.QueueConfig, requester string, fields []models.Field) {
	if s.notifier == nil || s.managerTo == "" {
		return
	}
	var body strings.Builder
	fmt.Fprintf(&body, "%s yeni bir talep gonderdi (%s).\n\n", requester, cfg.Sheet)
	for _, f := range fields {
		fmt.Fprintf(&body, "%s: %s\n", f.Name, f.Value)
	}
	ok := s.notifier.Send(ctx, s.managerTo, fmt.Sprintf("Yeni %s talebi: %s", cfg.Sheet, requester), body.String())
	if !ok {
		s.logger.Warn("manager notification not sent", zap.String("queue", string(cfg.Name)))
	}
	if s.recorder != nil {
		s.recorder.RecordNotification(ok)
	}
}
