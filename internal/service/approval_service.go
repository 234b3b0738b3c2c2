package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
	"github.com/noah-isme/here-event-os/pkg/export"
	"github.com/noah-isme/here-event-os/pkg/translit"
)

// Decision labels used in logs and metrics.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type queueStore interface {
	Snapshot(ctx context.Context, queue models.QueueConfig) ([]models.RequestRecord, error)
	Grid(ctx context.Context, queue models.QueueConfig) ([][]string, error)
	WriteStatus(ctx context.Context, queue models.QueueConfig, position int, status models.RequestStatus) error
	WriteNote(ctx context.Context, queue models.QueueConfig, position int, note string) error
}

type decisionRecorder interface {
	RecordDecision(queue, decision string)
}

// ApprovalService turns queue tables into a pending/approved/rejected lifecycle.
//
// Every read takes a fresh snapshot and every decision is written blind to the position it was
// given. Two managers acting on the same record both succeed and the last write wins; a record
// whose rejection note failed to save stays Rejected with an empty note.
type ApprovalService struct {
	repo    queueStore
	queues  models.QueueRegistry
	metrics decisionRecorder
	logger  *zap.Logger
	now     func() time.Time
}

// ApprovalServiceOption configures the service.
type ApprovalServiceOption func(*ApprovalService)

// WithDecisionRecorder reports decisions to metrics.
func WithDecisionRecorder(recorder decisionRecorder) ApprovalServiceOption {
	return func(s *ApprovalService) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithApprovalClock overrides the clock used for export file names.
func WithApprovalClock(now func() time.Time) ApprovalServiceOption {
	return func(s *ApprovalService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewApprovalService constructs the service.
func NewApprovalService(repo queueStore, queues models.QueueRegistry, logger *zap.Logger, opts ...ApprovalServiceOption) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ApprovalService{repo: repo, queues: queues, logger: logger, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Queues lists the configured queue names.
func (s *ApprovalService) Queues() []models.QueueName {
	return s.queues.Names()
}

// ListPending returns the records whose status is Pending, in table order.
func (s *ApprovalService) ListPending(ctx context.Context, queue models.QueueName) ([]models.RequestRecord, error) {
	cfg, err := s.lookup(queue)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Snapshot(ctx, cfg)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("failed to read %s queue", cfg.Name))
	}
	pending := make([]models.RequestRecord, 0, len(records))
	for _, record := range records {
		if record.IsPending() {
			pending = append(pending, record)
		}
	}
	return pending, nil
}

// ListByRequester returns every record submitted under the requester name, whatever its status.
func (s *ApprovalService) ListByRequester(ctx context.Context, queue models.QueueName, requester string) ([]models.RequestRecord, error) {
	cfg, err := s.lookup(queue)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(requester) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requester is required")
	}
	records, err := s.repo.Snapshot(ctx, cfg)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("failed to read %s queue", cfg.Name))
	}
	column := cfg.Columns[cfg.RequesterColumn-1]
	mine := make([]models.RequestRecord, 0)
	for _, record := range records {
		if value, ok := record.Field(column); ok && translit.Equal(value, requester) {
			mine = append(mine, record)
		}
	}
	return mine, nil
}

// Approve writes Approved to the record's status cell. The note is left as it is and the row is
// not re-read first, so approving twice simply writes twice.
func (s *ApprovalService) Approve(ctx context.Context, actor *models.Session, queue models.QueueName, record models.RequestRecord) error {
	cfg, err := s.authorize(actor, queue, record)
	if err != nil {
		return err
	}
	if err := s.repo.WriteStatus(ctx, cfg, record.Position, models.RequestStatusApproved); err != nil {
		return storeError(err, "failed to record approval")
	}
	s.record(cfg, DecisionApprove, actor, record.Position)
	return nil
}

// Reject writes Rejected and then the note. A blank note is refused before the store is touched.
// When the note write fails the status has already changed and ErrPartialWrite is returned.
func (s *ApprovalService) Reject(ctx context.Context, actor *models.Session, queue models.QueueName, record models.RequestRecord, note string) error {
	if strings.TrimSpace(note) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "a rejection note is required")
	}
	cfg, err := s.authorize(actor, queue, record)
	if err != nil {
		return err
	}
	if err := s.repo.WriteStatus(ctx, cfg, record.Position, models.RequestStatusRejected); err != nil {
		return storeError(err, "failed to record rejection")
	}
	if err := s.repo.WriteNote(ctx, cfg, record.Position, note); err != nil {
		s.logger.Error("rejection note not saved",
			zap.String("queue", string(cfg.Name)),
			zap.Int("position", record.Position),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrPartialWrite.Code, appErrors.ErrPartialWrite.Status, "request was rejected but the note could not be saved")
	}
	s.record(cfg, DecisionReject, actor, record.Position)
	return nil
}

// Export renders the whole queue table in the requested format.
func (s *ApprovalService) Export(ctx context.Context, queue models.QueueName, format string) (*dto.ExportFile, error) {
	cfg, err := s.lookup(queue)
	if err != nil {
		return nil, err
	}
	renderer, ok := export.RendererFor(format)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	grid, err := s.repo.Grid(ctx, cfg)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("failed to read %s queue", cfg.Name))
	}
	data := export.Dataset{Title: cfg.Sheet, Headers: cfg.Columns}
	if len(grid) > 1 {
		data.Rows = grid[1:]
	}
	payload, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", cfg.Name, s.now().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *ApprovalService) lookup(queue models.QueueName) (models.QueueConfig, error) {
	cfg, ok := s.queues.Lookup(queue)
	if !ok {
		return models.QueueConfig{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown queue %q", queue))
	}
	return cfg, nil
}

func (s *ApprovalService) authorize(actor *models.Session, queue models.QueueName, record models.RequestRecord) (models.QueueConfig, error) {
	if actor == nil {
		return models.QueueConfig{}, appErrors.Clone(appErrors.ErrUnauthorized, "login required")
	}
	if !actor.IsManager() {
		return models.QueueConfig{}, appErrors.Clone(appErrors.ErrForbidden, "only managers can decide requests")
	}
	cfg, err := s.lookup(queue)
	if err != nil {
		return models.QueueConfig{}, err
	}
	if record.Position < 1 {
		return models.QueueConfig{}, appErrors.Clone(appErrors.ErrValidation, "position must be a positive row number")
	}
	return cfg, nil
}

func (s *ApprovalService) record(cfg models.QueueConfig, decision string, actor *models.Session, position int) {
	if s.metrics != nil {
		s.metrics.RecordDecision(string(cfg.Name), decision)
	}
	s.logger.Info("request decided",
		zap.String("queue", string(cfg.Name)),
		zap.String("decision", decision),
		zap.Int("position", position),
		zap.String("manager", actor.Username),
	)
}
