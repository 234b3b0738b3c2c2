package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/here-event-os/internal/dto"
	"github.com/noah-isme/here-event-os/internal/models"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
)

type leadStore interface {
	Create(ctx context.Context, lead models.Lead) error
	List(ctx context.Context) ([]models.Lead, error)
}

// LeadService records sales leads captured by employees.
type LeadService struct {
	repo      leadStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeadService constructs the service.
func NewLeadService(repo leadStore, validate *validator.Validate, logger *zap.Logger) *LeadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LeadService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// Submit appends a lead owned by the actor.
func (s *LeadService) Submit(ctx context.Context, actor *models.Session, req dto.LeadRequest) (*models.Lead, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "login required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lead payload")
	}
	lead := models.Lead{
		Date:    s.now().Format(dto.DateLayout),
		Owner:   actor.DisplayName,
		Company: strings.TrimSpace(req.Company),
		Contact: strings.TrimSpace(req.Contact),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   strings.TrimSpace(req.Email),
		Note:    strings.TrimSpace(req.Note),
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, storeError(err, "failed to save lead")
	}
	s.logger.Info("lead captured", zap.String("owner", lead.Owner), zap.String("company", lead.Company))
	return &lead, nil
}

// List returns every lead. Managers only.
func (s *LeadService) List(ctx context.Context, actor *models.Session) ([]models.Lead, error) {
	if !actor.IsManager() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers can list leads")
	}
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to read leads")
	}
	return leads, nil
}
