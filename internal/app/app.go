// Package app assembles the workflow services from configuration. Both the HTTP gateway and the
// workflowctl CLI build their dependencies through Container.
package app

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/here-event-os/internal/models"
	"github.com/noah-isme/here-event-os/internal/repository"
	"github.com/noah-isme/here-event-os/internal/service"
	"github.com/noah-isme/here-event-os/pkg/cache"
	"github.com/noah-isme/here-event-os/pkg/config"
	"github.com/noah-isme/here-event-os/pkg/export"
	"github.com/noah-isme/here-event-os/pkg/jobs"
	"github.com/noah-isme/here-event-os/pkg/notify"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

// Container holds the wired services of one process.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService
	Store   tabular.Store
	Queues  models.QueueRegistry

	Auth        *service.AuthService
	Approvals   *service.ApprovalService
	Submissions *service.SubmissionService
	Leads       *service.LeadService
	Quotes      *service.QuoteService

	notifyQueue *jobs.Queue
	redis       *redis.Client
	cancel      context.CancelFunc
}

// Option customises container construction.
type Option func(*options)

type options struct {
	store    tabular.Store
	notifier notify.Notifier
	metrics  *service.MetricsService
}

// WithStore replaces the configured store driver.
func WithStore(store tabular.Store) Option {
	return func(o *options) { o.store = store }
}

// WithNotifier replaces the configured notification transport.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithMetrics shares a metrics registry with the caller.
func WithMetrics(m *service.MetricsService) Option {
	return func(o *options) { o.metrics = m }
}

// New wires every service. Opening the store is deferred to the first operation so a
// misconfigured or unreachable backend surfaces as STORE_UNAVAILABLE instead of a startup crash.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	metrics := o.metrics
	if metrics == nil {
		metrics = service.NewMetricsService()
	}

	queues := models.DefaultQueues(cfg.Queues.LeaveSheet, cfg.Queues.AdvanceSheet, cfg.Queues.PurchaseSheet)

	store := o.store
	if store == nil {
		store = tabular.NewLazy(func(openCtx context.Context) (tabular.Store, error) {
			s, err := tabular.Open(openCtx, cfg)
			if err != nil {
				logger.Warn("tabular store unavailable", zap.String("driver", cfg.Store.Driver), zap.Error(err))
				return nil, err
			}
			if mem, ok := s.(*tabular.MemoryStore); ok {
				if err := seedMemoryStore(openCtx, mem, cfg, queues); err != nil {
					return nil, err
				}
				logger.Warn("memory store seeded; data is lost on restart", zap.String("admin", models.ReservedManagerUsername))
			}
			logger.Info("tabular store opened", zap.String("driver", cfg.Store.Driver), zap.String("name", cfg.Store.Name))
			return s, nil
		})
	}
	store = tabular.Instrument(store, metrics)

	runCtx, cancel := context.WithCancel(ctx)
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Store:   store,
		Queues:  queues,
		cancel:  cancel,
	}

	transport := o.notifier
	if transport == nil {
		transport = c.buildNotifier(runCtx)
	}
	async, queue := notify.NewAsync(runCtx, transport, cfg.Notify.Workers, logger.Named("notify"))
	c.notifyQueue = queue

	validate := validator.New()
	queueRepo := repository.NewQueueRepository(store)

	c.Auth = service.NewAuthService(
		repository.NewUserRepository(store, cfg.Queues.UsersSheet),
		service.NewSessionStore(),
		validate,
		logger.Named("auth"),
		service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		},
	)
	c.Approvals = service.NewApprovalService(queueRepo, c.Queues, logger.Named("approval"),
		service.WithDecisionRecorder(metrics))
	c.Submissions = service.NewSubmissionService(queueRepo, c.Queues, validate, logger.Named("submission"),
		service.WithManagerNotifier(async, cfg.Notify.ManagerAddress),
		service.WithNotificationRecorder(metrics))
	c.Leads = service.NewLeadService(repository.NewLeadRepository(store, cfg.Queues.LeadsSheet), validate, logger.Named("lead"))
	c.Quotes = service.NewQuoteService(export.NewQuotePDF(cfg.Quote.Issuer, cfg.Quote.Currency), validate, logger.Named("quote"))

	return c, nil
}

func (c *Container) buildNotifier(ctx context.Context) notify.Notifier {
	if c.Config.Notify.Driver != config.NotifyDriverRedis {
		return notify.New(c.Config.Notify, nil, c.Logger.Named("notify"))
	}
	client, err := cache.NewRedis(ctx, c.Config.Redis)
	if err != nil {
		c.Logger.Warn("redis outbox unavailable, notifications will only be logged", zap.Error(err))
		return notify.NewLogNotifier(c.Logger.Named("notify"))
	}
	c.redis = client
	return notify.New(c.Config.Notify, client, c.Logger.Named("notify"))
}

// Ready reports whether the credentials table can be read.
func (c *Container) Ready(ctx context.Context) error {
	_, err := c.Store.GetTable(ctx, c.Config.Queues.UsersSheet)
	return err
}

// ExpireSessions drops idle sessions every interval until ctx is done.
func (c *Container) ExpireSessions(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := c.Auth.ExpireSessions(now); n > 0 {
				c.Logger.Debug("sessions expired", zap.Int("count", n))
			}
		}
	}
}

// Close stops the notification workers and releases connections.
func (c *Container) Close() {
	if c.notifyQueue != nil {
		c.notifyQueue.Stop()
	}
	c.cancel()
	if c.redis != nil {
		_ = c.redis.Close()
	}
}
