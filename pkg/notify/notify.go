// Package notify delivers best-effort notifications. Senders report success as a boolean and never
// return errors: a failed notification must not affect the operation that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/here-event-os/pkg/config"
	"github.com/noah-isme/here-event-os/pkg/jobs"
)

// Notifier sends a message and reports whether it was handed over.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) bool
}

// Message is the payload handed to transports.
type Message struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Nop drops every message.
type Nop struct{}

// Send implements Notifier.
func (Nop) Send(context.Context, string, string, string) bool { return false }

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Send implements Notifier.
func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) bool {
	n.logger.Info("notification", zap.String("to", to), zap.String("subject", subject))
	return true
}

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends plain-text mail through an SMTP relay.
type SMTPNotifier struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendMail SendMailFunc
	logger   *zap.Logger
}

// NewSMTPNotifier constructs an SMTPNotifier. Authentication is used when a username is configured.
func NewSMTPNotifier(cfg config.NotifyConfig, logger *zap.Logger) *SMTPNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPNotifier{
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     cfg.From,
		auth:     auth,
		sendMail: smtp.SendMail,
		logger:   logger,
	}
}

// Send implements Notifier.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) bool {
	if strings.TrimSpace(to) == "" {
		return false
	}
	msg := buildMail(n.from, to, subject, body)
	if err := n.sendMail(n.addr, n.auth, n.from, []string{to}, msg); err != nil {
		n.logger.Warn("smtp notification failed", zap.String("to", to), zap.Error(err))
		return false
	}
	return true
}

func buildMail(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// RedisNotifier pushes JSON messages onto a Redis list drained by an external mailer.
type RedisNotifier struct {
	client *redis.Client
	list   string
	logger *zap.Logger
}

// NewRedisNotifier constructs a RedisNotifier.
func NewRedisNotifier(client *redis.Client, list string, logger *zap.Logger) *RedisNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{client: client, list: list, logger: logger}
}

// Send implements Notifier.
func (n *RedisNotifier) Send(ctx context.Context, to, subject, body string) bool {
	if n.client == nil || strings.TrimSpace(to) == "" {
		return false
	}
	payload, err := json.Marshal(Message{ID: uuid.NewString(), To: to, Subject: subject, Body: body, CreatedAt: time.Now().UTC()})
	if err != nil {
		n.logger.Warn("encode notification failed", zap.Error(err))
		return false
	}
	if err := n.client.LPush(ctx, n.list, payload).Err(); err != nil {
		n.logger.Warn("redis notification failed", zap.String("list", n.list), zap.Error(err))
		return false
	}
	return true
}

// Async hands messages to a background queue so callers never wait on the transport.
// Failed deliveries are logged by the queue and not retried.
type Async struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAsync builds and starts a dispatcher in front of next. Stop the returned queue on shutdown.
func NewAsync(ctx context.Context, next Notifier, workers int, logger *zap.Logger) (*Async, *jobs.Queue) {
	if logger == nil {
		logger = zap.NewNop()
	}
	queue := jobs.NewQueue("notifications", func(jobCtx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(Message)
		if !ok {
			return fmt.Errorf("unexpected payload %T", job.Payload)
		}
		sendCtx, cancel := context.WithTimeout(jobCtx, 30*time.Second)
		defer cancel()
		if !next.Send(sendCtx, msg.To, msg.Subject, msg.Body) {
			return fmt.Errorf("notification %s to %s not delivered", msg.ID, msg.To)
		}
		return nil
	}, jobs.QueueConfig{Workers: workers, Logger: logger})
	queue.Start(ctx)
	return &Async{queue: queue, logger: logger}, queue
}

// Send implements Notifier. It reports whether the message was queued.
func (a *Async) Send(ctx context.Context, to, subject, body string) bool {
	if strings.TrimSpace(to) == "" {
		return false
	}
	msg := Message{ID: uuid.NewString(), To: to, Subject: subject, Body: body, CreatedAt: time.Now().UTC()}
	if err := a.queue.TryEnqueue(jobs.Job{ID: msg.ID, Type: "notification", Payload: msg}); err != nil {
		a.logger.Warn("notification dropped", zap.String("to", to), zap.Error(err))
		return false
	}
	return true
}

// New selects the transport configured by cfg.Driver. Unknown drivers fall back to logging.
func New(cfg config.NotifyConfig, client *redis.Client, logger *zap.Logger) Notifier {
	switch cfg.Driver {
	case config.NotifyDriverSMTP:
		return NewSMTPNotifier(cfg, logger)
	case config.NotifyDriverRedis:
		return NewRedisNotifier(client, cfg.RedisList, logger)
	default:
		return NewLogNotifier(logger)
	}
}
