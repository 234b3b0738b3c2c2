package notify

import (
	"context"
	"errors"
	"net/smtp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/here-event-os/pkg/config"
)

func TestSMTPNotifierSwallowsFailure(t *testing.T) {
	n := NewSMTPNotifier(config.NotifyConfig{SMTPHost: "mail.local", SMTPPort: 25, From: "ops@here.test"}, nil)
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}
	require.False(t, n.Send(context.Background(), "boss@here.test", "subject", "body"))
}

func TestSMTPNotifierBuildsMessage(t *testing.T) {
	var gotAddr string
	var gotMsg []byte
	n := NewSMTPNotifier(config.NotifyConfig{SMTPHost: "mail.local", SMTPPort: 2525, From: "ops@here.test"}, nil)
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = msg
		return nil
	}

	require.True(t, n.Send(context.Background(), "boss@here.test", "Yeni izin talebi", "Ayse"))
	require.Equal(t, "mail.local:2525", gotAddr)
	require.Contains(t, string(gotMsg), "Subject: Yeni izin talebi\r\n")
	require.Contains(t, string(gotMsg), "\r\n\r\nAyse")
}

func TestNotifierWithoutRecipient(t *testing.T) {
	require.False(t, NewRedisNotifier(nil, "outbox", nil).Send(context.Background(), "", "s", "b"))
	require.False(t, Nop{}.Send(context.Background(), "a@b.c", "s", "b"))
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	ok   bool
}

func (r *recordingNotifier) Send(ctx context.Context, to, subject, body string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to)
	return r.ok
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestAsyncDeliversInBackground(t *testing.T) {
	next := &recordingNotifier{ok: true}
	async, queue := NewAsync(context.Background(), next, 1, nil)
	defer queue.Stop()

	require.True(t, async.Send(context.Background(), "boss@here.test", "s", "b"))
	require.Eventually(t, func() bool { return next.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestAsyncDoesNotRetryFailures(t *testing.T) {
	next := &recordingNotifier{ok: false}
	async, queue := NewAsync(context.Background(), next, 1, nil)

	require.True(t, async.Send(context.Background(), "boss@here.test", "s", "b"))
	queue.Stop()

	require.Equal(t, 1, next.count())
	require.EqualValues(t, 1, queue.Stats().Failed)
	require.False(t, async.Send(context.Background(), "boss@here.test", "s", "b"))
}

func TestNewSelectsDriver(t *testing.T) {
	require.IsType(t, &SMTPNotifier{}, New(config.NotifyConfig{Driver: config.NotifyDriverSMTP}, nil, nil))
	require.IsType(t, &RedisNotifier{}, New(config.NotifyConfig{Driver: config.NotifyDriverRedis}, nil, nil))
	require.IsType(t, &LogNotifier{}, New(config.NotifyConfig{Driver: "pigeon"}, nil, nil))
}
