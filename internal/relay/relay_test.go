package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/sms-wecom-relay/internal/apperr"
	"github.com/PratikDhanave/sms-wecom-relay/internal/archive"
	"github.com/PratikDhanave/sms-wecom-relay/internal/models"
	"github.com/PratikDhanave/sms-wecom-relay/internal/store"
	"github.com/PratikDhanave/sms-wecom-relay/internal/wecom"
)

type stubNotifier struct {
	reply any
	err   error
	sent  []wecom.Message
}

func (n *stubNotifier) Send(_ context.Context, msg wecom.Message) (any, error) {
	n.sent = append(n.sent, msg)
	return n.reply, n.err
}

var fixedNow = time.Date(2026, 3, 1, 9, 4, 5, 0, time.UTC)

func newTestService(cache store.Cache, n Notifier) *Service {
	s := New(cache, n, time.UTC, zerolog.Nop())
	s.Now = func() time.Time { return fixedNow }
	return s
}

func TestNormalize_Defaults(t *testing.T) {
	s := newTestService(nil, &stubNotifier{})

	ev, rule, err := s.Normalize(models.ForwardRequest{Content: "  hello 4821  "}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "hello 4821", ev.Content)
	assert.Equal(t, DefaultDevice, ev.Device)
	assert.Equal(t, json.Number("1772355845000"), ev.Timestamp)
	assert.Equal(t, "4821", ev.Code)
	assert.Equal(t, "bare-digits", rule)
}

func TestNormalize_EmptyContent(t *testing.T) {
	s := newTestService(nil, &stubNotifier{})

	for _, c := range []models.Text{"", "   ", "\n\t"} {
		_, _, err := s.Normalize(models.ForwardRequest{Content: c, Code: "1234", Device: "d"}, fixedNow)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.Status(err))
		assert.Equal(t, "Content empty", apperr.Message(err))
	}
}

func TestNormalize_ExplicitCodeWins(t *testing.T) {
	s := newTestService(nil, &stubNotifier{})

	ev, rule, err := s.Normalize(models.ForwardRequest{Content: "验证码 123456", Code: "abc"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "abc", ev.Code)
	assert.Equal(t, "payload", rule)
}

func TestNormalize_KeepsPayloadTimestamp(t *testing.T) {
	s := newTestService(nil, &stubNotifier{})

	ev, _, err := s.Normalize(models.ForwardRequest{Content: "x", Timestamp: "1700000000000"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, json.Number("1700000000000"), ev.Timestamp)
}

func TestForward_FirstSightingForwardsAndArchives(t *testing.T) {
	cache := store.NewMemoryStore()
	cache.Now = func() time.Time { return fixedNow }
	n := &stubNotifier{reply: map[string]any{"errcode": 0}}
	s := newTestService(cache, n)

	out, err := s.Forward(context.Background(), models.ForwardRequest{Content: "验证码 998877", Timestamp: "1700000000000"}, false)
	require.NoError(t, err)

	assert.False(t, out.Duplicate)
	assert.Equal(t, map[string]any{"errcode": 0}, out.Response)
	require.Len(t, n.sent, 1)
	assert.Equal(t, wecom.Message{Content: "验证码 998877", Code: "998877", Device: DefaultDevice}, n.sent[0])

	assert.Equal(t, archive.Key(fixedNow), out.ArchiveKey)
	raw, found, err := cache.Get(context.Background(), out.ArchiveKey)
	require.NoError(t, err)
	require.True(t, found)

	var rec models.LogRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	assert.Equal(t, "998877", rec.Code)

	_, found, _ = cache.Get(context.Background(), out.Fingerprint)
	assert.True(t, found)
}

func TestForward_DuplicateShortCircuits(t *testing.T) {
	cache := store.NewMemoryStore()
	n := &stubNotifier{reply: map[string]any{}}
	s := newTestService(cache, n)
	req := models.ForwardRequest{Content: "hello", Timestamp: "42"}

	first, err := s.Forward(context.Background(), req, false)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := s.Forward(context.Background(), req, false)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Nil(t, second.Response)
	assert.Empty(t, second.ArchiveKey)
	assert.Len(t, n.sent, 1)
}

func TestForward_DebugBypassesDuplicate(t *testing.T) {
	cache := store.NewMemoryStore()
	n := &stubNotifier{reply: map[string]any{}}
	s := newTestService(cache, n)
	req := models.ForwardRequest{Content: "hello", Timestamp: "42"}

	_, err := s.Forward(context.Background(), req, false)
	require.NoError(t, err)

	out, err := s.Forward(context.Background(), req, true)
	require.NoError(t, err)
	assert.False(t, out.Duplicate)
	assert.Len(t, n.sent, 2)
}

func TestForward_NoCacheSkipsDedup(t *testing.T) {
	n := &stubNotifier{reply: map[string]any{}}
	s := newTestService(nil, n)
	req := models.ForwardRequest{Content: "hello", Timestamp: "42"}

	for i := 0; i < 2; i++ {
		out, err := s.Forward(context.Background(), req, false)
		require.NoError(t, err)
		assert.False(t, out.Duplicate)
		assert.Empty(t, out.Fingerprint)
	}
	assert.Len(t, n.sent, 2)
}

type brokenCache struct {
	getErr error
	putErr error
	puts   []string
}

func (b *brokenCache) Get(context.Context, string) (string, bool, error) { return "", false, b.getErr }

func (b *brokenCache) Put(_ context.Context, key, _ string, _ time.Duration) error {
	b.puts = append(b.puts, key)
	if len(b.puts) > 1 {
		return b.putErr
	}
	return nil
}

func TestForward_CacheReadFailureIsInternal(t *testing.T) {
	n := &stubNotifier{}
	s := newTestService(&brokenCache{getErr: errors.New("redis down")}, n)

	_, err := s.Forward(context.Background(), models.ForwardRequest{Content: "x"}, false)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperr.Status(err))
	assert.Equal(t, apperr.TextCache, apperr.TextCode(err))
	assert.Empty(t, n.sent)
}

func TestForward_ArchiveFailureIsBestEffort(t *testing.T) {
	cache := &brokenCache{putErr: errors.New("disk full")}
	n := &stubNotifier{reply: map[string]any{"errcode": 0}}
	s := newTestService(cache, n)

	out, err := s.Forward(context.Background(), models.ForwardRequest{Content: "x"}, false)
	require.NoError(t, err)
	assert.Empty(t, out.ArchiveKey)
	assert.Len(t, n.sent, 1)
	assert.Len(t, cache.puts, 2)
}

func TestForward_NotifierErrorPropagates(t *testing.T) {
	n := &stubNotifier{err: apperr.Configuration("wecom configuration missing", nil)}
	s := newTestService(store.NewMemoryStore(), n)

	_, err := s.Forward(context.Background(), models.ForwardRequest{Content: "x"}, false)
	require.Error(t, err)
	assert.Equal(t, apperr.TextConfiguration, apperr.TextCode(err))
}
