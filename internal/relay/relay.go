// Package relay runs the per-request pipeline: validate, dedupe, archive, notify.
package relay

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PratikDhanave/sms-wecom-relay/internal/apperr"
	"github.com/PratikDhanave/sms-wecom-relay/internal/archive"
	"github.com/PratikDhanave/sms-wecom-relay/internal/dedupe"
	"github.com/PratikDhanave/sms-wecom-relay/internal/extract"
	"github.com/PratikDhanave/sms-wecom-relay/internal/models"
	"github.com/PratikDhanave/sms-wecom-relay/internal/store"
	"github.com/PratikDhanave/sms-wecom-relay/internal/wecom"
)

// DefaultDevice is used when the payload names no device.
const DefaultDevice = "Unknown Device"

// Notifier delivers a formatted SMS to the messaging platform.
type Notifier interface {
	Send(ctx context.Context, msg wecom.Message) (any, error)
}

// Outcome describes what happened to one forwarded SMS.
type Outcome struct {
	Event       models.IncomingEvent
	CodeRule    string // extraction rule that produced Event.Code; "payload" when supplied
	Fingerprint string // empty when no cache is configured
	Duplicate   bool
	ArchiveKey  string
	Response    any // notifier reply, nil for duplicates
}

type Service struct {
	dedupe   *dedupe.Deduplicator
	archive  *archive.Archiver
	notifier Notifier
	rules    []extract.Rule
	logger   zerolog.Logger

	Now func() time.Time
}

// New wires the pipeline. A nil cache disables both dedup and archiving.
func New(cache store.Cache, notifier Notifier, loc *time.Location, logger zerolog.Logger) *Service {
	s := &Service{
		notifier: notifier,
		rules:    extract.DefaultRules,
		logger:   logger,
		Now:      time.Now,
	}
	if cache != nil {
		s.dedupe = dedupe.New(cache, dedupe.DefaultTTL)
		s.archive = archive.New(cache, archive.DefaultTTL, loc)
		s.archive.Now = func() time.Time { return s.Now() }
	}
	return s
}

// Normalize validates the payload and fills defaults. receivedAt supplies the
// timestamp when the payload has none.
func (s *Service) Normalize(req models.ForwardRequest, receivedAt time.Time) (models.IncomingEvent, string, error) {
	content := strings.TrimSpace(string(req.Content))
	if content == "" {
		return models.IncomingEvent{}, "", apperr.ContentEmpty()
	}

	ev := models.IncomingEvent{
		Content:   content,
		Device:    string(req.Device),
		Timestamp: req.Timestamp,
		Code:      string(req.Code),
	}
	if ev.Device == "" {
		ev.Device = DefaultDevice
	}
	if ev.Timestamp == "" || ev.Timestamp == "0" {
		ev.Timestamp = json.Number(strconv.FormatInt(receivedAt.UnixMilli(), 10))
	}

	rule := "payload"
	if ev.Code == "" {
		ev.Code, rule = extract.Code(content, s.rules)
	}
	return ev, rule, nil
}

// Forward runs one SMS through the pipeline. debug skips the duplicate short-circuit
// but still refreshes the fingerprint.
func (s *Service) Forward(ctx context.Context, req models.ForwardRequest, debug bool) (Outcome, error) {
	ev, rule, err := s.Normalize(req, s.Now())
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Event: ev, CodeRule: rule}

	if s.dedupe != nil {
		out.Fingerprint = dedupe.Fingerprint(ev.Content, ev.Timestamp.String())

		seen, err := s.dedupe.Seen(ctx, out.Fingerprint)
		if err != nil {
			return out, apperr.Cache(err)
		}
		if seen && !debug {
			out.Duplicate = true
			s.logger.Info().Str("fingerprint", out.Fingerprint).Str("device", ev.Device).Msg("duplicate skipped")
			return out, nil
		}

		key, err := s.archive.Write(ctx, ev)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("archive write failed")
		} else {
			out.ArchiveKey = key
		}
	}

	resp, err := s.notifier.Send(ctx, wecom.Message{Content: ev.Content, Code: ev.Code, Device: ev.Device})
	if err != nil {
		return out, err
	}
	out.Response = resp

	s.logger.Info().
		Str("device", ev.Device).
		Bool("has_code", ev.Code != "").
		Str("code_rule", rule).
		Bool("debug", debug).
		Msg("forwarded")

	return out, nil
}
