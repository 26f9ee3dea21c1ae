package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ForwardRequest is the POST payload sent by the SMS forwarding app.
// Only content is required; the other fields fall back to defaults.
type ForwardRequest struct {
	Content   Text        `json:"content"`
	Device    Text        `json:"device,omitempty"`
	Timestamp json.Number `json:"timestamp,omitempty"`
	Code      Text        `json:"code,omitempty"`
}

// Text is a string field that also accepts JSON numbers and booleans.
// Forwarders are inconsistent about quoting, so 123456 and "123456" decode the same.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case bytes.Equal(b, []byte("true")):
		*t = "true"
	case len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*t = Text(n.String())
	default:
		return fmt.Errorf("cannot decode %s into a text field", string(b))
	}
	return nil
}

// IncomingEvent is a validated, normalized SMS notification.
type IncomingEvent struct {
	Content   string
	Device    string
	Timestamp json.Number
	Code      string
}

// LogRecord is the archived form of an event, written once and never read back here.
type LogRecord struct {
	Device       string      `json:"device"`
	Content      string      `json:"content"`
	Code         string      `json:"code,omitempty"`
	RawTimestamp json.Number `json:"rawTimestamp"`
	SaveTime     string      `json:"saveTime"`
}

// ForwardResponse is returned on success and on duplicate short-circuit.
type ForwardResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	WeComResponse any    `json:"wecom_response,omitempty"`
}

// MessageResponse is the body for client errors (401, 400).
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body for unexpected failures (500).
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
