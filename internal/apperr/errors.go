// Package apperr builds the go-errors envelopes returned across the relay
// and maps them back to HTTP status codes and messages.
package apperr

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextUnauthorized  = "RELAY_UNAUTHORIZED"
	TextContentEmpty  = "RELAY_CONTENT_EMPTY"
	TextBadPayload    = "RELAY_BAD_PAYLOAD"
	TextConfiguration = "RELAY_CONFIGURATION"
	TextCache         = "RELAY_CACHE_FAILED"
	TextUpstream      = "RELAY_UPSTREAM_FAILED"
	TextInternal      = "RELAY_INTERNAL_ERROR"
)

func newError(message string, category goerrors.Category, code int, textCode string, metadata map[string]any) *goerrors.Error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func wrapError(source error, category goerrors.Category, message string, code int, textCode string) *goerrors.Error {
	if source == nil {
		return newError(message, category, code, textCode, nil)
	}
	return goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
}

func Unauthorized() error {
	return newError("Unauthorized", goerrors.CategoryAuth, http.StatusUnauthorized, TextUnauthorized, nil)
}

func ContentEmpty() error {
	return newError("Content empty", goerrors.CategoryBadInput, http.StatusBadRequest, TextContentEmpty, nil)
}

// BadPayload reports an unparseable body. It is a 500, not a 400: parse failures
// fall into the catch-all bucket together with every other unexpected error.
func BadPayload(source error) error {
	return wrapError(source, goerrors.CategoryInternal, messageOf(source, "invalid payload"), http.StatusInternalServerError, TextBadPayload)
}

func Configuration(message string, metadata map[string]any) error {
	return newError(message, goerrors.CategoryInternal, http.StatusInternalServerError, TextConfiguration, metadata)
}

func Cache(source error) error {
	return wrapError(source, goerrors.CategoryExternal, messageOf(source, "cache failure"), http.StatusInternalServerError, TextCache)
}

func Upstream(source error) error {
	return wrapError(source, goerrors.CategoryExternal, messageOf(source, "upstream failure"), http.StatusInternalServerError, TextUpstream)
}

// Status maps err to an HTTP status; anything without an envelope is a 500.
func Status(err error) int {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code != 0 {
		return rich.Code
	}
	return http.StatusInternalServerError
}

// Message is the human text placed in response bodies.
func Message(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && strings.TrimSpace(rich.Message) != "" {
		return rich.Message
	}
	return err.Error()
}

// TextCode returns the envelope's text code, or TextInternal.
func TextCode(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.TextCode != "" {
		return rich.TextCode
	}
	return TextInternal
}

func messageOf(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}
