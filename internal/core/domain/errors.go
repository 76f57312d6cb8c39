package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrNoRefreshToken     = errors.New("no refresh token found")
	ErrNoticeNotFound     = errors.New("notice not found")
	ErrUploadFailed       = errors.New("attachment upload failed")
	ErrUnsupportedFile    = errors.New("unsupported attachment type")
	ErrFileTooLarge       = errors.New("attachment too large")
	ErrInFlight           = errors.New("request already in progress")
	ErrStorageUnavailable = errors.New("attachment storage unavailable")
	ErrFileNotFound       = errors.New("file not found")
)

// GenericFailureMessage is shown when the backend gives no usable message.
const GenericFailureMessage = "Something went wrong"

// BackendError is a non-2xx answer (or a transport failure) from the remote
// HR API. Status is zero for transport failures.
type BackendError struct {
	Status  int
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = GenericFailureMessage
	}
	if e.Status == 0 {
		return "backend unreachable: " + msg
	}
	return fmt.Sprintf("backend %d: %s", e.Status, msg)
}

func (e *BackendError) Unwrap() error { return e.Err }

// UserMessage is the text safe to show in a notification.
func (e *BackendError) UserMessage() string {
	if e.Status == 0 || e.Message == "" {
		return GenericFailureMessage
	}
	return e.Message
}

// ValidationError carries per-field messages for inline display.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add records a message for field, keeping the first one reported.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
