package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeAuthFailed         = "auth_failed"
	ErrCodeRoomFull           = "room_full"
	ErrCodeRoomNotFound       = "room_not_found"
	ErrCodeMessageNotFound    = "message_not_found"
	ErrCodePersistenceFailure = "persistence_failure"
	ErrCodeBadRequest         = "bad_request"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotRegistered   = errors.New("connection not registered")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

// Fatal reports whether the error terminates the connection. Invalid
// credentials are the only failure that does.
func (e *CoreError) Fatal() bool {
	return e.Code == ErrCodeAuthFailed
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
