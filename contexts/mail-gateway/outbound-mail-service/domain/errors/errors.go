package errors

import "errors"

var (
	ErrUnknownTemplate = errors.New("no mail template with that name")
	ErrInvalidPayload  = errors.New("outbound payload has no recipient")
)
