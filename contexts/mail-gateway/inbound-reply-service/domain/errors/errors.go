package errors

import "errors"

var (
	ErrInvalidData         = errors.New("reply address or target thread could not be resolved")
	ErrNoPrivilege         = errors.New("guests may not reply in this category")
	ErrInvalidEnvelope     = errors.New("event envelope carries no sender address")
	ErrUnauthorizedWebhook = errors.New("webhook signature validation failed")
)
