package usecase

import "errors"

var (
	ErrUnknownUser       = errors.New("unknown user")
	ErrInsufficientUsers = errors.New("not enough eligible reviewers")
	ErrAlreadyRegistered = errors.New("github handle already registered")
	ErrMissingHandle     = errors.New("github handle not specified")
	ErrDelivery          = errors.New("message delivery failed")
	ErrConfiguration     = errors.New("invalid configuration")
	ErrMissingAction     = errors.New("event has no action")
	ErrReviewRequest     = errors.New("review request failed")
)
