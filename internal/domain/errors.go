package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrTooFewParents   = errors.New("remix requires at least two parents")
	ErrPolicyRejected  = errors.New("content policy rejection")
	ErrSchemaViolation = errors.New("schema violation")
	ErrProviderFailure = errors.New("provider failure")
)
