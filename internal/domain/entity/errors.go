package entity

import "errors"

// Standard domain errors
var (
	ErrRateLimitExceeded   = errors.New("rate limit exceeded: too many chat turns")
	ErrInvalidRequest      = errors.New("invalid request parameters")
	ErrUpstreamUnavailable = errors.New("upstream model service unavailable")
	ErrAccountNotFound     = errors.New("account not found")
	ErrEmptyCorpus         = errors.New("knowledge base corpus is empty")
	ErrDimensionMismatch   = errors.New("embedding dimensions do not match")
	ErrNonFiniteVector     = errors.New("embedding has non-finite values")
)
