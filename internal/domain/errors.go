package domain

import "errors"

var (
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrIdentityConflict  = errors.New("transport id and account id match different identities")
	ErrEmptyIdentityKeys = errors.New("identity has no transport or account ids")
	ErrUnknownDecision   = errors.New("unknown decision")
	ErrCommandTimedOut   = errors.New("script command timed out")
	ErrRegistryStopped   = errors.New("acl registry stopped")
	ErrQueueStopped      = errors.New("script command queue stopped")
)
