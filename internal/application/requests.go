package application

import "github.com/ht101996/tomahawk/internal/domain"

// AuthorizationRequest asks whether the peer behind TransportID, claiming
// AccountID, may access the collection.
type AuthorizationRequest struct {
	TransportID string
	AccountID   string
	// GlobalPolicy, when decided, is applied to unknown peers instead of
	// prompting.
	GlobalPolicy domain.Decision
	// SuppressNotification marks an internal re-check: no notification is
	// emitted and a miss never prompts.
	SuppressNotification bool
}
