package domain

import (
	"fmt"
	"strings"
)

// Decision is the trust level granted to an identity. The numeric values
// are part of the persisted record format.
type Decision int

const (
	DecisionUndecided Decision = iota
	DecisionDeny
	DecisionAsk
	DecisionAllowStream
	DecisionAllowAll
)

func (d Decision) Valid() bool {
	switch d {
	case DecisionUndecided, DecisionDeny, DecisionAsk, DecisionAllowStream, DecisionAllowAll:
		return true
	default:
		return false
	}
}

// Decided reports whether d is a finalized trust level.
func (d Decision) Decided() bool {
	return d != DecisionUndecided && d.Valid()
}

// Granted reports whether d lets the peer receive collection data.
func (d Decision) Granted() bool {
	return d == DecisionAllowStream || d == DecisionAllowAll
}

func (d Decision) String() string {
	switch d {
	case DecisionUndecided:
		return "undecided"
	case DecisionDeny:
		return "deny"
	case DecisionAsk:
		return "ask"
	case DecisionAllowStream:
		return "allow-stream"
	case DecisionAllowAll:
		return "allow-all"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

func ParseDecision(raw string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "undecided", "none":
		return DecisionUndecided, nil
	case "deny":
		return DecisionDeny, nil
	case "ask":
		return DecisionAsk, nil
	case "allow-stream", "stream":
		return DecisionAllowStream, nil
	case "allow-all", "all":
		return DecisionAllowAll, nil
	default:
		return DecisionUndecided, fmt.Errorf("%w: %q", ErrUnknownDecision, raw)
	}
}

// Authorization is the answer for one (transport id, account id) request.
// Pending marks a provisional answer; the final one arrives as a result
// notification.
type Authorization struct {
	TransportID string
	AccountID   string
	Decision    Decision
	Pending     bool
}
