package overtime

import (
	"errors"
	"fmt"
)

// ConsentStatus is the state of an overtime consent request
type ConsentStatus string

const (
	ConsentRequested ConsentStatus = "requested"
	ConsentGiven     ConsentStatus = "consented"
	ConsentDeclined  ConsentStatus = "declined"
	ConsentCompleted ConsentStatus = "completed"
)

var (
	ErrInvalidTransition = errors.New("invalid consent transition")
	ErrUnknownStatus     = errors.New("unknown consent status")
)

// ParseConsentStatus parses a status name
func ParseConsentStatus(s string) (ConsentStatus, error) {
	switch status := ConsentStatus(s); status {
	case ConsentRequested, ConsentGiven, ConsentDeclined, ConsentCompleted:
		return status, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStatus, s)
}

// Transition checks a consent request state change.
//
//	requested -> consented | declined
//	consented | declined -> completed
//
// Completed is terminal.
func Transition(from, to ConsentStatus) error {
	switch from {
	case ConsentRequested:
		if to == ConsentGiven || to == ConsentDeclined {
			return nil
		}
	case ConsentGiven, ConsentDeclined:
		if to == ConsentCompleted {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Decision returns the consent decision carried into a transition, if any.
// Completing a request keeps the decision made before it.
func Decision(from, to ConsentStatus) ConsentStatus {
	if to == ConsentCompleted {
		return from
	}
	if to == ConsentGiven || to == ConsentDeclined {
		return to
	}
	return ""
}
