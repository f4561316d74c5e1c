package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error classes. Every error a service returns wraps exactly one of these.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("invalid request")
	ErrUpstream        = errors.New("upstream failure")
)

// Domain errors
var (
	ErrDuplicateApplication = fmt.Errorf("%w: creator has already applied to this brief", ErrValidation)
	ErrInsufficientCredits  = fmt.Errorf("%w: no campaign credits left", ErrValidation)
	ErrInvalidTransition    = fmt.Errorf("%w: application has already been decided", ErrValidation)
	ErrBriefNotOpen         = fmt.Errorf("%w: brief is not open", ErrValidation)
	ErrProfileExists        = fmt.Errorf("%w: profile already exists", ErrValidation)
	ErrNotEligible          = fmt.Errorf("%w: creator does not match the brief's targeting", ErrForbidden)
	ErrBillingDisabled      = fmt.Errorf("%w: billing is not configured", ErrUpstream)
)

func validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// lookup classifies a repository read error: missing rows become ErrNotFound,
// anything else is an upstream failure.
func lookup(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%w: load %s: %v", ErrUpstream, what, err)
}

// upstream wraps a datastore or third-party failure
func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}

func isClassified(err error) bool {
	for _, class := range []error{ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrValidation, ErrUpstream} {
		if errors.Is(err, class) {
			return true
		}
	}
	return false
}
