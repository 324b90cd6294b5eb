package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidParameter indicates when an input count, sample size, or credible mass is
	// malformed.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientSamples indicates when a node has too few draws to represent the requested
	// credible mass.
	ErrInsufficientSamples = errors.New("insufficient samples")

	// ErrDomain indicates when a transform is undefined at a sampled value.
	ErrDomain = errors.New("value outside transform domain")
)

// Error kinds, used as metric and log labels.
const (
	InvalidParameterKind    = "invalid_parameter"
	InsufficientSamplesKind = "insufficient_samples"
	DomainKind              = "domain"
	OtherKind               = "other"
)

// MaybePanic panics if the argument is not nil. It is useful for wrapping error-only return
// functions known to only return nil values.
func MaybePanic(err error) {
	if err != nil {
		panic(err)
	}
}

// InvalidParameterError describes a malformed input parameter.
type InvalidParameterError struct {
	Param  string
	Value  interface{}
	Reason string
}

// NewInvalidParameterError returns an *InvalidParameterError for the given parameter.
func NewInvalidParameterError(param string, value interface{}, reason string) error {
	return &InvalidParameterError{Param: param, Value: value, Reason: reason}
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: %s = %v %s", ErrInvalidParameter, e.Param, e.Value, e.Reason)
}

// Is allows errors.Is(err, ErrInvalidParameter).
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// InsufficientSamplesError describes a node whose draws cannot span the credible mass.
type InsufficientSamplesError struct {
	Node         int
	NDraws       int
	CredibleMass float64
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("%s: node %d has %d draws, too few for credible mass %v",
		ErrInsufficientSamples, e.Node, e.NDraws, e.CredibleMass)
}

// Is allows errors.Is(err, ErrInsufficientSamples).
func (e *InsufficientSamplesError) Is(target error) bool {
	return target == ErrInsufficientSamples
}

// DomainError identifies the first sample a transform is undefined at.
type DomainError struct {
	Index int
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: sample %d = %v", ErrDomain, e.Index, e.Value)
}

// Is allows errors.Is(err, ErrDomain).
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// Kind classifies an error into one of the error kinds.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParameter):
		return InvalidParameterKind
	case errors.Is(err, ErrInsufficientSamples):
		return InsufficientSamplesKind
	case errors.Is(err, ErrDomain):
		return DomainKind
	default:
		return OtherKind
	}
}
