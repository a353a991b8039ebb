package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies why a fetch failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindProtocol
	KindData
	KindConfig
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindProtocol:
		return "protocol"
	case KindData:
		return "data"
	case KindConfig:
		return "config"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Sentinels for errors.Is checks. An *Error matches the sentinel of its Kind.
var (
	ErrNetwork  = errors.New("network error")
	ErrProtocol = errors.New("protocol error")
	ErrData     = errors.New("data error")
	ErrConfig   = errors.New("config error")
	ErrNotFound = errors.New("not found")
)

// Error is the typed failure surfaced by the upstream clients.
type Error struct {
	Source string
	Kind   Kind
	Err    error
}

// Errorf builds an *Error with a formatted cause.
func Errorf(source string, kind Kind, format string, args ...any) *Error {
	return &Error{Source: source, Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return sentinel(e.Kind) == target && target != nil
}

func sentinel(k Kind) error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindProtocol:
		return ErrProtocol
	case KindData:
		return ErrData
	case KindConfig:
		return ErrConfig
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsDisabled reports whether err means the source is switched off by
// configuration rather than failing.
func IsDisabled(err error) bool {
	return errors.Is(err, ErrConfig)
}
