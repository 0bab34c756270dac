// Package instrument identifies the UV nitrate sensor families whose
// calibration files and raw records differ in layout.
package instrument

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a sensor family.
type Kind int

const (
	// KindUnknown is the zero value and never valid for processing.
	KindUnknown Kind = iota
	// KindSUNA is the Submersible Ultraviolet Nitrate Analyzer.
	KindSUNA
	// KindISUS is the In Situ Ultraviolet Spectrophotometer.
	KindISUS
)

// ErrUnknownKind is returned when a sensor family name is not recognized.
var ErrUnknownKind = errors.New("instrument: unknown kind")

func (k Kind) String() string {
	switch k {
	case KindSUNA:
		return "suna"
	case KindISUS:
		return "isus"
	default:
		return "unknown"
	}
}

// ParseKind maps "suna" or "isus" (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "suna":
		return KindSUNA, nil
	case "isus":
		return KindISUS, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q (want suna or isus)", ErrUnknownKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindUnknown {
		return nil, ErrUnknownKind
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
