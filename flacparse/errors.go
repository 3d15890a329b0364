package flacparse

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the class of a ParseError, independent of its message.
// Callers that need to branch on error class should compare Kind, not the
// error string.
type Kind int

const (
	// KindNotStream is returned when non-streaming mode input does not
	// begin with the FLAC stream marker.
	KindNotStream Kind = iota
	// KindInvalidBlockSize is returned when a frame header's block-size
	// code is the reserved pattern 0000.
	KindInvalidBlockSize
	// KindInvalidSampleRate is returned when a frame header's sample-rate
	// code is the reserved pattern 1111.
	KindInvalidSampleRate
	// KindInvalidUtf8Num is returned when the variable-length sample or
	// frame number is malformed.
	KindInvalidUtf8Num
	// KindInvalidHeaderCRC is returned when a candidate frame header's
	// CRC-8 does not match.
	KindInvalidHeaderCRC
	// KindInvalidHeader is returned when a frame header decodes but fails
	// a consistency check against the established format or prior frame.
	KindInvalidHeader
	// KindInvalidFrame is returned when the boundary finder exhausts its
	// search window without locating a next valid sync.
	KindInvalidFrame
)

func (k Kind) String() string {
	switch k {
	case KindNotStream:
		return "NotStream"
	case KindInvalidBlockSize:
		return "InvalidBlockSize"
	case KindInvalidSampleRate:
		return "InvalidSampleRate"
	case KindInvalidUtf8Num:
		return "InvalidUtf8Num"
	case KindInvalidHeaderCRC:
		return "InvalidHeaderCrc"
	case KindInvalidHeader:
		return "InvalidHeader"
	case KindInvalidFrame:
		return "InvalidFrame"
	default:
		return "Unknown"
	}
}

// ParseError is returned from Parse on a fatal failure. Pos is the absolute
// byte offset the parser had reached when the error was raised.
type ParseError struct {
	Kind Kind
	Pos  int64
	err  error
}

func newParseError(kind Kind, pos int64, msg string) *ParseError {
	return &ParseError{
		Kind: kind,
		Pos:  pos,
		err:  errors.WithStack(errors.New(msg)),
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("flacparse: %s at pos %d: %v", e.Kind, e.Pos, e.err)
}

// Unwrap exposes the wrapped, stack-annotated cause for errors.Is/As and for
// github.com/pkg/errors.Cause.
func (e *ParseError) Unwrap() error {
	return e.err
}

// headerOutcome is the three-way result of decoding a candidate frame header
// or a bitstream sub-field: success, "not enough bytes yet", or a terminal
// decode failure. It is distinct from NeedsMore at the boundary-finder level,
// which additionally distinguishes "not found but could still appear" from
// "not found and never will be" (see boundary.go).
type headerOutcome int

const (
	outcomeOk headerOutcome = iota
	outcomeNeedsMore
	outcomeInvalid
)
