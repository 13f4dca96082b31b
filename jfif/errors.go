package jfif

import (
	"errors"
	"fmt"
)

// ErrorKind represents categorized parse and decode failures
type ErrorKind int

const (
	KindUnknownSegment ErrorKind = iota + 1
	KindUnexpectedEndOfFile
	KindSizeMismatch
	KindUnknownDensityUnit
	KindUnknownThumbnailFormat
	KindInvalidAPP0Identifier
	KindWrongSizedDQT
	KindMissingHuffmanValues
	KindTooManyHuffmanValues
	KindBitstreamExhausted
	KindInvalidHuffmanCode
	KindWrongTableKind
	KindTruncatedScan
	KindUnsupportedVariant
	KindMalformedSegment
	KindMissingTable
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnknownSegment:
		return "UnknownSegment"
	case KindUnexpectedEndOfFile:
		return "UnexpectedEndOfFile"
	case KindSizeMismatch:
		return "SizeMismatch"
	case KindUnknownDensityUnit:
		return "UnknownDensityUnit"
	case KindUnknownThumbnailFormat:
		return "UnknownThumbnailFormat"
	case KindInvalidAPP0Identifier:
		return "InvalidAPP0Identifier"
	case KindWrongSizedDQT:
		return "WrongSizedDQT"
	case KindMissingHuffmanValues:
		return "MissingHuffmanValues"
	case KindTooManyHuffmanValues:
		return "TooManyHuffmanValues"
	case KindBitstreamExhausted:
		return "BitstreamExhausted"
	case KindInvalidHuffmanCode:
		return "InvalidHuffmanCode"
	case KindWrongTableKind:
		return "WrongTableKind"
	case KindTruncatedScan:
		return "TruncatedScan"
	case KindUnsupportedVariant:
		return "UnsupportedVariant"
	case KindMalformedSegment:
		return "MalformedSegment"
	case KindMissingTable:
		return "MissingTable"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// JfifError represents an error from segment parsing or entropy decoding.
// Offset is the byte offset in the file (-1 when not known) and Code the
// marker code of the offending segment (0 when not applicable).
type JfifError struct {
	Kind    ErrorKind
	Offset  int
	Code    uint16
	Message string
}

func (e *JfifError) Error() string {
	msg := e.Kind.String()
	if e.Code != 0 {
		msg += fmt.Sprintf(" [0x%04X]", e.Code)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target is a JfifError of the same kind, so that the
// kind sentinels below work with errors.Is.
func (e *JfifError) Is(target error) bool {
	t, ok := target.(*JfifError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewJfifError creates a new JfifError without position information
func NewJfifError(kind ErrorKind, message string) *JfifError {
	return &JfifError{Kind: kind, Offset: -1, Message: message}
}

// errorAt creates a JfifError anchored at a file offset and marker code
func errorAt(kind ErrorKind, offset int, code uint16, format string, args ...interface{}) error {
	return &JfifError{Kind: kind, Offset: offset, Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsJfifError checks if an error is a JfifError and returns it
func IsJfifError(err error) (*JfifError, bool) {
	var jErr *JfifError
	if errors.As(err, &jErr) {
		return jErr, true
	}
	return nil, false
}

// anchor fills in the position of an error raised without file context
func anchor(err error, offset int, code uint16) error {
	jErr, ok := IsJfifError(err)
	if !ok {
		return err
	}
	if jErr.Offset < 0 {
		jErr.Offset = offset
	}
	if jErr.Code == 0 {
		jErr.Code = code
	}
	return jErr
}

// Kind sentinels for use with errors.Is
var (
	ErrUnknownSegment         = &JfifError{Kind: KindUnknownSegment, Offset: -1}
	ErrUnexpectedEndOfFile    = &JfifError{Kind: KindUnexpectedEndOfFile, Offset: -1}
	ErrSizeMismatch           = &JfifError{Kind: KindSizeMismatch, Offset: -1}
	ErrUnknownDensityUnit     = &JfifError{Kind: KindUnknownDensityUnit, Offset: -1}
	ErrUnknownThumbnailFormat = &JfifError{Kind: KindUnknownThumbnailFormat, Offset: -1}
	ErrInvalidAPP0Identifier  = &JfifError{Kind: KindInvalidAPP0Identifier, Offset: -1}
	ErrWrongSizedDQT          = &JfifError{Kind: KindWrongSizedDQT, Offset: -1}
	ErrMissingHuffmanValues   = &JfifError{Kind: KindMissingHuffmanValues, Offset: -1}
	ErrTooManyHuffmanValues   = &JfifError{Kind: KindTooManyHuffmanValues, Offset: -1}
	ErrBitstreamExhausted     = &JfifError{Kind: KindBitstreamExhausted, Offset: -1}
	ErrInvalidHuffmanCode     = &JfifError{Kind: KindInvalidHuffmanCode, Offset: -1}
	ErrWrongTableKind         = &JfifError{Kind: KindWrongTableKind, Offset: -1}
	ErrTruncatedScan          = &JfifError{Kind: KindTruncatedScan, Offset: -1}
	ErrUnsupportedVariant     = &JfifError{Kind: KindUnsupportedVariant, Offset: -1}
	ErrMalformedSegment       = &JfifError{Kind: KindMalformedSegment, Offset: -1}
	ErrMissingTable           = &JfifError{Kind: KindMissingTable, Offset: -1}
)
