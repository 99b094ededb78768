package bin

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/anaminus/parse"
)

var (
	// Indicates an unexpected file signature.
	ErrInvalidSignature = errors.New("invalid signature")
	// Indicates that the stream ended inside a record.
	ErrUnexpectedEOS = errors.New("unexpected end of stream")
	// Indicates a name or property block longer than a presized string can
	// hold.
	ErrNameTooLong = errors.New("name exceeds 255 bytes")
	// Indicates unexpected content in the trailer byte.
	ErrTrailerContent = errors.New("trailer byte is non-zero")
)

// UnsupportedVersionError indicates a format version not handled by the
// codec.
type UnsupportedVersionError uint16

func (err UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported version %d", uint16(err))
}

// UnsupportedVariantError indicates an object kind or visual kind not known
// by the codec.
type UnsupportedVariantError struct {
	// Field names the discriminator that held the value.
	Field string
	Value uint8
}

func (err UnsupportedVariantError) Error() string {
	return fmt.Sprintf("unsupported %s 0x%02X", err.Field, err.Value)
}

// UnresolvedReferenceError indicates a table index that does not point at an
// earlier entry.
type UnresolvedReferenceError struct {
	// Kind names the referenced table ("material", "object", "instance").
	Kind string
	// Index is the offending 1-based index.
	Index uint16
	// Object is the 1-based table position of the referencing object.
	Object int
}

func (err UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("object #%d: unresolved %s reference %d", err.Object, err.Kind, err.Index)
}

// ObjectError wraps an error that occurred while coding one object record.
type ObjectError struct {
	// Index is the object's 1-based position in the object table.
	Index int
	// Name is the object's name, when known.
	Name string

	Cause error
}

func (err ObjectError) Error() string {
	if err.Name == "" {
		return fmt.Sprintf("object #%d: %s", err.Index, err.Cause.Error())
	}
	return fmt.Sprintf("object #%d %q: %s", err.Index, err.Name, err.Cause.Error())
}

func (err ObjectError) Unwrap() error {
	return err.Cause
}

// FormatError wraps an error that occurred while reading or writing byte
// data.
type FormatError struct {
	// Offset is the byte offset where the error occurred.
	Offset int64

	Cause error
}

func (err FormatError) Error() string {
	var s strings.Builder
	s.WriteString("format error")
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err FormatError) Unwrap() error {
	return err.Cause
}

// decodeError folds err into the reader's state and returns the combined
// error wrapped with the current offset. Truncation surfaces as
// ErrUnexpectedEOS.
func decodeError(fr *parse.BinaryReader, err error) error {
	fr.Add(0, err)
	err = fr.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrUnexpectedEOS
	}
	return FormatError{Offset: fr.N(), Cause: err}
}

// encodeError folds err into the writer's state and returns the combined
// error wrapped with the current offset.
func encodeError(fw *parse.BinaryWriter, err error) error {
	fw.Add(0, err)
	err = fw.Err()
	if err == nil {
		return nil
	}
	return FormatError{Offset: fw.N(), Cause: err}
}
