package shotdeck

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against a *RenderError.
var (
	ErrEmptyHeaders     = errors.New("table has no headers")
	ErrRowShapeMismatch = errors.New("row length does not match header count")
	ErrUnknownVariant   = errors.New("unknown slide variant")
)

// ParseError reports input that is not well-formed JSON.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("parse error at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports well-formed input that does not describe a
// presentation. Slide is -1 when the problem is outside the slide list.
type SchemaError struct {
	Slide   int
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Slide >= 0 && e.Field != "":
		return fmt.Sprintf("schema error in slide %d, field %q: %s", e.Slide, e.Field, e.Message)
	case e.Slide >= 0:
		return fmt.Sprintf("schema error in slide %d: %s", e.Slide, e.Message)
	case e.Field != "":
		return fmt.Sprintf("schema error, field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema error: %s", e.Message)
}

// NewSchemaError creates a schema error for the given slide index and field.
func NewSchemaError(slide int, field, message string) error {
	return &SchemaError{Slide: slide, Field: field, Message: message}
}

// RenderErrorKind classifies render failures.
type RenderErrorKind int

const (
	RenderEmptyHeaders RenderErrorKind = iota + 1
	RenderRowShapeMismatch
	RenderUnknownVariant
)

func (k RenderErrorKind) String() string {
	switch k {
	case RenderEmptyHeaders:
		return "emptyHeaders"
	case RenderRowShapeMismatch:
		return "rowShapeMismatch"
	case RenderUnknownVariant:
		return "unknownVariant"
	}
	return fmt.Sprintf("RenderErrorKind(%d)", int(k))
}

func (k RenderErrorKind) sentinel() error {
	switch k {
	case RenderEmptyHeaders:
		return ErrEmptyHeaders
	case RenderRowShapeMismatch:
		return ErrRowShapeMismatch
	case RenderUnknownVariant:
		return ErrUnknownVariant
	}
	return nil
}

// RenderError reports a descriptor that cannot be rendered. Row, Got and
// Want are only meaningful for RenderRowShapeMismatch.
type RenderError struct {
	Kind RenderErrorKind
	Row  int
	Got  int
	Want int
}

func (e *RenderError) Error() string {
	if e.Kind == RenderRowShapeMismatch {
		return fmt.Sprintf("render error (%s): row %d has %d cells, want %d", e.Kind, e.Row, e.Got, e.Want)
	}
	return fmt.Sprintf("render error (%s): %v", e.Kind, e.Kind.sentinel())
}

func (e *RenderError) Unwrap() error {
	return e.Kind.sentinel()
}

// SlideError attaches the failing slide's position and title to an error.
type SlideError struct {
	Index int
	Title string
	Err   error
}

func (e *SlideError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("slide %d (%q): %v", e.Index, e.Title, e.Err)
	}
	return fmt.Sprintf("slide %d: %v", e.Index, e.Err)
}

func (e *SlideError) Unwrap() error {
	return e.Err
}
