package shotdeck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Slide type tags accepted in the "type" field.
const (
	SlideTypeTable = "table"
	SlideTypeText  = "text"
)

// ParseResult is the outcome of Parse. Skipped lists entries whose type
// was not recognised; they never appear in Descriptor.
type ParseResult struct {
	Descriptor PresentationDescriptor
	Skipped    []SkippedSlide
}

// Parse reads a presentation description of the form
//
//	{"presentation": {"title": "...", "slides": [{"type": "table", ...}, ...]}}
//
// Malformed JSON yields a *ParseError and a structurally wrong document a
// *SchemaError. Entries with an unknown type are skipped without error.
// All strings are normalised to NFC.
func Parse(text string) (ParseResult, error) {
	var res ParseResult

	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return res, classifyJSONError(err, "", "a JSON object")
	}

	rawPres, ok := root["presentation"]
	if !ok || isNull(rawPres) {
		return res, NewSchemaError(-1, "presentation", "missing required field")
	}
	var pres map[string]json.RawMessage
	if err := json.Unmarshal(rawPres, &pres); err != nil {
		return res, NewSchemaError(-1, "presentation", "expected an object")
	}

	if rawTitle, ok := pres["title"]; ok && !isNull(rawTitle) {
		if err := json.Unmarshal(rawTitle, &res.Descriptor.Title); err != nil {
			return res, NewSchemaError(-1, "presentation.title", "expected a string")
		}
		res.Descriptor.Title = norm.NFC.String(res.Descriptor.Title)
	}

	rawSlides, ok := pres["slides"]
	if !ok || isNull(rawSlides) {
		return res, NewSchemaError(-1, "presentation.slides", "missing required field")
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rawSlides, &entries); err != nil {
		return res, NewSchemaError(-1, "presentation.slides", "expected an array")
	}

	res.Descriptor.Slides = make([]SlideDescriptor, 0, len(entries))
	for i, raw := range entries {
		d, typ, err := parseSlide(i, raw)
		if err != nil {
			return ParseResult{}, err
		}
		if d == nil {
			res.Skipped = append(res.Skipped, SkippedSlide{Index: i, Type: typ})
			continue
		}
		res.Descriptor.Slides = append(res.Descriptor.Slides, d)
	}
	return res, nil
}

// parseSlide returns a nil descriptor and the type tag for entries that
// are well-formed but of an unknown type. A type that is not a string,
// null included, is unknown too and is reported by its raw JSON text.
func parseSlide(idx int, raw json.RawMessage) (SlideDescriptor, string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, "", NewSchemaError(idx, "", "expected an object")
	}

	rawType, ok := obj["type"]
	if !ok {
		return nil, "", NewSchemaError(idx, "type", "missing required field")
	}
	var typ string
	if err := json.Unmarshal(rawType, &typ); err != nil || isNull(rawType) {
		return nil, string(bytes.TrimSpace(rawType)), nil
	}

	switch typ {
	case SlideTypeTable:
		var s TableSlide
		if err := requireField(obj, idx, "title", &s.Title, "a string"); err != nil {
			return nil, typ, err
		}
		if err := requireField(obj, idx, "headers", &s.Headers, "an array of strings"); err != nil {
			return nil, typ, err
		}
		if err := requireField(obj, idx, "rows", &s.Rows, "an array of string arrays"); err != nil {
			return nil, typ, err
		}
		s.Title = norm.NFC.String(s.Title)
		normalizeAll(s.Headers)
		for _, row := range s.Rows {
			normalizeAll(row)
		}
		return s, typ, nil

	case SlideTypeText:
		var s TextSlide
		if err := requireField(obj, idx, "title", &s.Title, "a string"); err != nil {
			return nil, typ, err
		}
		if err := requireField(obj, idx, "content", &s.Content, "an array of strings"); err != nil {
			return nil, typ, err
		}
		s.Title = norm.NFC.String(s.Title)
		normalizeAll(s.Content)
		return s, typ, nil
	}

	return nil, typ, nil
}

func requireField(obj map[string]json.RawMessage, idx int, name string, dst any, want string) error {
	raw, ok := obj[name]
	if !ok {
		return NewSchemaError(idx, name, "missing required field")
	}
	if isNull(raw) {
		return NewSchemaError(idx, name, "must not be null")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return NewSchemaError(idx, name, fmt.Sprintf("expected %s", want))
	}
	return nil
}

func classifyJSONError(err error, field, want string) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Offset: syntaxErr.Offset, Err: err}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewSchemaError(-1, field, fmt.Sprintf("expected %s, got %s", want, typeErr.Value))
	}
	return &ParseError{Err: err}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func normalizeAll(ss []string) {
	for i, s := range ss {
		ss[i] = norm.NFC.String(s)
	}
}
