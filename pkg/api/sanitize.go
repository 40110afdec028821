package api

import "strings"

// maxInputLength bounds every untrusted string after trimming.
const maxInputLength = 1000

func sanitizeString(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > maxInputLength {
		return string(runes[:maxInputLength])
	}
	return s
}

// sanitizeValue bounds a single untrusted value: strings are trimmed
// and truncated, booleans and numbers pass through unchanged, anything
// else is dropped (second return false). Decoded JSON carries numbers
// only as float64.
func sanitizeValue(v interface{}) (interface{}, bool) {
	switch value := v.(type) {
	case string:
		return sanitizeString(value), true
	case bool:
		return value, true
	case float64:
		return value, true
	default:
		return nil, false
	}
}

type fieldKind int

const (
	kindText fieldKind = iota
	kindFlag
)

// TaskPayload is the sanitized form of a task request body. A nil field
// was absent from the input or carried a value of the wrong shape.
type TaskPayload struct {
	Title       *string
	Description *string
	Color       *string
	IsFavorite  *bool
	Completed   *bool
}

// taskFieldSchema fixes which body fields exist and the shape each
// accepts, so extraction is driven by the schema rather than by
// sniffing runtime types. Unknown fields never make it into the
// payload.
var taskFieldSchema = []struct {
	name    string
	kind    fieldKind
	setText func(*TaskPayload, *string)
	setFlag func(*TaskPayload, *bool)
}{
	{name: "title", kind: kindText, setText: func(p *TaskPayload, s *string) { p.Title = s }},
	{name: "description", kind: kindText, setText: func(p *TaskPayload, s *string) { p.Description = s }},
	{name: "color", kind: kindText, setText: func(p *TaskPayload, s *string) { p.Color = s }},
	{name: "isFavorite", kind: kindFlag, setFlag: func(p *TaskPayload, b *bool) { p.IsFavorite = b }},
	{name: "completed", kind: kindFlag, setFlag: func(p *TaskPayload, b *bool) { p.Completed = b }},
}

// sanitizeTaskPayload extracts the schema fields from a decoded JSON
// body, sanitizing each value on the way through. Values of the wrong
// shape are dropped silently, matching the lenient contract of the
// write endpoints: validation, not sanitization, decides what is an
// error.
func sanitizeTaskPayload(raw map[string]interface{}) TaskPayload {
	var payload TaskPayload
	for _, field := range taskFieldSchema {
		value, ok := raw[field.name]
		if !ok {
			continue
		}
		clean, ok := sanitizeValue(value)
		if !ok {
			continue
		}
		switch field.kind {
		case kindText:
			s, ok := clean.(string)
			if !ok {
				continue
			}
			field.setText(&payload, &s)
		case kindFlag:
			b, ok := clean.(bool)
			if !ok {
				continue
			}
			field.setFlag(&payload, &b)
		}
	}
	return payload
}
