package models

import (
	"strings"
)

// Document is a semi-structured upstream resource. Fields the gateway does not read are
// passed through to clients untouched.
type Document map[string]any

// Well-known document fields
const (
	FieldID         = "id"
	FieldURL        = "url"
	FieldTitle      = "title"
	FieldEpisodeID  = "episode_id"
	FieldCharacters = "characters"
	FieldResults    = "results"
)

// IDFromURL returns the trailing path segment of an upstream resource URL.
//
//	https://swapi.dev/api/films/1/ -> 1
func IDFromURL(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if trimmed == "" {
		return ""
	}
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// HasID reports whether the document already carries a non-empty id
func (d Document) HasID() bool {
	v, ok := d[FieldID]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return s != ""
	}
	return true
}

// BackfillID sets id to the given value unless upstream already supplied one.
func (d Document) BackfillID(id string) {
	if id == "" || d.HasID() {
		return
	}
	d[FieldID] = id
}

// BackfillIDFromURL derives the id from the document's own url field.
func (d Document) BackfillIDFromURL() {
	d.BackfillID(IDFromURL(d.String(FieldURL)))
}

// String returns the field as a string, or "" when absent or not a string.
func (d Document) String(field string) string {
	if s, ok := d[field].(string); ok {
		return s
	}
	return ""
}

// StringSlice returns a list field as strings. Non-string items are skipped.
// The second result is false when the field is present but not a list.
func (d Document) StringSlice(field string) ([]string, bool) {
	raw, ok := d[field]
	if !ok || raw == nil {
		return nil, true
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

// Documents returns a list-of-objects field, e.g. the results of a collection page.
// The second result is false when the field is missing, not a list or holds non-objects.
func (d Document) Documents(field string) ([]Document, bool) {
	raw, ok := d[field].([]any)
	if !ok {
		return nil, false
	}
	out := make([]Document, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		out = append(out, Document(obj))
	}
	return out, true
}
