package models

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"

	dErrors "credhub/pkg/domain-errors"
)

// Metadata is the free-form attribute bag of a credential. Well-known keys
// are typed; every other key, and any well-known key whose JSON type does
// not match, is kept in Extra unchanged.
type Metadata struct {
	RecipientName string
	GPA           *float64
	Courses       []string
	Honors        string
	Skills        []string
	Contact       string
	Notes         string

	Extra map[string]any
}

const (
	keyRecipientName = "recipientName"
	keyGPA           = "gpa"
	keyCourses       = "courses"
	keyHonors        = "honors"
	keySkills        = "skills"
	keyContact       = "contact"
	keyNotes         = "notes"
)

// ParseMetadata decodes a JSON object. Blank input yields empty metadata.
func ParseMetadata(raw string) (Metadata, error) {
	if len(bytes.TrimSpace([]byte(raw))) == 0 {
		return Metadata{}, nil
	}
	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Metadata{}, dErrors.Wrap(err, dErrors.CodeValidation, "metadata must be a JSON object")
	}
	return m, nil
}

// IsEmpty reports whether no attribute is set.
func (m Metadata) IsEmpty() bool {
	return m.RecipientName == "" && m.GPA == nil && len(m.Courses) == 0 && m.Honors == "" &&
		len(m.Skills) == 0 && m.Contact == "" && m.Notes == "" && len(m.Extra) == 0
}

func (m Metadata) Clone() Metadata {
	if m.GPA != nil {
		gpa := *m.GPA
		m.GPA = &gpa
	}
	m.Courses = slices.Clone(m.Courses)
	m.Skills = slices.Clone(m.Skills)
	m.Extra = maps.Clone(m.Extra)
	return m
}

// MarshalJSON flattens typed fields and Extra into one object with sorted keys.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+7)
	maps.Copy(out, m.Extra)
	setString(out, keyRecipientName, m.RecipientName)
	setString(out, keyHonors, m.Honors)
	setString(out, keyContact, m.Contact)
	setString(out, keyNotes, m.Notes)
	if m.GPA != nil {
		out[keyGPA] = *m.GPA
	}
	if len(m.Courses) > 0 {
		out[keyCourses] = m.Courses
	}
	if len(m.Skills) > 0 {
		out[keySkills] = m.Skills
	}
	return json.Marshal(out)
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		*m = Metadata{}
		return nil
	}

	var parsed Metadata
	for key, raw := range fields {
		if parsed.decodeKnown(key, raw) {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if parsed.Extra == nil {
			parsed.Extra = make(map[string]any)
		}
		parsed.Extra[key] = v
	}
	*m = parsed
	return nil
}

func (m *Metadata) decodeKnown(key string, raw json.RawMessage) bool {
	switch key {
	case keyRecipientName:
		return decodeInto(raw, &m.RecipientName)
	case keyHonors:
		return decodeInto(raw, &m.Honors)
	case keyContact:
		return decodeInto(raw, &m.Contact)
	case keyNotes:
		return decodeInto(raw, &m.Notes)
	case keyGPA:
		return decodeInto(raw, &m.GPA)
	case keyCourses:
		return decodeInto(raw, &m.Courses)
	case keySkills:
		return decodeInto(raw, &m.Skills)
	}
	return false
}

// decodeInto assigns dst only when raw decodes cleanly as T.
func decodeInto[T any](raw json.RawMessage, dst *T) bool {
	var v T
	if json.Unmarshal(raw, &v) != nil {
		return false
	}
	*dst = v
	return true
}

func setString(out map[string]any, key, v string) {
	if v != "" {
		out[key] = v
	}
}
