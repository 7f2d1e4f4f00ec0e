package todo

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aymenmusic/todo-list-2025/internal/apperr"
)

type CreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// Patch holds the fields present in an update body. A nil pointer means the
// field was absent. SetDueDate with a nil DueDate clears the due date.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
	SetDueDate  bool
	DueDate     *time.Time
}

// ParseCreateRequest validates a create body.
func ParseCreateRequest(body []byte) (*CreateInput, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	raw, ok := fields["title"]
	if !ok || isNull(raw) {
		return nil, ErrMissingTitle
	}
	title, err := decodeTitle(raw)
	if err != nil {
		return nil, err
	}

	input := &CreateInput{Title: title}

	if raw, ok := fields["description"]; ok {
		if input.Description, err = decodeDescription(raw); err != nil {
			return nil, err
		}
	}

	if raw, ok := fields["due_date"]; ok && !isNull(raw) {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, ErrInvalidDueDate
		}
		if value != "" {
			due, err := ParseDueDate(value)
			if err != nil {
				return nil, err
			}
			input.DueDate = &due
		}
	}

	return input, nil
}

// ParsePatch validates an update body. Nothing is applied until every
// present field has been validated.
func ParsePatch(body []byte) (*Patch, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	patch := &Patch{}

	if raw, ok := fields["title"]; ok {
		if isNull(raw) {
			return nil, ErrMissingTitle
		}
		title, err := decodeTitle(raw)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	if raw, ok := fields["description"]; ok {
		description, err := decodeDescription(raw)
		if err != nil {
			return nil, err
		}
		patch.Description = &description
	}

	if raw, ok := fields["completed"]; ok {
		completed := coerceBool(raw)
		patch.Completed = &completed
	}

	if raw, ok := fields["due_date"]; ok {
		patch.SetDueDate = true
		if !isNull(raw) {
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				return nil, ErrInvalidDueDate
			}
			due, err := ParseDueDate(value)
			if err != nil {
				return nil, err
			}
			patch.DueDate = &due
		}
	}

	return patch, nil
}

// Apply merges the patch into t.
func (p *Patch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.SetDueDate {
		t.DueDate = p.DueDate
	}
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, apperr.ErrInvalidBody
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, apperr.ErrInvalidBody
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func decodeTitle(raw json.RawMessage) (string, error) {
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return "", ErrInvalidTitle
	}
	if strings.TrimSpace(title) == "" {
		return "", ErrMissingTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// decodeDescription treats null as an empty description.
func decodeDescription(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var description string
	if err := json.Unmarshal(raw, &description); err != nil {
		return "", ErrInvalidDescription
	}
	return description, nil
}

// coerceBool applies truthiness to any JSON value.
func coerceBool(raw json.RawMessage) bool {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}

	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return v != ""
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return false
	}
}
