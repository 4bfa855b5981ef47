// domain/post.go
package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// TimeFormat matches the timestamps already persisted by earlier versions of
// the API (UTC, millisecond precision, trailing Z).
const TimeFormat = "2006-01-02T15:04:05.000Z"

// NowISO returns the current wall-clock time in the persisted timestamp format.
func NowISO() string {
	return time.Now().UTC().Format(TimeFormat)
}

type Post struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
}

// UnmarshalJSON accepts both created_at and the legacy createdAt key, and
// normalizes a missing or null tags value to an empty list.
func (p *Post) UnmarshalJSON(data []byte) error {
	type alias Post
	aux := struct {
		*alias
		LegacyCreatedAt string `json:"createdAt"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.CreatedAt == "" {
		p.CreatedAt = aux.LegacyCreatedAt
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return nil
}

// ErrMissingFields is returned when a create payload lacks a title or content.
// The message is the one the front end localizes against.
var ErrMissingFields = errors.New("标题和内容不能为空")

// Fields holds the three caller-mutable post fields. The id and creation
// timestamp are always assigned by the store, never by the caller.
type Fields struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Validate reports whether the fields are acceptable for a create.
func (f Fields) Validate() error {
	if f.Title == "" || f.Content == "" {
		return ErrMissingFields
	}
	return nil
}

// ParseFields decodes a request body into Fields. An empty body is treated as
// an empty object, and a tags value that is not a string array is coerced to
// an empty list, matching the behavior of the original API.
func ParseFields(data []byte) (Fields, error) {
	var f Fields
	if len(data) == 0 {
		f.Tags = []string{}
		return f, nil
	}

	var wire struct {
		Title   string          `json:"title"`
		Content string          `json:"content"`
		Tags    json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Fields{}, err
	}

	f.Title = wire.Title
	f.Content = wire.Content
	f.Tags = []string{}
	if len(wire.Tags) > 0 {
		var tags []string
		if err := json.Unmarshal(wire.Tags, &tags); err == nil && tags != nil {
			f.Tags = tags
		}
	}
	return f, nil
}
