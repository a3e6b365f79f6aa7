// Package story defines the story record shared by every layer of the
// application, plus the field-aware sort used by the stories reducer.
package story

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Story is a single Hacker News style record. ObjectID is the identity;
// every other field may change through an edit.
type Story struct {
	ObjectID    int    `json:"objectID" yaml:"objectID"`
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	Author      string `json:"author" yaml:"author"`
	NumComments int    `json:"num_comments" yaml:"num_comments"`
	Points      int    `json:"points" yaml:"points"`
}

// UnmarshalJSON accepts objectID as either a number or a numeric string
// (the search API sends strings) and treats null fields as zero values.
func (s *Story) UnmarshalJSON(data []byte) error {
	var raw struct {
		ObjectID    json.RawMessage `json:"objectID"`
		Title       *string         `json:"title"`
		URL         *string         `json:"url"`
		Author      *string         `json:"author"`
		NumComments *int            `json:"num_comments"`
		Points      *int            `json:"points"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := parseObjectID(raw.ObjectID)
	if err != nil {
		return err
	}

	*s = Story{ObjectID: id}
	if raw.Title != nil {
		s.Title = *raw.Title
	}
	if raw.URL != nil {
		s.URL = *raw.URL
	}
	if raw.Author != nil {
		s.Author = *raw.Author
	}
	if raw.NumComments != nil {
		s.NumComments = *raw.NumComments
	}
	if raw.Points != nil {
		s.Points = *raw.Points
	}
	return nil
}

func parseObjectID(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("objectID: %w", err)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("objectID %q: %w", s, err)
	}
	return n, nil
}

// Field names a Story attribute.
type Field string

const (
	FieldObjectID    Field = "objectID"
	FieldTitle       Field = "title"
	FieldURL         Field = "url"
	FieldAuthor      Field = "author"
	FieldNumComments Field = "num_comments"
	FieldPoints      Field = "points"
)

// SortableFields are the columns a user can sort by, in display order.
var SortableFields = []Field{FieldTitle, FieldAuthor, FieldNumComments, FieldPoints}

// ParseField maps a wire name to a Field.
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FieldObjectID, FieldTitle, FieldURL, FieldAuthor, FieldNumComments, FieldPoints:
		return f, nil
	}
	return "", fmt.Errorf("unknown story field %q", name)
}

// Label is the column header for the field.
func (f Field) Label() string {
	switch f {
	case FieldObjectID:
		return "ID"
	case FieldTitle:
		return "Title"
	case FieldURL:
		return "URL"
	case FieldAuthor:
		return "Authors"
	case FieldNumComments:
		return "Comments"
	case FieldPoints:
		return "Points"
	}
	return string(f)
}

// Numeric reports whether the field holds an integer.
func (f Field) Numeric() bool {
	switch f {
	case FieldObjectID, FieldNumComments, FieldPoints:
		return true
	}
	return false
}

// Int returns the integer value of a numeric field.
func (s Story) Int(f Field) int {
	switch f {
	case FieldObjectID:
		return s.ObjectID
	case FieldNumComments:
		return s.NumComments
	case FieldPoints:
		return s.Points
	}
	return 0
}

// Text returns the field value as a string.
func (s Story) Text(f Field) string {
	switch f {
	case FieldTitle:
		return s.Title
	case FieldURL:
		return s.URL
	case FieldAuthor:
		return s.Author
	}
	return strconv.Itoa(s.Int(f))
}

// IndexOf returns the position of the story with the given id, or -1.
func IndexOf(items []Story, id int) int {
	for i, s := range items {
		if s.ObjectID == id {
			return i
		}
	}
	return -1
}
