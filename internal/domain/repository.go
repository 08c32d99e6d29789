package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidID is returned when a record carries an empty identifier.
	ErrInvalidID = errors.New("repository id is empty")
	// ErrNegativeLikes is returned when a record reports a negative like counter.
	ErrNegativeLikes = errors.New("repository likes is negative")
)

// ID is the opaque, server-assigned identifier of a repository.
// Servers may send it as a JSON string or number; numbers keep their decimal text.
type ID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode repository id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode repository id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Repository is a project-like record listed by the API.
type Repository struct {
	// ID is unique and stable for the session.
	ID ID `json:"id"`

	Title string `json:"title"`
	URL   string `json:"url"`

	// Techs is the ordered list of technology tags.
	Techs []string `json:"techs"`

	// Likes is the non-negative like counter kept by the server.
	Likes int `json:"likes"`
}

// Validate rejects records the server should never have produced.
func (r Repository) Validate() error {
	if r.ID == "" {
		return ErrInvalidID
	}
	if r.Likes < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeLikes, r.Likes)
	}
	return nil
}

// Clone returns a copy that shares no memory with r.
func (r Repository) Clone() Repository {
	out := r
	out.Techs = append([]string(nil), r.Techs...)
	if out.Techs == nil {
		out.Techs = []string{}
	}
	return out
}

// Payload is the body of a creation request.
type Payload struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Techs []string `json:"techs"`
}

// Draft is the unsaved form input. Techs holds the raw comma-separated text.
type Draft struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Techs string `json:"techs"`
}

// Payload builds a creation request from the draft. Techs are split on commas
// without trimming, so an empty field yields a single empty tag.
func (d Draft) Payload() Payload {
	return Payload{
		Title: d.Title,
		URL:   d.URL,
		Techs: strings.Split(d.Techs, ","),
	}
}

// Reset clears every field.
func (d *Draft) Reset() {
	*d = Draft{}
}

// IsEmpty reports whether no field holds any text.
func (d Draft) IsEmpty() bool {
	return d.Title == "" && d.URL == "" && d.Techs == ""
}
