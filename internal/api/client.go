package api

import (
	"context"
	"errors"
	"fmt"

	"repodeck/internal/domain"
)

// Client defines the calls the screen makes against the repositories API.
// Each call is issued exactly once; failures are returned to the caller
// without retry or translation.
type Client interface {
	// List retrieves the full collection in server order.
	List(ctx context.Context) ([]domain.Repository, error)

	// Create submits a new repository and returns the record the server created.
	Create(ctx context.Context, payload domain.Payload) (domain.Repository, error)

	// Remove deletes the repository. The response body is ignored.
	Remove(ctx context.Context, id domain.ID) error

	// Like asks the server to increment the counter. It returns the server's
	// record when the response carries one with a likes counter, or nil when
	// it does not. Callers should only trust the counter of that record:
	// other fields may be absent from a partial response.
	Like(ctx context.Context, id domain.ID) (*domain.Repository, error)
}

// ErrMalformedRecord is returned when the server answers with a record that
// fails validation.
var ErrMalformedRecord = errors.New("malformed repository record")

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}
