package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"repodeck/internal/domain"
)

const (
	repositoriesPath = "/repositories"
	requestIDHeader  = "X-Request-ID"

	// maxErrorBody bounds how much of a failed response is kept in a StatusError.
	maxErrorBody = 512
)

// HTTPClient implements Client against a JSON HTTP API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logrus.FieldLogger
}

// NewHTTPClient creates a client for the API rooted at baseURL.
// A zero timeout leaves request deadlines to the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logrus.FieldLogger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api base url must include a host, got %q", baseURL)
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     logger.WithField("component", "api_client"),
	}, nil
}

// List retrieves the full collection.
func (c *HTTPClient) List(ctx context.Context) ([]domain.Repository, error) {
	var repos []domain.Repository
	body, err := c.do(ctx, http.MethodGet, repositoriesPath, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("failed to decode repository list: %w", err)
	}

	out := make([]domain.Repository, 0, len(repos))
	for i, r := range repos {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedRecord, i, err)
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

// Create submits payload and returns the created record.
func (c *HTTPClient) Create(ctx context.Context, payload domain.Payload) (domain.Repository, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return domain.Repository{}, fmt.Errorf("failed to marshal repository payload: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, repositoriesPath, reqBody)
	if err != nil {
		return domain.Repository{}, err
	}

	var created domain.Repository
	if err := json.Unmarshal(body, &created); err != nil {
		return domain.Repository{}, fmt.Errorf("failed to decode created repository: %w", err)
	}
	if err := created.Validate(); err != nil {
		return domain.Repository{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return created.Clone(), nil
}

// Remove deletes the repository addressed by id.
func (c *HTTPClient) Remove(ctx context.Context, id domain.ID) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	_, err := c.do(ctx, http.MethodDelete, repositoryPath(id), nil)
	return err
}

// Like increments the repository's counter on the server.
func (c *HTTPClient) Like(ctx context.Context, id domain.ID) (*domain.Repository, error) {
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	body, err := c.do(ctx, http.MethodPost, repositoryPath(id)+"/like", nil)
	if err != nil {
		return nil, err
	}

	// The like endpoint is not required to answer with a record.
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var updated domain.Repository
	if err := json.Unmarshal(body, &updated); err != nil || updated.ID != id {
		return nil, nil
	}
	// A same-id body without a counter says nothing about the likes.
	var counter struct {
		Likes *int `json:"likes"`
	}
	if err := json.Unmarshal(body, &counter); err != nil || counter.Likes == nil {
		return nil, nil
	}
	if err := updated.Validate(); err != nil {
		c.log.WithError(err).WithField("repository_id", id).Warn("Ignoring malformed record in like response")
		return nil, nil
	}
	updated = updated.Clone()
	return &updated, nil
}

func repositoryPath(id domain.ID) string {
	return repositoriesPath + "/" + url.PathEscape(id.String())
}

// do issues one request and returns the response body of a 2xx answer.
func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	requestID := uuid.NewString()
	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	log.Debug("Attempting api request")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Error("API request failed")
		return nil, fmt.Errorf("failed to %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Error("Failed to read api response")
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("API request returned unexpected status")
		snippet := respBody
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	log.Debug("API request completed successfully")
	return respBody, nil
}
