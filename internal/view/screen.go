package view

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"repodeck/internal/api"
	"repodeck/internal/domain"
)

// Operation names passed to the Reporter.
const (
	OpMount  = "mount"
	OpAdd    = "add"
	OpRemove = "remove"
	OpLike   = "like"
)

// State is a snapshot of everything the screen renders.
type State struct {
	Repositories []domain.Repository
	Draft        domain.Draft
}

// Screen holds the local, non-authoritative copy of the server's collection
// together with the form draft, and reconciles both with the results of API calls.
//
// Network calls run without holding the lock; each successful call patches
// the state as it is when the call returns. A failed call changes nothing.
type Screen struct {
	client   api.Client
	reporter Reporter
	log      logrus.FieldLogger

	mu           sync.Mutex
	repositories []domain.Repository
	draft        domain.Draft

	// inflight merges concurrent like/remove calls for the same id.
	inflight singleflight.Group
}

// NewScreen creates an empty screen. Call Mount to load the collection.
func NewScreen(client api.Client, reporter Reporter, logger logrus.FieldLogger) *Screen {
	return &Screen{
		client:       client,
		reporter:     reporter,
		log:          logger.WithField("component", "screen"),
		repositories: []domain.Repository{},
	}
}

// Mount loads the whole collection and replaces the local copy with it.
func (s *Screen) Mount(ctx context.Context) {
	s.log.Debug("Attempting to load repositories")

	repos, err := s.client.List(ctx)
	if err != nil {
		s.reporter.Report(OpMount, err)
		return
	}

	next := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		next = append(next, r.Clone())
	}

	s.mu.Lock()
	s.repositories = next
	s.mu.Unlock()

	s.log.WithField("repository_count", len(next)).Info("Repositories loaded successfully")
}

// SetTitle updates the draft title.
func (s *Screen) SetTitle(title string) {
	s.mu.Lock()
	s.draft.Title = title
	s.mu.Unlock()
}

// SetURL updates the draft url.
func (s *Screen) SetURL(url string) {
	s.mu.Lock()
	s.draft.URL = url
	s.mu.Unlock()
}

// SetTechs updates the raw, comma-separated techs of the draft.
func (s *Screen) SetTechs(techs string) {
	s.mu.Lock()
	s.draft.Techs = techs
	s.mu.Unlock()
}

// Add submits the draft. On success the created record is appended and the
// whole draft is cleared; on failure nothing changes so the draft can be resubmitted.
func (s *Screen) Add(ctx context.Context) {
	s.mu.Lock()
	payload := s.draft.Payload()
	s.mu.Unlock()

	log := s.log.WithField("title", payload.Title)
	log.Debug("Attempting to create repository")

	created, err := s.client.Create(ctx, payload)
	if err != nil {
		s.reporter.Report(OpAdd, err)
		return
	}

	s.mu.Lock()
	s.repositories = append(s.repositories, created.Clone())
	s.draft.Reset()
	s.mu.Unlock()

	log.WithField("repository_id", created.ID).Info("Repository created successfully")
}

// Remove deletes the repository and drops it from the collection.
//
// Concurrent removals of the same id share one request. The shared request
// keeps ctx's values but not its cancellation, so one caller giving up does
// not fail the others; the client's own timeout still bounds it.
func (s *Screen) Remove(ctx context.Context, id domain.ID) {
	shared := context.WithoutCancel(ctx)
	_, err, _ := s.inflight.Do(OpRemove+":"+id.String(), func() (any, error) {
		if err := s.client.Remove(shared, id); err != nil {
			return nil, err
		}

		s.mu.Lock()
		kept := make([]domain.Repository, 0, len(s.repositories))
		for _, r := range s.repositories {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		s.repositories = kept
		s.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		s.reporter.Report(OpRemove, err)
		return
	}
	s.log.WithField("repository_id", id).Info("Repository removed successfully")
}

// Like registers a like. Only the counter changes: it takes the server's
// value when the response carries one, otherwise it is incremented by one.
// Concurrent likes of the same id share one request, detached from the
// callers' cancellation like Remove.
func (s *Screen) Like(ctx context.Context, id domain.ID) {
	shared := context.WithoutCancel(ctx)
	_, err, _ := s.inflight.Do(OpLike+":"+id.String(), func() (any, error) {
		updated, err := s.client.Like(shared, id)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		for i := range s.repositories {
			if s.repositories[i].ID != id {
				continue
			}
			if updated != nil {
				s.repositories[i].Likes = updated.Likes
			} else {
				s.repositories[i].Likes++
			}
			break
		}
		s.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		s.reporter.Report(OpLike, err)
		return
	}
	s.log.WithField("repository_id", id).Debug("Repository liked successfully")
}

// State returns a deep copy of the current collection and draft.
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	repos := make([]domain.Repository, 0, len(s.repositories))
	for _, r := range s.repositories {
		repos = append(repos, r.Clone())
	}
	return State{Repositories: repos, Draft: s.draft}
}
