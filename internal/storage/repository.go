package storage

import (
	"context"

	"repodeck/internal/domain"
)

// DraftStore keeps unsaved form drafts per chat so they survive a restart.
// Repository records are never stored here; the API owns them.
type DraftStore interface {
	// SaveDraft stores or replaces the draft of a chat.
	SaveDraft(ctx context.Context, chatID int64, draft domain.Draft) error

	// GetDraft returns the stored draft and whether one existed.
	GetDraft(ctx context.Context, chatID int64) (domain.Draft, bool, error)

	// DeleteDraft removes the draft of a chat. Deleting a missing draft is not an error.
	DeleteDraft(ctx context.Context, chatID int64) error

	// Close gracefully shuts down the store.
	Close() error
}
