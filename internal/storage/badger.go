package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"repodeck/internal/domain"
)

// BadgerDraftStore implements DraftStore using BadgerDB.
type BadgerDraftStore struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// NewBadgerDraftStore opens (or creates) the database at dbPath.
func NewBadgerDraftStore(dbPath string, logger logrus.FieldLogger) (*BadgerDraftStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.Info("BadgerDB opened successfully at path: ", dbPath)

	return &BadgerDraftStore{
		db:  db,
		log: logger.WithField("component", "draft_store"),
	}, nil
}

// Close closes the BadgerDB database.
func (s *BadgerDraftStore) Close() error {
	s.log.Info("Closing BadgerDB...")
	if err := s.db.Close(); err != nil {
		s.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	s.log.Info("BadgerDB closed.")
	return nil
}

// draftKey format: chat:{chatID}:draft
func draftKey(chatID int64) []byte {
	return []byte(fmt.Sprintf("chat:%d:draft", chatID))
}

// SaveDraft stores the draft of a chat, replacing any previous one.
func (s *BadgerDraftStore) SaveDraft(ctx context.Context, chatID int64, draft domain.Draft) error {
	log := s.log.WithField("chat_id", chatID)

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(draftKey(chatID), data))
	})
	if err != nil {
		log.WithError(err).Error("Failed to save draft to BadgerDB")
		return fmt.Errorf("failed to save draft for chat %d: %w", chatID, err)
	}

	log.Debug("Draft saved successfully")
	return nil
}

// GetDraft loads the draft of a chat.
func (s *BadgerDraftStore) GetDraft(ctx context.Context, chatID int64) (domain.Draft, bool, error) {
	log := s.log.WithField("chat_id", chatID)

	var draft domain.Draft
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(draftKey(chatID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &draft)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Draft{}, false, nil
	}
	if err != nil {
		log.WithError(err).Error("Failed to load draft from BadgerDB")
		return domain.Draft{}, false, fmt.Errorf("failed to get draft for chat %d: %w", chatID, err)
	}
	return draft, true, nil
}

// DeleteDraft removes the draft of a chat.
func (s *BadgerDraftStore) DeleteDraft(ctx context.Context, chatID int64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(draftKey(chatID))
	})
	if err != nil {
		s.log.WithError(err).WithField("chat_id", chatID).Error("Failed to delete draft from BadgerDB")
		return fmt.Errorf("failed to delete draft for chat %d: %w", chatID, err)
	}
	return nil
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
