// Package history keeps the most recent generated plans so they can be
// reopened as they were or loaded back for editing.
package history

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// MaxEntries caps the history; the oldest entry is evicted first.
	MaxEntries = 20
	// RecoveryEntries is how many entries survive a quota failure.
	RecoveryEntries = 10
)

// ErrNotFound is returned for an unknown entry id.
var ErrNotFound = errors.New("history entry not found")

// Outcome describes what Add managed to persist.
type Outcome int

const (
	// OutcomeSaved means the entry was saved with the full history.
	OutcomeSaved Outcome = iota
	// OutcomeTruncated means the history was cut down to make room.
	OutcomeTruncated
	// OutcomeDropped means nothing was saved.
	OutcomeDropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeTruncated:
		return "truncated"
	default:
		return "dropped"
	}
}

// History is the newest-first list of saved plans on top of a Store.
type History struct {
	store Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// New returns a History backed by store. A nil logger uses the standard
// logrus logger.
func New(store Store, logger logrus.FieldLogger) *History {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &History{store: store, log: logger, now: time.Now}
}

// Add saves e as the newest entry and evicts beyond MaxEntries. If the store
// reports ErrQuotaExceeded the list is cut to RecoveryEntries and saved once
// more; a second quota failure is logged and reported as OutcomeDropped.
// Errors are returned only for other store failures.
//
// An entry without id or date gets one assigned here.
func (h *History) Add(e Entry) (Outcome, error) {
	entries, err := h.store.Load()
	if err != nil {
		return OutcomeDropped, err
	}

	now := h.now()
	if e.Date.IsZero() {
		e.Date = now.UTC()
	}
	if e.ID == 0 {
		e.ID = nextID(entries, now)
	}

	entries = append([]Entry{e}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	err = h.store.Save(entries)
	if err == nil {
		return OutcomeSaved, nil
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		return OutcomeDropped, errors.Wrap(err, "save history")
	}

	if len(entries) > RecoveryEntries {
		entries = entries[:RecoveryEntries]
	}
	h.log.WithFields(logrus.Fields{
		"error": err,
		"keep":  len(entries),
	}).Warn("history quota exceeded, dropping older entries")

	err = h.store.Save(entries)
	switch {
	case err == nil:
		return OutcomeTruncated, nil
	case errors.Is(err, ErrQuotaExceeded):
		h.log.WithFields(logrus.Fields{
			"error": err,
			"id":    e.ID,
		}).Warn("history still over quota, plan not saved")
		return OutcomeDropped, nil
	default:
		return OutcomeDropped, errors.Wrap(err, "save truncated history")
	}
}

// nextID uses the time in milliseconds, bumped past the newest id when two
// plans are saved within the same millisecond.
func nextID(entries []Entry, now time.Time) int64 {
	id := now.UnixMilli()
	for _, e := range entries {
		if e.ID >= id {
			id = e.ID + 1
		}
	}
	return id
}

// List returns all entries, newest first.
func (h *History) List() ([]Entry, error) {
	return h.store.Load()
}

// Get returns the entry with the given id.
func (h *History) Get(id int64) (Entry, error) {
	entries, err := h.store.Load()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, errors.Wrapf(ErrNotFound, "id %d", id)
}

// Remove deletes the entry with the given id.
func (h *History) Remove(id int64) error {
	entries, err := h.store.Load()
	if err != nil {
		return err
	}
	for i, e := range entries {
		if e.ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			return errors.Wrap(h.store.Save(entries), "save history")
		}
	}
	return errors.Wrapf(ErrNotFound, "id %d", id)
}

// Clear removes every entry.
func (h *History) Clear() error {
	return h.store.Clear()
}
