// Package settings keeps the donation account record shown on the account page.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/kkumttre/kkumttre/storage"
)

// DefaultKey is the storage slot holding the settings record.
const DefaultKey = "kkumttre_settings"

// SiteSettings is the bank account visitors donate to.
type SiteSettings struct {
	BankName      string
	AccountNumber string
	AccountHolder string
}

// Default is used until an account is saved.
var Default = SiteSettings{
	BankName:      "농협은행",
	AccountNumber: "351-1111-2222-33",
	AccountHolder: "꿈뜨레 지역공동체",
}

// record is the stored form. Absent fields fall back to Default field by
// field; a stored empty string stays empty.
type record struct {
	BankName      *string `json:"bankName,omitempty"`
	AccountNumber *string `json:"accountNumber,omitempty"`
	AccountHolder *string `json:"accountHolder,omitempty"`
}

func (r record) settings() SiteSettings {
	s := Default
	if r.BankName != nil {
		s.BankName = *r.BankName
	}
	if r.AccountNumber != nil {
		s.AccountNumber = *r.AccountNumber
	}
	if r.AccountHolder != nil {
		s.AccountHolder = *r.AccountHolder
	}
	return s
}

func toRecord(s SiteSettings) record {
	return record{
		BankName:      &s.BankName,
		AccountNumber: &s.AccountNumber,
		AccountHolder: &s.AccountHolder,
	}
}

// Store is the write-through cache of the settings slot.
type Store struct {
	mu      sync.RWMutex
	current SiteSettings
	backend storage.Backend
	key     string
	logger  log.FieldLogger
}

// Open reads the record at key, falling back to Default when the slot is
// empty or unreadable.
func Open(ctx context.Context, backend storage.Backend, key string, logger log.FieldLogger) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Store{current: Default, backend: backend, key: key, logger: logger}

	raw, ok, err := backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("settings: read %s: %w", key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return s, nil
	}
	var r record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		logger.WithError(err).WithField("key", key).Warn("settings: stored record is unreadable, using defaults")
		return s, nil
	}
	s.current = r.settings()
	return s, nil
}

// Get returns the current record.
func (s *Store) Get() SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update replaces the record. Any string is accepted for every field. The
// in-memory copy only changes once storage has accepted the write.
func (s *Store) Update(ctx context.Context, next SiteSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(toRecord(next))
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("settings: write %s: %w", s.key, err)
	}
	s.current = next
	s.logger.WithField("bank", next.BankName).Info("settings: account updated")
	return nil
}
