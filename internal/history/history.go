// Package history keeps the bounded, newest-first sequence of accepted
// signals and persists it as a single JSON slot.
package history

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/newthinker/chartsight/internal/core"
	"github.com/newthinker/chartsight/internal/logger"
	"github.com/newthinker/chartsight/internal/storage/blob"
	"go.uber.org/zap"
)

// slotName is the one named slot the whole history lives in.
const slotName = "history.json"

// DefaultLimit is the hard cap on retained signals.
const DefaultLimit = 20

// Store is the single owner of the persisted history. Persistence is
// best-effort: an unreadable slot degrades to an empty history and an
// unwritable slot degrades to in-memory-only, neither is surfaced.
type Store struct {
	storage blob.Storage
	limit   int
	logger  *zap.Logger

	mu      sync.RWMutex
	signals []core.Signal // newest-first
}

// NewStore creates a history store over the given blob storage.
func NewStore(storage blob.Storage, limit int, log *zap.Logger) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		storage: storage,
		limit:   limit,
		logger:  logger.OrNop(log),
	}
}

// Load reads the persisted sequence. Missing or corrupt data yields an
// empty history; Load never returns an error.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.signals = nil

	exists, err := s.storage.Exists(ctx, slotName)
	if err != nil || !exists {
		if err != nil {
			s.logger.Warn("history slot unreadable, starting empty", zap.Error(err))
		}
		return
	}

	data, err := s.storage.Read(ctx, slotName)
	if err != nil {
		s.logger.Warn("history slot unreadable, starting empty", zap.Error(err))
		return
	}

	var signals []core.Signal
	if err := json.Unmarshal(data, &signals); err != nil {
		s.logger.Warn("history slot corrupt, starting empty", zap.Error(err))
		return
	}

	if len(signals) > s.limit {
		signals = signals[:s.limit]
	}
	s.signals = signals
}

// Record prepends the signal, truncates to the cap and rewrites the
// whole slot. A write failure leaves the in-memory sequence intact.
func (s *Store) Record(ctx context.Context, sig core.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Signal, 0, len(s.signals)+1)
	next = append(next, sig)
	next = append(next, s.signals...)
	if len(next) > s.limit {
		next = next[:s.limit]
	}
	s.signals = next

	data, err := json.Marshal(s.signals)
	if err != nil {
		s.logger.Warn("history not persisted", zap.Error(err))
		return
	}
	if err := s.storage.Write(ctx, slotName, data); err != nil {
		s.logger.Warn("history not persisted", zap.Error(err))
	}
}

// All returns the current sequence, newest-first.
func (s *Store) All() []core.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Signal, len(s.signals))
	copy(out, s.signals)
	return out
}

// Len returns the number of retained signals.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signals)
}
