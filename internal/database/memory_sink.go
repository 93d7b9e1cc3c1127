package database

import (
	"context"
	"sync"

	"dev.prompt.router/internal/models"
)

// MemoryAuditSink keeps audit entries in memory. It backs deployments
// without a database and the test suite.
type MemoryAuditSink struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

// NewMemoryAuditSink builds an empty sink.
func NewMemoryAuditSink() *MemoryAuditSink {
	return &MemoryAuditSink{}
}

// Insert appends one entry.
func (s *MemoryAuditSink) Insert(_ context.Context, entry *models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (s *MemoryAuditSink) Entries() []models.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of recorded entries.
func (s *MemoryAuditSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
