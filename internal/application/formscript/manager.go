package formscript

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
)

// Config holds form session settings
type Config struct {
	// FetchTimeout bounds a single link lookup
	FetchTimeout time.Duration
	// IdleTTL is how long an untouched session survives EvictIdle
	IdleTTL time.Duration
}

// Manager owns the open form sessions
type Manager struct {
	reader  port.LinkReader
	loader  port.RecordLoader
	writer  port.RecordWriter
	config  Config
	logger  Logger
	scripts map[entity.Kind]Script
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager for the given scripts
func NewManager(reader port.LinkReader, loader port.RecordLoader, writer port.RecordWriter, config Config, logger Logger, scripts ...Script) *Manager {
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 10 * time.Second
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 30 * time.Minute
	}

	m := &Manager{
		reader:   reader,
		loader:   loader,
		writer:   writer,
		config:   config,
		logger:   logger,
		scripts:  make(map[entity.Kind]Script, len(scripts)),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, sc := range scripts {
		m.scripts[sc.Kind()] = sc
	}
	return m
}

// Kinds lists the kinds that can be edited in a session
func (m *Manager) Kinds() []entity.Kind {
	out := make([]entity.Kind, 0, len(m.scripts))
	for _, info := range entity.Kinds() {
		if _, ok := m.scripts[info.Kind]; ok {
			out = append(out, info.Kind)
		}
	}
	return out
}

// Open starts a session for a new record. initial may be empty; link
// fields it fills are followed as if they had been entered.
func (m *Manager) Open(ctx context.Context, kind entity.Kind, initial json.RawMessage) (*Snapshot, error) {
	sc, ok := m.scripts[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoScript, kind)
	}

	rec := sc.New()
	if len(strings.TrimSpace(string(initial))) > 0 {
		if err := json.Unmarshal(initial, rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
	}
	rec.SetRecordName("")

	s := m.start(sc, rec, true)
	m.logger.Info("Form session opened", "session", s.ID(), "kind", kind)
	return s.Snapshot()
}

// Load starts a session for a stored record. Copied attributes are kept as
// stored; links are only followed again when they change.
func (m *Manager) Load(ctx context.Context, kind entity.Kind, name string) (*Snapshot, error) {
	sc, ok := m.scripts[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoScript, kind)
	}

	rec, err := m.loader.LoadRecord(ctx, kind, name)
	if err != nil {
		return nil, err
	}

	s := m.start(sc, rec, false)
	m.logger.Info("Form session loaded", "session", s.ID(), "kind", kind, "name", name)
	return s.Snapshot()
}

func (m *Manager) start(sc Script, rec entity.Record, resolve bool) *Session {
	s := newSession(uuid.NewString(), sc, rec, m.reader, m.logger, m.config.FetchTimeout, m.now)
	s.refresh(resolve)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) session(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Snapshot returns the session state. With wait set it first waits for
// outstanding lookups.
func (m *Manager) Snapshot(ctx context.Context, id string, wait bool) (*Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return nil, err
	}
	if wait {
		if err := s.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return s.Snapshot()
}

// Change sets a field. Item fields are addressed as items.<idx>.<field>.
func (m *Manager) Change(id, field string, raw json.RawMessage) (*Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return nil, err
	}

	if idx, itemField, ok := parseItemField(field); ok {
		err = s.ChangeItem(idx, itemField, raw)
	} else {
		err = s.Change(field, raw)
	}
	if err != nil {
		return nil, err
	}
	return s.Snapshot()
}

// AddItem appends an item row
func (m *Manager) AddItem(id string) (*Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.AddItem(); err != nil {
		return nil, err
	}
	return s.Snapshot()
}

// RemoveItem deletes the item row at position idx
func (m *Manager) RemoveItem(id string, idx int) (*Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return nil, err
	}
	if err := s.RemoveItem(idx); err != nil {
		return nil, err
	}
	return s.Snapshot()
}

// Save waits for outstanding lookups, validates and stores the record.
// The session stays open so the form can keep editing the saved record.
func (m *Manager) Save(ctx context.Context, id string) (string, *Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return "", nil, err
	}
	if err := s.Wait(ctx); err != nil {
		return "", nil, err
	}

	name, err := s.save(ctx, m.writer)
	if err != nil {
		m.logger.Error("Failed to save form", "session", id, "kind", s.Kind(), "error", err)
		return "", nil, err
	}
	m.logger.Info("Form saved", "session", id, "kind", s.Kind(), "name", name)

	snap, err := s.Snapshot()
	if err != nil {
		return "", nil, err
	}
	return name, snap, nil
}

// Close ends a session and drops it
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.Close()
	m.logger.Info("Form session closed", "session", id)
	return nil
}

// EvictIdle closes sessions untouched for longer than the idle TTL.
// It returns the number of sessions closed.
func (m *Manager) EvictIdle(now time.Time) int {
	var idle []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.config.IdleTTL {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		m.logger.Info("Evicted idle form sessions", "count", len(idle))
	}
	return len(idle)
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every session
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// parseItemField splits items.<idx>.<field>
func parseItemField(field string) (int, string, bool) {
	parts := strings.SplitN(field, ".", 3)
	if len(parts) != 3 || parts[0] != "items" {
		return 0, "", false
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", false
	}
	return idx, parts[2], true
}
