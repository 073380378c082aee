package formscript

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/domain/form"
)

// systemFields cannot be set through Change on any kind
var systemFields = []string{"name", "creation", "modified", "items"}

// systemItemFields cannot be set through ChangeItem
var systemItemFields = []string{"row_id", "idx"}

// Fetch reads a linked record and returns the function that copies its
// attributes onto the session record. apply runs under the session lock.
type Fetch func(ctx context.Context, r port.LinkReader) (apply func(), err error)

// FetchError is a failed lookup surfaced to the client
type FetchError struct {
	Field   string    `json:"field"`
	Value   string    `json:"value"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Snapshot is a consistent copy of a session's state
type Snapshot struct {
	SessionID string                     `json:"session_id"`
	Kind      entity.Kind                `json:"kind"`
	Record    json.RawMessage            `json:"record"`
	Layout    map[string]form.FieldState `json:"layout"`
	Pending   int                        `json:"pending"`
	Errors    []FetchError               `json:"errors"`
}

// Session is one record being edited
type Session struct {
	id           string
	script       Script
	rec          entity.Record
	layout       *form.Layout
	reader       port.LinkReader
	logger       Logger
	fetchTimeout time.Duration
	now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	tracker *form.Tracker
	pending int
	idle    chan struct{}
	errs    []FetchError
	touched time.Time
	closed  bool
}

func newSession(id string, script Script, rec entity.Record, reader port.LinkReader, logger Logger, fetchTimeout time.Duration, now func() time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)

	return &Session{
		id:           id,
		script:       script,
		rec:          rec,
		layout:       script.Layout(),
		reader:       reader,
		logger:       logger,
		fetchTimeout: fetchTimeout,
		now:          now,
		ctx:          ctx,
		cancel:       cancel,
		tracker:      form.NewTracker(),
		idle:         idle,
		touched:      now(),
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Kind returns the kind of the edited record
func (s *Session) Kind() entity.Kind { return s.script.Kind() }

// Layout returns the session's field layout. Only scripts may use it, under the session lock.
func (s *Session) Layout() *form.Layout { return s.layout }

// Record returns the edited record. Only scripts may use it, under the session lock.
func (s *Session) Record() entity.Record { return s.rec }

// Link follows a link field. An empty value runs clear synchronously and
// supersedes every outstanding lookup for key. Otherwise fetch runs in the
// background; its result is applied only if no newer lookup was issued for
// key and current still returns value. Must be called with the lock held.
func (s *Session) Link(key, value string, current func() string, clear func(), fetch Fetch) {
	if strings.TrimSpace(value) == "" {
		s.tracker.Invalidate(key)
		if clear != nil {
			clear()
		}
		return
	}
	if s.closed {
		return
	}

	tk := s.tracker.Issue(key, value)
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	s.wg.Add(1)

	go s.follow(tk, current, fetch)
}

func (s *Session) follow(tk form.Ticket, current func() string, fetch Fetch) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(s.ctx, s.fetchTimeout)
	apply, err := fetch(ctx, s.reader)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.settle()

	if !s.tracker.Current(tk) || current() != tk.Value {
		s.logger.Info("Discarded stale lookup", "session", s.id, "field", tk.Key, "value", tk.Value)
		return
	}
	if err != nil {
		s.errs = append(s.errs, FetchError{Field: tk.Key, Value: tk.Value, Message: err.Error(), At: s.now()})
		s.logger.Error("Lookup failed", "session", s.id, "field", tk.Key, "value", tk.Value, "error", err)
		return
	}
	if apply != nil {
		apply()
	}
}

// settle marks one lookup finished; the lock must be held
func (s *Session) settle() {
	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}

// Wait blocks until no lookup is in flight or ctx is done
func (s *Session) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.pending == 0 {
			s.mu.Unlock()
			return nil
		}
		idle := s.idle
		s.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Change assigns a raw JSON value to field and runs the field's handlers
func (s *Session) Change(field string, raw json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if contains(systemFields, field) || contains(s.script.ReadOnly(), field) {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	}
	if !s.layout.Visible(field) {
		return fmt.Errorf("%w: %s", ErrHiddenField, field)
	}
	if err := form.Assign(s.rec, field, raw); err != nil {
		return err
	}

	s.script.Changed(s, field)
	s.touched = s.now()
	return nil
}

// ChangeItem assigns a value to a field of the item row at position idx
func (s *Session) ChangeItem(idx int, field string, raw json.RawMessage) error {
	is, ok := s.script.(ItemScript)
	if !ok {
		return ErrNoItems
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	rowID, ok := is.RowID(s, idx)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownItem, idx)
	}
	if contains(systemItemFields, field) || contains(is.ItemReadOnly(), field) {
		return fmt.Errorf("%w: items.%d.%s", ErrReadOnlyField, idx, field)
	}
	if err := form.Assign(is.Row(s, rowID), field, raw); err != nil {
		return err
	}

	is.RowChanged(s, rowID, field)
	s.touched = s.now()
	return nil
}

// AddItem appends an empty item row and returns its position
func (s *Session) AddItem() (int, error) {
	is, ok := s.script.(ItemScript)
	if !ok {
		return 0, ErrNoItems
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrSessionClosed
	}
	is.AppendRow(s)
	s.touched = s.now()
	return len(is.RowIDs(s)), nil
}

// RemoveItem deletes the item row at position idx
func (s *Session) RemoveItem(idx int) error {
	is, ok := s.script.(ItemScript)
	if !ok {
		return ErrNoItems
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	rowID, ok := is.RowID(s, idx)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownItem, idx)
	}
	is.RemoveRow(s, rowID)
	s.touched = s.now()
	return nil
}

// Snapshot copies the current state
func (s *Session) Snapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() (*Snapshot, error) {
	data, err := json.Marshal(s.rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	errs := make([]FetchError, len(s.errs))
	copy(errs, s.errs)

	return &Snapshot{
		SessionID: s.id,
		Kind:      s.script.Kind(),
		Record:    data,
		Layout:    s.layout.Snapshot(),
		Pending:   s.pending,
		Errors:    errs,
	}, nil
}

// refresh runs the open handlers; resolve also follows every filled link
func (s *Session) refresh(resolve bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.script.Refresh(s)
	if !resolve {
		return
	}

	for _, field := range s.script.Links() {
		if !form.IsEmpty(s.rec, field) {
			s.script.Changed(s, field)
		}
	}
	if is, ok := s.script.(ItemScript); ok {
		for _, rowID := range is.RowIDs(s) {
			for _, field := range is.ItemLinks() {
				if !form.IsEmpty(is.Row(s, rowID), field) {
					is.RowChanged(s, rowID, field)
				}
			}
		}
	}
}

// save validates the record and hands it to w; the caller waits for
// lookups first so that copied attributes are in place. The open handlers
// run again first so that every inactive group is cleared.
func (s *Session) save(ctx context.Context, w port.RecordWriter) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrSessionClosed
	}
	s.script.Refresh(s)

	verr := port.NewValidationError()
	for _, field := range s.layout.MissingRequired(func(f string) bool { return form.IsEmpty(s.rec, f) }) {
		verr.Add(field, "%s is required", field)
	}
	if v, ok := s.script.(Validator); ok {
		v.Validate(s, verr)
	}
	if err := verr.OrNil(); err != nil {
		return "", err
	}

	name, err := w.SaveRecord(ctx, s.rec)
	if err != nil {
		return "", err
	}
	s.touched = s.now()
	return name, nil
}

// idleSince returns the time of the last mutation
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Close cancels outstanding lookups and waits for their goroutines
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
