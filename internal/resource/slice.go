package resource

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/metrics"
)

// Discipline decides when a write touches the cache.
type Discipline int

const (
	// Confirmed mutates the cache only after the server accepted the write.
	Confirmed Discipline = iota
	// Optimistic applies the write locally first and restores the previous
	// record verbatim if the server rejects it.
	Optimistic
)

func (d Discipline) String() string {
	if d == Optimistic {
		return "optimistic"
	}
	return "confirmed"
}

// ErrUnsupported is returned for operations a resource kind does not have.
var ErrUnsupported = apperr.New(apperr.KindUnknown, "operation not supported by this resource")

// Backend holds the server calls of one resource kind. Nil members are
// operations the kind does not have.
type Backend[T Identified, C, P any] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, in C) (T, error)
	Update func(ctx context.Context, id string, patch P) (T, error)
	Delete func(ctx context.Context, id string) error
}

type Options[T Identified, P any] struct {
	// Name labels logs and metrics.
	Name       string
	Discipline Discipline
	Placement  Placement
	// Apply computes the locally visible record for an optimistic Update.
	Apply func(current T, patch P) T
}

// Slice keeps a Cache in step with the backend.
//
// Every write for a record takes a sequence number; a response is applied
// only while its number is still the newest for that record, so the latest
// write owns the record. While writes for a record are in flight the slice
// keeps its last server-confirmed state, the baseline, and a failed newest
// write restores that rather than whatever an overlapping write left in the
// cache. Fetches are sequenced the same way. Reset starts a new epoch and
// every response issued before it is dropped.
type Slice[T Identified, C, P any] struct {
	backend Backend[T, C, P]
	opts    Options[T, P]
	cache   *Cache[T]
	logger  *slog.Logger

	mu       sync.Mutex
	epoch    uint64
	fetchGen uint64
	seq      map[string]uint64
	pending  map[string]int
	base     map[string]*baseline[T]
}

// baseline is what the server is known to hold for a record with writes in
// flight. It is taken when the first of them starts and moves forward with
// every write the server accepts.
type baseline[T Identified] struct {
	item    T
	index   int
	present bool
	// moved is set once an accepted write changed the record.
	moved bool
	// failed is set when the newest write was rejected; older writes
	// accepted after that must still reach the cache.
	failed bool
}

func New[T Identified, C, P any](backend Backend[T, C, P], opts Options[T, P], logger *slog.Logger) *Slice[T, C, P] {
	return &Slice[T, C, P]{
		backend: backend,
		opts:    opts,
		cache:   NewCache[T](),
		logger:  logger.With("component", "resource", "resource", opts.Name),
		seq:     make(map[string]uint64),
		pending: make(map[string]int),
		base:    make(map[string]*baseline[T]),
	}
}

func (s *Slice[T, C, P]) Name() string           { return s.opts.Name }
func (s *Slice[T, C, P]) Discipline() Discipline { return s.opts.Discipline }
func (s *Slice[T, C, P]) Get(id string) (T, bool) {
	return s.cache.Get(id)
}
func (s *Slice[T, C, P]) List() []T        { return s.cache.List() }
func (s *Slice[T, C, P]) Loading() bool    { return s.cache.Loading() }
func (s *Slice[T, C, P]) LastError() error { return s.cache.LastError() }

// FetchAll replaces the cache with the server's list.
func (s *Slice[T, C, P]) FetchAll(ctx context.Context) error {
	if s.backend.List == nil {
		return ErrUnsupported
	}
	return s.FetchWith(ctx, s.backend.List)
}

// FetchWith replaces the cache with the records list returns. Records with
// a write still in flight keep their local version.
func (s *Slice[T, C, P]) FetchWith(ctx context.Context, list func(ctx context.Context) ([]T, error)) error {
	s.mu.Lock()
	s.fetchGen++
	gen, epoch := s.fetchGen, s.epoch
	s.cache.beginFetch()
	s.mu.Unlock()

	items, err := list(ctx)
	if err != nil {
		err = apperr.Classify(s.opts.Name+".fetch", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.stale("fetch")
		return err
	}
	s.cache.endFetch()
	if gen != s.fetchGen {
		s.stale("fetch")
		return err
	}
	if err != nil {
		s.cache.setLastError(err)
		s.logger.Warn("fetch failed", "error", err)
		return err
	}
	s.cache.Replace(s.mergePendingLocked(items))
	s.cache.setLastError(nil)
	return nil
}

func (s *Slice[T, C, P]) mergePendingLocked(items []T) []T {
	if len(s.pending) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		id := item.Key()
		if s.pending[id] == 0 {
			out = append(out, item)
			continue
		}
		if local, ok := s.cache.Get(id); ok {
			out = append(out, local)
		}
	}
	return out
}

// Create validates in, sends it and inserts the created record. Malformed
// input fails with a Validation error before any network call.
func (s *Slice[T, C, P]) Create(ctx context.Context, in C) (T, error) {
	var zero T
	if s.backend.Create == nil {
		return zero, ErrUnsupported
	}
	if err := apperr.Validate(in); err != nil {
		return zero, err
	}

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	res, err := s.backend.Create(ctx, in)
	if err != nil {
		return zero, apperr.Classify(s.opts.Name+".create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.stale("create")
		return res, nil
	}
	s.cache.Insert(res, s.opts.Placement)
	return res, nil
}

// Update validates patch and sends it under the slice's discipline.
func (s *Slice[T, C, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	if s.backend.Update == nil {
		return zero, ErrUnsupported
	}
	if err := apperr.Validate(patch); err != nil {
		return zero, err
	}
	var local func(T) T
	if s.opts.Apply != nil {
		local = func(cur T) T { return s.opts.Apply(cur, patch) }
	}
	return s.Write(ctx, "update", id, local, func(ctx context.Context) (T, error) {
		return s.backend.Update(ctx, id, patch)
	})
}

// Write performs a server write for record id and stores the record the
// server returns. Under the Optimistic discipline local, when non-nil, is
// applied to the cached record before the call and undone if it fails.
func (s *Slice[T, C, P]) Write(ctx context.Context, op, id string, local func(T) T, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	s.mu.Lock()
	tk := s.beginWriteLocked(id)
	if s.opts.Discipline == Optimistic && local != nil {
		if cur, ok := s.cache.Get(id); ok {
			s.cache.Insert(local(cur), s.opts.Placement)
		}
	}
	s.mu.Unlock()

	res, err := call(ctx)
	if err != nil {
		err = apperr.Classify(s.opts.Name+"."+op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, current, ok := s.endWriteLocked(tk)
	if !ok {
		s.stale(op)
		if err != nil {
			return zero, err
		}
		return res, nil
	}
	if err == nil {
		b.item, b.present, b.moved = res, true, true
	}
	switch {
	case current && err == nil:
		s.cache.Insert(res, s.opts.Placement)
	case current:
		b.failed = true
		s.restoreLocked(op, id, b, err)
	default:
		if err == nil && b.failed {
			s.restoreLocked(op, id, b, nil)
		}
		s.stale(op)
	}
	s.releaseLocked(tk.id)
	if err != nil {
		return zero, err
	}
	return res, nil
}

// Remove deletes id under the slice's discipline.
func (s *Slice[T, C, P]) Remove(ctx context.Context, id string) error {
	if s.backend.Delete == nil {
		return ErrUnsupported
	}
	return s.Discard(ctx, "remove", id, func(ctx context.Context) error {
		return s.backend.Delete(ctx, id)
	})
}

// Discard performs a server write after which record id no longer exists.
// Optimistically removed records are restored at their old index on
// failure.
func (s *Slice[T, C, P]) Discard(ctx context.Context, op, id string, call func(ctx context.Context) error) error {
	s.mu.Lock()
	tk := s.beginWriteLocked(id)
	if s.opts.Discipline == Optimistic {
		s.cache.Remove(id)
	}
	s.mu.Unlock()

	err := call(ctx)
	if err != nil {
		err = apperr.Classify(s.opts.Name+"."+op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, current, ok := s.endWriteLocked(tk)
	if !ok {
		s.stale(op)
		return err
	}
	if err == nil {
		b.present, b.moved = false, true
	}
	switch {
	case current && err == nil:
		s.cache.Remove(id)
	case current:
		b.failed = true
		s.restoreLocked(op, id, b, err)
	default:
		if err == nil && b.failed {
			s.restoreLocked(op, id, b, nil)
		}
		s.stale(op)
	}
	s.releaseLocked(tk.id)
	return err
}

// Reset empties the cache and drops every response still in flight.
func (s *Slice[T, C, P]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.fetchGen++
	s.seq = make(map[string]uint64)
	s.pending = make(map[string]int)
	s.base = make(map[string]*baseline[T])
	s.cache.Reset()
}

type ticket struct {
	id    string
	seq   uint64
	epoch uint64
}

func (s *Slice[T, C, P]) beginWriteLocked(id string) ticket {
	if s.pending[id] == 0 {
		item, present := s.cache.Get(id)
		s.base[id] = &baseline[T]{item: item, index: s.cache.Index(id), present: present}
	} else if b := s.base[id]; b != nil {
		b.failed = false
	}
	s.seq[id]++
	s.pending[id]++
	return ticket{id: id, seq: s.seq[id], epoch: s.epoch}
}

// endWriteLocked returns the baseline of tk's record and whether tk is
// still its newest write. ok is false for writes issued before a Reset.
func (s *Slice[T, C, P]) endWriteLocked(tk ticket) (b *baseline[T], current, ok bool) {
	if tk.epoch != s.epoch {
		return nil, false, false
	}
	b = s.base[tk.id]
	if b == nil {
		return nil, false, false
	}
	return b, s.seq[tk.id] == tk.seq, true
}

func (s *Slice[T, C, P]) releaseLocked(id string) {
	if s.pending[id]--; s.pending[id] <= 0 {
		delete(s.pending, id)
		delete(s.base, id)
	}
}

// restoreLocked puts the baseline back into the cache, at its old index
// when the record had one. err is nil when an older accepted write is
// applied after the newest one failed.
func (s *Slice[T, C, P]) restoreLocked(op, id string, b *baseline[T], err error) {
	switch {
	case !b.present:
		s.cache.Remove(id)
	case b.index >= 0:
		s.cache.InsertAt(b.item, b.index)
	default:
		s.cache.Insert(b.item, s.opts.Placement)
	}
	if err != nil && (s.opts.Discipline == Optimistic || b.moved) {
		s.rollback(op, id, err)
	}
}

func (s *Slice[T, C, P]) stale(op string) {
	metrics.StaleResponsesTotal.WithLabelValues(s.opts.Name).Inc()
	s.logger.Debug("discarding stale response", "op", op)
}

func (s *Slice[T, C, P]) rollback(op, id string, err error) {
	metrics.RollbacksTotal.WithLabelValues(s.opts.Name).Inc()
	s.logger.Info("write rejected, restored cached record", "op", op, "id", id, "error", err)
}
