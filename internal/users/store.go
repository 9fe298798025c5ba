package users

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/aDevMister/my-assesment/pkg/logger"
	"github.com/aDevMister/my-assesment/pkg/metrics"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ErrInvalidID is returned for operations addressed at a non-positive id.
var ErrInvalidID = errors.New("user id must be positive")

// Failure is the most recent operation that did not succeed.
type Failure struct {
	Op  string
	Err error
	At  time.Time
}

// Store is the single owner of the user collection. Presentation code reads
// copies and requests every change through Fetch, Add, Update and Delete.
type Store struct {
	remote Remote
	log    *logger.Component

	mu           sync.RWMutex
	users        []models.User
	pending      []Entry
	loaded       bool
	lastFailure  *Failure
	appliedFetch uint64

	fetchSeq atomic.Uint64
	locks    idLocks
}

// NewStore returns an empty store reconciling against remote.
func NewStore(remote Remote) *Store {
	return &Store{
		remote: remote,
		log:    logger.Named("store"),
		users:  []models.User{},
	}
}

// Fetch replaces the whole collection with the remote list. A response that
// arrives after a newer fetch has already been applied is dropped and the
// current collection is returned instead.
func (s *Store) Fetch(ctx context.Context) ([]models.User, error) {
	seq := s.fetchSeq.Add(1)
	start := time.Now()
	list, err := s.remote.List(ctx)
	s.observe("fetch", start, err)
	if err != nil {
		s.fail("fetch", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.appliedFetch {
		metrics.StaleFetchesDiscarded.Inc()
		s.log.Debugf("dropping fetch #%d, #%d already applied", seq, s.appliedFetch)
		return s.copyLocked(), nil
	}
	s.appliedFetch = seq
	s.users = lo.UniqBy(list, func(u models.User) int { return u.ID })
	s.loaded = true
	s.lastFailure = nil
	metrics.StoreUsers.Set(float64(len(s.users)))
	s.log.Infof("fetched %d users", len(s.users))
	return s.copyLocked(), nil
}

// Add creates a user remotely and appends the server's representation. While
// the call is in flight the candidate is visible through Pending.
func (s *Store) Add(ctx context.Context, c models.Candidate) (models.User, error) {
	localID := uuid.New()
	s.mu.Lock()
	s.pending = append(s.pending, Entry{
		State:   StatePending,
		LocalID: localID,
		User:    models.User{ID: c.ID, Name: c.Name, Email: c.Email},
	})
	s.mu.Unlock()

	start := time.Now()
	created, err := s.remote.Create(ctx, c)
	s.observe("add", start, err)
	if err != nil {
		s.mu.Lock()
		s.dropPendingLocked(localID)
		s.mu.Unlock()
		s.fail("add", err)
		return models.User{}, err
	}

	unlock := s.locks.lock(created.ID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, idx, ok := lo.FindIndexOf(s.users, func(u models.User) bool { return u.ID == created.ID }); ok {
		s.log.Warnf("server returned existing id %d on create, replacing entry", created.ID)
		s.users[idx] = created
	} else {
		s.users = append(s.users, created)
	}
	s.dropPendingLocked(localID)
	metrics.StoreUsers.Set(float64(len(s.users)))
	s.log.Infof("added user %d", created.ID)
	return created, nil
}

// Update replaces the user remotely and then in place locally. An id that is
// not held locally is left alone; the server stays authoritative.
func (s *Store) Update(ctx context.Context, u models.User) (models.User, error) {
	if u.ID <= 0 {
		return models.User{}, ErrInvalidID
	}
	unlock := s.locks.lock(u.ID)
	defer unlock()

	start := time.Now()
	echoed, err := s.remote.Replace(ctx, u)
	s.observe("update", start, err)
	if err != nil {
		s.fail("update", err)
		return models.User{}, err
	}

	applied := u
	if echoed != nil {
		applied = *echoed
		applied.ID = u.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, idx, ok := lo.FindIndexOf(s.users, func(x models.User) bool { return x.ID == u.ID }); ok {
		s.users[idx] = applied
		s.log.Infof("updated user %d", u.ID)
	} else {
		s.log.Debugf("updated user %d is not held locally", u.ID)
	}
	return applied, nil
}

// Delete removes the user remotely and then locally. Deleting an id that is
// no longer held succeeds without touching the collection.
func (s *Store) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidID
	}
	unlock := s.locks.lock(id)
	defer unlock()

	start := time.Now()
	err := s.remote.Delete(ctx, id)
	s.observe("delete", start, err)
	if err != nil {
		s.fail("delete", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = lo.Reject(s.users, func(u models.User, _ int) bool { return u.ID == id })
	metrics.StoreUsers.Set(float64(len(s.users)))
	s.log.Infof("deleted user %d", id)
	return nil
}

// Users returns a copy of the collection in insertion/fetch order.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Get returns the user with the given id.
func (s *Store) Get(id int) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.users, func(u models.User) bool { return u.ID == id })
}

// Pending lists creations still waiting for the server.
func (s *Store) Pending() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.pending))
	copy(out, s.pending)
	return out
}

// Entries lists confirmed users followed by pending creations.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.users)+len(s.pending))
	for _, u := range s.users {
		out = append(out, Entry{State: StateConfirmed, User: u})
	}
	return append(out, s.pending...)
}

// Loaded reports whether a fetch has succeeded at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LastFailure returns the most recent failed operation, or nil. It is
// cleared by ClearFailure and by the next successful Fetch.
func (s *Store) LastFailure() *Failure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastFailure == nil {
		return nil
	}
	f := *s.lastFailure
	return &f
}

// LastError is the error of LastFailure, or nil.
func (s *Store) LastError() error {
	if f := s.LastFailure(); f != nil {
		return f.Err
	}
	return nil
}

// ClearFailure forgets the recorded failure once the presentation has shown it.
func (s *Store) ClearFailure() {
	s.mu.Lock()
	s.lastFailure = nil
	s.mu.Unlock()
}

func (s *Store) copyLocked() []models.User {
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) dropPendingLocked(localID uuid.UUID) {
	s.pending = lo.Reject(s.pending, func(e Entry, _ int) bool { return e.LocalID == localID })
}

func (s *Store) fail(op string, err error) {
	s.log.Errorf("%s failed: %v", op, err)
	s.mu.Lock()
	s.lastFailure = &Failure{Op: op, Err: err, At: time.Now()}
	s.mu.Unlock()
}

func (s *Store) observe(op string, start time.Time, err error) {
	metrics.StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.StoreOperations.WithLabelValues(op, outcome).Inc()
}

// idLocks serializes mutations per user id.
type idLocks struct {
	mu sync.Mutex
	m  map[int]*idLock
}

type idLock struct {
	sync.Mutex
	refs int
}

func (l *idLocks) lock(id int) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[int]*idLock)
	}
	e, ok := l.m[id]
	if !ok {
		e = &idLock{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.Lock()
	return func() {
		e.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
