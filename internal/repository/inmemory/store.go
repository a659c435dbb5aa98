// Package inmemory is a map-backed implementation of the domain repositories.
// It emulates the row-level guarantees the PostgreSQL schema gives the gorm
// repositories (compare-and-set updates, unique and foreign key constraints,
// transaction rollback) so usecases can be exercised without a database.
package inmemory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"hospital-management-api/internal/domain/entity"
	domainRepo "hospital-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type tables struct {
	users         map[uuid.UUID]entity.User
	doctors       map[uuid.UUID]entity.DoctorProfile
	patients      map[uuid.UUID]entity.PatientProfile
	appointments  map[uuid.UUID]entity.Appointment
	prescriptions map[uuid.UUID]entity.Prescription
	wards         map[uuid.UUID]entity.Ward
	beds          map[uuid.UUID]entity.Bed
	allocations   map[uuid.UUID]entity.BedAllocation
	bedRequests   map[uuid.UUID]entity.BedRequest
	bills         map[uuid.UUID]entity.Bill
	notifications []entity.Notification
	nextNotifyID  int64
}

func newTables() *tables {
	return &tables{
		users:         make(map[uuid.UUID]entity.User),
		doctors:       make(map[uuid.UUID]entity.DoctorProfile),
		patients:      make(map[uuid.UUID]entity.PatientProfile),
		appointments:  make(map[uuid.UUID]entity.Appointment),
		prescriptions: make(map[uuid.UUID]entity.Prescription),
		wards:         make(map[uuid.UUID]entity.Ward),
		beds:          make(map[uuid.UUID]entity.Bed),
		allocations:   make(map[uuid.UUID]entity.BedAllocation),
		bedRequests:   make(map[uuid.UUID]entity.BedRequest),
		bills:         make(map[uuid.UUID]entity.Bill),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		users:         maps.Clone(t.users),
		doctors:       maps.Clone(t.doctors),
		patients:      maps.Clone(t.patients),
		appointments:  maps.Clone(t.appointments),
		prescriptions: maps.Clone(t.prescriptions),
		wards:         maps.Clone(t.wards),
		beds:          maps.Clone(t.beds),
		allocations:   maps.Clone(t.allocations),
		bedRequests:   maps.Clone(t.bedRequests),
		bills:         maps.Clone(t.bills),
		notifications: slices.Clone(t.notifications),
		nextNotifyID:  t.nextNotifyID,
	}
}

// Store holds every table. Repository calls lock mu individually;
// transactions additionally hold txMu for their whole duration.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *tables
	seq  int64

	failures map[string]error
}

func NewStore() *Store {
	return &Store{
		data:     newTables(),
		failures: make(map[string]error),
	}
}

// FailOn makes the next call of the named repository operation
// (for example "notifications.Create") return err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// injected must be called with mu held
func (s *Store) injected(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// stamp returns strictly increasing timestamps so "latest" orderings are
// deterministic even when rows are created within the same clock tick.
// Must be called with mu held.
func (s *Store) stamp() time.Time {
	s.seq++
	return time.Now().Add(time.Duration(s.seq) * time.Microsecond)
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint, Message: "insert or update violates foreign key constraint"}
}

type transactor struct {
	s *Store
}

// Transactor returns a domain Transactor whose units of work are
// serialized and rolled back from a snapshot when fn fails.
func (s *Store) Transactor() domainRepo.Transactor {
	return &transactor{s: s}
}

func (t *transactor) DB(ctx context.Context) *gorm.DB {
	return nil
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	t.s.mu.Lock()
	snapshot := t.s.data.clone()
	t.s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			t.s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			t.s.restore(snapshot)
		}
	}()

	return fn(nil)
}

func (s *Store) restore(snapshot *tables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = snapshot
}
