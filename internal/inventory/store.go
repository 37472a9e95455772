// Package inventory keeps the client-side product state: the collection last
// synchronized with the inventory API, the active filter and the filtered
// view derived from both.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rogerio-castellano/inventory-dashboard/internal/errx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

const (
	MsgLoadFailed   = "Error fetching products."
	MsgUnknownError = "An unknown error occurred."
)

// Gateway performs product CRUD against the remote API.
type Gateway interface {
	List(ctx context.Context) ([]models.ProductWithCategory, error)
	Create(ctx context.Context, p models.NewProduct) (models.ProductWithCategory, error)
	Update(ctx context.Context, p models.Product) (models.ProductWithCategory, error)
	Delete(ctx context.Context, id int) error
}

type EventKind string

const (
	EventLoad   EventKind = "load"
	EventCreate EventKind = "create"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
	EventFilter EventKind = "filter"
	EventClear  EventKind = "clear_error"
)

// Snapshot is a consistent copy of the store state.
type Snapshot struct {
	Products     []models.ProductWithCategory
	Filtered     []models.ProductWithCategory
	Criteria     models.FilterCriteria
	ErrorMessage string
}

// Event describes a completed transition. Err is nil on success. Product is
// the record returned by the API for create and update.
type Event struct {
	Kind      EventKind
	ProductID int
	Product   models.ProductWithCategory
	Err       error
	Stale     bool
	Snapshot  Snapshot
}

// OpError is returned by failed store operations. Message is the text the
// store recorded for display when the operation failed.
type OpError struct {
	Op      EventKind
	Message string
	Err     error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s product: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Message returns the display message of a failed store operation.
func Message(err error) string {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return MsgUnknownError
}

// Observer is called after every completed transition, outside the store
// lock.
type Observer func(Event)

// Store owns the product collection. Gateway calls run without holding the
// lock; their results are applied to the latest collection.
type Store struct {
	gateway Gateway

	mu         sync.Mutex
	collection []models.ProductWithCategory
	criteria   models.FilterCriteria
	view       []models.ProductWithCategory
	errMsg     string

	loadIssued  uint64
	loadApplied uint64

	// Mutations applied while loads are in flight, replayed onto their
	// responses. journalBase is the position of journal[0].
	loadsInFlight int
	journal       []mutation
	journalBase   int

	obsMu     sync.Mutex
	observers []subscription
	nextObsID int
}

type mutation struct {
	product models.ProductWithCategory
	id      int
	deleted bool
}

type subscription struct {
	id       int
	observer Observer
}

func NewStore(gateway Gateway) *Store {
	return &Store{
		gateway:    gateway,
		collection: []models.ProductWithCategory{},
		view:       []models.ProductWithCategory{},
	}
}

// Subscribe registers o and returns a function removing it.
func (s *Store) Subscribe(o Observer) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, subscription{id: id, observer: o})
	return func() {
		s.obsMu.Lock()
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool { return sub.id == id })
		s.obsMu.Unlock()
	}
}

// Load replaces the collection with the server's. A response is discarded
// when a load issued later has already been applied. Mutations applied while
// the request was in flight are replayed onto the response.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loadIssued++
	seq := s.loadIssued
	mark := s.beginLoadLocked()
	s.mu.Unlock()

	products, err := s.gateway.List(ctx)

	s.mu.Lock()
	pending := s.endLoadLocked(mark)
	if err != nil {
		s.errMsg = MsgLoadFailed
		ev := Event{Kind: EventLoad, Err: err, Snapshot: s.snapshotLocked()}
		s.mu.Unlock()
		logx.Warn().Err(err).Msg("load products failed")
		s.notify(ev)
		return &OpError{Op: EventLoad, Message: MsgLoadFailed, Err: err}
	}
	if seq < s.loadApplied {
		ev := Event{Kind: EventLoad, Stale: true, Snapshot: s.snapshotLocked()}
		s.mu.Unlock()
		logx.Debug().Uint64("seq", seq).Msg("discarding superseded product load")
		s.notify(ev)
		return nil
	}
	s.loadApplied = seq
	s.collection = replay(products, pending)
	s.recomputeLocked()
	ev := Event{Kind: EventLoad, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	logx.Debug().Int("products", len(products)).Msg("products loaded")
	s.notify(ev)
	return nil
}

// Create adds the product returned by the server. If a concurrent load has
// already brought in a record with the same id it is replaced in place.
func (s *Store) Create(ctx context.Context, p models.NewProduct) (models.ProductWithCategory, error) {
	created, err := s.gateway.Create(ctx, p)
	if err != nil {
		return models.ProductWithCategory{}, s.fail(EventCreate, 0, "creating", err)
	}

	s.mu.Lock()
	s.upsertLocked(created)
	s.recomputeLocked()
	ev := Event{Kind: EventCreate, ProductID: created.ID, Product: created, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	logx.Debug().Int("product_id", created.ID).Msg("product created")
	s.notify(ev)
	return created, nil
}

// Update replaces the record with the server's version, keeping its position.
func (s *Store) Update(ctx context.Context, p models.Product) (models.ProductWithCategory, error) {
	updated, err := s.gateway.Update(ctx, p)
	if err != nil {
		return models.ProductWithCategory{}, s.fail(EventUpdate, p.ID, "updating", err)
	}

	s.mu.Lock()
	s.upsertLocked(updated)
	s.recomputeLocked()
	ev := Event{Kind: EventUpdate, ProductID: updated.ID, Product: updated, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	logx.Debug().Int("product_id", updated.ID).Msg("product updated")
	s.notify(ev)
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	if err := s.gateway.Delete(ctx, id); err != nil {
		return s.fail(EventDelete, id, "deleting", err)
	}

	s.mu.Lock()
	s.collection = removeID(s.collection, id)
	s.recordLocked(mutation{id: id, deleted: true})
	s.recomputeLocked()
	ev := Event{Kind: EventDelete, ProductID: id, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	logx.Debug().Int("product_id", id).Msg("product deleted")
	s.notify(ev)
	return nil
}

// SetFilter replaces the criteria and recomputes the view from the current
// collection.
func (s *Store) SetFilter(c models.FilterCriteria) {
	s.mu.Lock()
	s.criteria = c
	s.recomputeLocked()
	ev := Event{Kind: EventFilter, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	s.notify(ev)
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	ev := Event{Kind: EventClear, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	s.notify(ev)
}

// FilteredView returns a copy of the products matching the active criteria.
func (s *Store) FilteredView() []models.ProductWithCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.view)
}

// Products returns a copy of the whole collection.
func (s *Store) Products() []models.ProductWithCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.collection)
}

func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collection)
}

func (s *Store) Criteria() models.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// ErrorMessage returns the message of the last failure, or "" once cleared.
func (s *Store) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) fail(kind EventKind, id int, verb string, err error) error {
	msg := describe(verb, err)

	s.mu.Lock()
	s.errMsg = msg
	ev := Event{Kind: kind, ProductID: id, Err: err, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	logx.Warn().Err(err).Str("op", string(kind)).Int("product_id", id).Msg("product operation failed")
	s.notify(ev)
	return &OpError{Op: kind, Message: msg, Err: err}
}

// describe renders err for display. Server messages are kept verbatim.
func describe(verb string, err error) string {
	switch errx.Kind(err) {
	case errx.KindValidation, errx.KindNotFound:
		return fmt.Sprintf("Error while %s product: %s", verb, err.Error())
	default:
		return MsgUnknownError
	}
}

func (s *Store) upsertLocked(p models.ProductWithCategory) {
	s.collection = upsert(s.collection, p)
	s.recordLocked(mutation{product: p})
}

func (s *Store) beginLoadLocked() int {
	s.loadsInFlight++
	return s.journalBase + len(s.journal)
}

// endLoadLocked returns the mutations recorded since mark. The journal is
// dropped once no load is in flight.
func (s *Store) endLoadLocked(mark int) []mutation {
	pending := slices.Clone(s.journal[mark-s.journalBase:])
	s.loadsInFlight--
	if s.loadsInFlight == 0 {
		s.journalBase += len(s.journal)
		s.journal = nil
	}
	return pending
}

func (s *Store) recordLocked(m mutation) {
	if s.loadsInFlight > 0 {
		s.journal = append(s.journal, m)
	}
}

func replay(products []models.ProductWithCategory, pending []mutation) []models.ProductWithCategory {
	next := slices.Clone(products)
	if next == nil {
		next = []models.ProductWithCategory{}
	}
	for _, m := range pending {
		if m.deleted {
			next = removeID(next, m.id)
		} else {
			next = upsert(next, m.product)
		}
	}
	return next
}

func upsert(collection []models.ProductWithCategory, p models.ProductWithCategory) []models.ProductWithCategory {
	next := slices.Clone(collection)
	if i := slices.IndexFunc(next, func(q models.ProductWithCategory) bool { return q.ID == p.ID }); i >= 0 {
		next[i] = p
	} else {
		next = append(next, p)
	}
	return next
}

func removeID(collection []models.ProductWithCategory, id int) []models.ProductWithCategory {
	return slices.DeleteFunc(slices.Clone(collection), func(p models.ProductWithCategory) bool {
		return p.ID == id
	})
}

func (s *Store) recomputeLocked() {
	s.view = FilterCollection(s.collection, s.criteria)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Products:     slices.Clone(s.collection),
		Filtered:     slices.Clone(s.view),
		Criteria:     s.criteria,
		ErrorMessage: s.errMsg,
	}
}

func (s *Store) notify(ev Event) {
	s.obsMu.Lock()
	subs := slices.Clone(s.observers)
	s.obsMu.Unlock()

	for _, sub := range subs {
		sub.observer(ev)
	}
}
