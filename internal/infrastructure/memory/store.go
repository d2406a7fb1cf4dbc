// Package memory is an in-process entity store. A single mutex serializes
// transactions, each of which works on a copy of the committed state that is
// swapped in only when the unit succeeds. It backs STORE_DRIVER=memory and the
// use case tests.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

type state struct {
	suppliers map[string]*entity.Supplier
	items     map[string]*entity.InventoryItem
	users     map[string]*entity.User
	sales     map[string]*entity.SaleTransaction
	restocks  map[string]*entity.RestockOrder
	activity  []*entity.ActivityLog
}

func newState() *state {
	return &state{
		suppliers: map[string]*entity.Supplier{},
		items:     map[string]*entity.InventoryItem{},
		users:     map[string]*entity.User{},
		sales:     map[string]*entity.SaleTransaction{},
		restocks:  map[string]*entity.RestockOrder{},
	}
}

func (s *state) clone() *state {
	c := &state{
		suppliers: make(map[string]*entity.Supplier, len(s.suppliers)),
		items:     make(map[string]*entity.InventoryItem, len(s.items)),
		users:     make(map[string]*entity.User, len(s.users)),
		sales:     make(map[string]*entity.SaleTransaction, len(s.sales)),
		restocks:  make(map[string]*entity.RestockOrder, len(s.restocks)),
		activity:  make([]*entity.ActivityLog, len(s.activity)),
	}
	for k, v := range s.suppliers {
		cp := *v
		c.suppliers[k] = &cp
	}
	for k, v := range s.items {
		cp := *v
		c.items[k] = &cp
	}
	for k, v := range s.users {
		cp := *v
		c.users[k] = &cp
	}
	for k, v := range s.sales {
		cp := *v
		c.sales[k] = &cp
	}
	for k, v := range s.restocks {
		cp := *v
		c.restocks[k] = &cp
	}
	for i, v := range s.activity {
		cp := *v
		c.activity[i] = &cp
	}
	return c
}

// access is how a repository reaches the state: directly inside a transaction,
// or through the store lock outside of one.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store is the in-memory entity store and its transaction runner.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New returns an empty store.
func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write outside a transaction applies one statement atomically.
func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos returns repositories that read committed state, as a pool-bound handle would.
func (s *Store) Repos() repository.Repos {
	return reposFor(s)
}

// Run executes fn against a private copy of the state and publishes it on success.
// A cancelled context discards the copy.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txAccess{st: s.st.clone()}
	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

type txAccess struct {
	st *state
}

func (t *txAccess) read(fn func(st *state) error) error  { return fn(t.st) }
func (t *txAccess) write(fn func(st *state) error) error { return fn(t.st) }

func reposFor(a access) repository.Repos {
	return repository.Repos{
		Suppliers: &supplierRepo{a: a},
		Items:     &itemRepo{a: a},
		Users:     &userRepo{a: a},
		Sales:     &saleRepo{a: a},
		Restocks:  &restockRepo{a: a},
		Activity:  &activityRepo{a: a},
		Codes:     &codeRepo{a: a},
	}
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
