// Package memstore implementa los puertos de repositorio en memoria para pruebas de casos de uso.
// Las transacciones se serializan con un mutex (equivalente a los bloqueos de fila) y se revierten
// restaurando una copia del estado si el callback falla.
package memstore

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/domain/repository"
)

// ErrMalformedID replica el error 22P02 de Postgres al comparar una columna UUID con un texto cualquiera.
// No corresponde a ningún sentinel de dominio: si llega al handler responde 500.
var ErrMalformedID = errors.New("invalid input syntax for type uuid")

func checkID(id string) error {
	if !domain.ValidID(id) {
		return ErrMalformedID
	}
	return nil
}

// Store estado compartido por todos los repos en memoria.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	items    map[string]*entity.Item
	ops      map[string]*entity.ItemOperation
	invoices map[string]*entity.Invoice
	lines    map[string]*entity.InvoiceLine
	checks   map[string]*entity.Check
	users    map[string]*entity.User

	// FailCreateLine, si no es nil, se devuelve al crear la línea número FailCreateLineAt (1-based).
	FailCreateLine   error
	FailCreateLineAt int
	createdLines     int
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		items:    map[string]*entity.Item{},
		ops:      map[string]*entity.ItemOperation{},
		invoices: map[string]*entity.Invoice{},
		lines:    map[string]*entity.InvoiceLine{},
		checks:   map[string]*entity.Check{},
		users:    map[string]*entity.User{},
	}
}

// Items devuelve el repo de ítems fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Invoices devuelve el repo de facturas fuera de transacción.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// Checks devuelve el repo de cheques.
func (s *Store) Checks() *CheckRepo { return &CheckRepo{s: s} }

// Users devuelve el repo de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// TxRunner devuelve un runner transaccional sobre el store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// Quantity devuelve la existencia actual del ítem (-1 si no existe).
func (s *Store) Quantity(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return -1
	}
	return it.Quantity
}

// InvoiceCount número de facturas guardadas.
func (s *Store) InvoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}

// LineCount número de líneas guardadas.
func (s *Store) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

type snapshot struct {
	items    map[string]*entity.Item
	ops      map[string]*entity.ItemOperation
	invoices map[string]*entity.Invoice
	lines    map[string]*entity.InvoiceLine
	checks   map[string]*entity.Check
	users    map[string]*entity.User
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		items:    cloneMap(s.items),
		ops:      cloneMap(s.ops),
		invoices: cloneMap(s.invoices),
		lines:    cloneMap(s.lines),
		checks:   cloneMap(s.checks),
		users:    cloneMap(s.users),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items, s.ops, s.invoices = snap.items, snap.ops, snap.invoices
	s.lines, s.checks, s.users = snap.lines, snap.checks, snap.users
}

// TxRunner implementa inventory.TxRunner y billing.BillingTxRunner en memoria.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con el repo de ítems; revierte el estado si fn falla.
func (r *TxRunner) Run(ctx context.Context, fn func(itemRepo repository.ItemRepository) error) error {
	return r.inTx(func() error { return fn(&ItemRepo{s: r.s}) })
}

// RunBilling ejecuta fn con los repos de ítems y facturas; revierte el estado si fn falla.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	return r.inTx(func() error { return fn(&ItemRepo{s: r.s}, &InvoiceRepo{s: r.s}) })
}

func (r *TxRunner) inTx(fn func() error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	snap := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
