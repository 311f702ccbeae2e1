package scheduling

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
)

// ===============================
// Capacity Ledger
// ===============================

// Reservation é o token devolvido por Reserve. Release é idempotente:
// a segunda liberação vira no-op logado como anomalia.
type Reservation struct {
	ID  uuid.UUID
	Key LedgerKey

	released bool
}

// Ledger guarda a ocupação por slot atrás de um único mutex: todo
// reserve/release serializa por aqui (ponto único de verdade).
type Ledger struct {
	mu         sync.Mutex
	defaultMax int
	occupancy  map[LedgerKey]int
}

func NewLedger(defaultMax int) *Ledger {
	if defaultMax <= 0 {
		defaultMax = 2
	}
	return &Ledger{
		defaultMax: defaultMax,
		occupancy:  make(map[LedgerKey]int),
	}
}

// Hydrate repõe a ocupação persistida (boot). Substitui o estado atual.
func (l *Ledger) Hydrate(counts map[LedgerKey]int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.occupancy = make(map[LedgerKey]int, len(counts))
	for k, n := range counts {
		if n < 0 {
			panic(fmt.Sprintf("ledger: negative occupancy hydrated for %s: %d", k, n))
		}
		if n > 0 {
			l.occupancy[k] = n
		}
	}
}

// Reserve incrementa a ocupação do slot se houver vaga. max <= 0 usa o
// padrão do ledger. Sem mutação em caso de recusa.
func (l *Ledger) Reserve(key LedgerKey, max int) (*Reservation, error) {
	if max <= 0 {
		max = l.defaultMax
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.occupancy[key] >= max {
		return nil, httperr.ErrBusiness("capacity_exceeded")
	}

	l.occupancy[key]++

	return &Reservation{
		ID:  uuid.New(),
		Key: key,
	}, nil
}

// Release devolve a vaga de uma reserva ainda não consumida (rollback).
func (l *Ledger) Release(res *Reservation) {
	if res == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if res.released {
		log.Printf("ledger: double release ignored for reservation %s (%s)", res.ID, res.Key)
		return
	}
	res.released = true

	l.decrementLocked(res.Key)
}

// Drop devolve a vaga de um agendamento já persistido (cancelamento).
func (l *Ledger) Drop(key LedgerKey) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.decrementLocked(key)
}

func (l *Ledger) decrementLocked(key LedgerKey) {
	n := l.occupancy[key]
	if n <= 0 {
		// ocupação negativa é bug de programação, nunca auto-corrigir
		panic(fmt.Sprintf("ledger: occupancy underflow for %s", key))
	}
	if n == 1 {
		delete(l.occupancy, key)
		return
	}
	l.occupancy[key] = n - 1
}

// Occupancy informa a ocupação atual do slot (leitura pontual).
func (l *Ledger) Occupancy(key LedgerKey) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.occupancy[key]
}
