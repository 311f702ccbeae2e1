package scheduling

import (
	"sort"
	"sync"
)

// LockMap serializa a decisão de admissão por escopo (slot, pet).
// Os locks são adquiridos em ordem determinística para evitar deadlock
// entre pedidos concorrentes que compartilham escopos.
type LockMap struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockMap() *LockMap {
	return &LockMap{locks: make(map[string]*sync.Mutex)}
}

func (m *LockMap) lockFor(key string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

// Acquire trava todos os escopos e devolve a função de unlock.
func (m *LockMap) Acquire(keys ...string) func() {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			sorted = append(sorted, k)
		}
	}
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, k := range sorted {
		l := m.lockFor(k)
		l.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
