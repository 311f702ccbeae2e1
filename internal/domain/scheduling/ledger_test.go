package scheduling

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
)

func testKey(hour int) LedgerKey {
	return LedgerKey{PetshopID: 1, Service: ServiceBathGroom, Date: "2026-09-10", StartHour: hour}
}

func TestLedgerReserve_RespectsMax(t *testing.T) {
	ledger := NewLedger(2)
	key := testKey(9)

	r1, err := ledger.Reserve(key, 0)
	require.NoError(t, err)
	require.NotEqual(t, r1.ID.String(), "00000000-0000-0000-0000-000000000000")

	_, err = ledger.Reserve(key, 0)
	require.NoError(t, err)

	_, err = ledger.Reserve(key, 0)
	require.Error(t, err)
	code, _ := httperr.BusinessCode(err)
	require.Equal(t, "capacity_exceeded", code)

	// recusa não muta a ocupação
	require.Equal(t, 2, ledger.Occupancy(key))

	// slots diferentes não competem entre si
	_, err = ledger.Reserve(testKey(10), 0)
	require.NoError(t, err)
}

func TestLedgerRelease_IsIdempotent(t *testing.T) {
	ledger := NewLedger(2)
	key := testKey(9)

	res, err := ledger.Reserve(key, 0)
	require.NoError(t, err)
	require.Equal(t, 1, ledger.Occupancy(key))

	ledger.Release(res)
	require.Equal(t, 0, ledger.Occupancy(key))

	// segunda liberação do mesmo token é no-op, nunca negativa
	ledger.Release(res)
	require.Equal(t, 0, ledger.Occupancy(key))

	ledger.Release(nil)
}

func TestLedgerDrop_PanicsOnUnderflow(t *testing.T) {
	ledger := NewLedger(2)
	key := testKey(9)

	require.Panics(t, func() {
		ledger.Drop(key)
	})
}

func TestLedgerHydrate(t *testing.T) {
	ledger := NewLedger(2)

	ledger.Hydrate(map[LedgerKey]int{
		testKey(9):  2,
		testKey(10): 1,
		testKey(13): 0,
	})

	require.Equal(t, 2, ledger.Occupancy(testKey(9)))
	require.Equal(t, 1, ledger.Occupancy(testKey(10)))
	require.Equal(t, 0, ledger.Occupancy(testKey(13)))

	_, err := ledger.Reserve(testKey(9), 0)
	require.Error(t, err)

	require.Panics(t, func() {
		ledger.Hydrate(map[LedgerKey]int{testKey(14): -1})
	})
}

func TestLedgerReserve_ConcurrentLastUnit(t *testing.T) {
	ledger := NewLedger(2)
	key := testKey(9)

	_, err := ledger.Reserve(key, 0)
	require.NoError(t, err)

	// 50 goroutines disputam a última vaga; exatamente uma ganha
	const contenders = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Reserve(key, 0); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, granted)
	require.Equal(t, 2, ledger.Occupancy(key))
}

func TestLockMapAcquire(t *testing.T) {
	locks := NewLockMap()

	// chaves duplicadas não podem travar duas vezes
	unlock := locks.Acquire("a", "b", "a")
	unlock()

	// reentrada após unlock funciona
	unlock = locks.Acquire("a")
	unlock()
}

func TestLockMapAcquire_SerializesSameKey(t *testing.T) {
	locks := NewLockMap()

	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Acquire("slot")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, 100, counter)
}
