package services_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm/internal/domain"
	"crm/internal/repos"
	"crm/internal/services"
)

func TestReserve_ExactStockThenOneMore(t *testing.T) {
	e := newEnv(t)
	e.product(t, "p1", "Water 20L", 3)
	ctx := context.Background()

	require.NoError(t, e.ledger.Reserve(ctx, "p1", 3))
	assert.Equal(t, 0, e.stock(t, "p1"))

	err := e.ledger.Reserve(ctx, "p1", 1)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Water 20L", se.ProductName)
	assert.Equal(t, 1, se.Requested)
	assert.Equal(t, 0, se.Available)
	assert.Contains(t, err.Error(), "Water 20L")
	assert.Equal(t, 0, e.stock(t, "p1"))
}

func TestReserve_Validation(t *testing.T) {
	e := newEnv(t)
	e.product(t, "p1", "Water", 3)
	ctx := context.Background()

	require.ErrorIs(t, e.ledger.Reserve(ctx, "p1", 0), domain.ErrInvalidInput)
	require.ErrorIs(t, e.ledger.Reserve(ctx, "p1", -2), domain.ErrInvalidInput)
	require.ErrorIs(t, e.ledger.Reserve(ctx, "missing", 1), domain.ErrNotFound)
	assert.Equal(t, 3, e.stock(t, "p1"))
}

func TestAdjust_NeverNegative(t *testing.T) {
	e := newEnv(t)
	e.product(t, "p1", "Ice", 2)
	ctx := context.Background()

	require.NoError(t, e.ledger.Adjust(ctx, "p1", 5))
	assert.Equal(t, 7, e.stock(t, "p1"))
	require.ErrorIs(t, e.ledger.Adjust(ctx, "p1", -8), domain.ErrInsufficientStock)
	assert.Equal(t, 7, e.stock(t, "p1"))
	require.NoError(t, e.ledger.Adjust(ctx, "p1", -7))
	assert.Equal(t, 0, e.stock(t, "p1"))
}

func TestApplyBatch_StopsAtFirstFailureAndRollsBack(t *testing.T) {
	e := newEnv(t)
	e.product(t, "a", "Alpha", 5)
	e.product(t, "b", "Beta", 1)
	e.product(t, "c", "Gamma", 0)

	err := e.ledger.InTx(context.Background(), "test.batch", func(ctx context.Context, tx *repos.Tx) error {
		return e.ledger.ApplyBatch(ctx, tx, []services.Delta{
			{ProductID: "a", Delta: -2},
			{ProductID: "b", Delta: -2},
			{ProductID: "c", Delta: -1},
		})
	})
	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "b", se.ProductID)
	assert.Equal(t, 5, e.stock(t, "a"))
	assert.Equal(t, 1, e.stock(t, "b"))
}

func TestApplyBatch_ReleaseToDeletedProductIsSkipped(t *testing.T) {
	e := newEnv(t)
	e.product(t, "a", "Alpha", 5)

	err := e.ledger.InTx(context.Background(), "test.release", func(ctx context.Context, tx *repos.Tx) error {
		return e.ledger.ApplyBatch(ctx, tx, []services.Delta{
			{ProductID: "gone", Delta: 3, Dropped: true},
			{ProductID: "a", Delta: 1},
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 6, e.stock(t, "a"))
}

func TestAdjust_MissingProductIsNotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, delta := range []int{5, -5} {
		err := e.ledger.Adjust(ctx, "nope", delta)
		var nf *domain.NotFoundError
		require.True(t, errors.As(err, &nf), "delta %d: %v", delta, err)
		assert.Equal(t, "product", nf.Kind)
	}
}

func TestReserve_UpperBound(t *testing.T) {
	e := newEnv(t)
	e.product(t, "p1", "Water", 3)

	require.ErrorIs(t, e.ledger.Reserve(context.Background(), "p1", math.MaxInt), domain.ErrInvalidInput)
	assert.Equal(t, 3, e.stock(t, "p1"))
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	e := newEnv(t)
	e.product(t, "p1", "Water", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, short := 0, 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.ledger.Reserve(context.Background(), "p1", 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, short)
	assert.Equal(t, 0, e.stock(t, "p1"))
}

func TestAvailability_CancelledContextIsUnavailable(t *testing.T) {
	e := newEnv(t)
	e.product(t, "p1", "Water", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.ledger.Availability(ctx, "p1")
	require.ErrorIs(t, err, domain.ErrUnavailable)
}
