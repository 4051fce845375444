package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm/internal/domain"
)

func li(pairs ...any) domain.LineItems {
	var out domain.LineItems
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.LineItem{ProductID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}

func TestStockDeltas(t *testing.T) {
	pending, cancelled := domain.StatusPending, domain.StatusCancelled

	cases := []struct {
		name       string
		prev, next domain.LineItems
		from, to   domain.Status
		want       []Delta
	}{
		{"create", nil, li("a", 2, "b", 1), pending, pending, []Delta{{"a", -2, false}, {"b", -1, false}}},
		{"reduce 5 to 2", li("a", 5), li("a", 2), pending, pending, []Delta{{"a", 3, false}}},
		{"add new product", li("a", 1), li("a", 1, "b", 4), pending, pending, []Delta{{"b", -4, false}}},
		{"drop product", li("a", 1, "b", 4), li("a", 1), pending, pending, []Delta{{"b", 4, true}}},
		{"order follows next then dropped", li("x", 1, "a", 2), li("b", 1, "a", 3), pending, pending,
			[]Delta{{"b", -1, false}, {"a", -1, false}, {"x", 1, true}}},
		{"repeats aggregate", li("a", 1), li("a", 2, "a", 2), pending, pending, []Delta{{"a", -3, false}}},
		{"cancel", li("a", 5), li("a", 5), pending, cancelled, []Delta{{"a", 5, true}}},
		{"reopen", li("a", 5), li("a", 2), cancelled, pending, []Delta{{"a", -2, false}}},
		{"stay cancelled", li("a", 5), li("a", 9), cancelled, cancelled, nil},
		{"unchanged", li("a", 5), li("a", 5), pending, domain.StatusCompleted, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stockDeltas(tc.prev, tc.from, tc.next, tc.to))
		})
	}
}

func TestFault(t *testing.T) {
	require.NoError(t, fault("x", nil, nil))

	nf := domain.NotFound("order", "o1")
	require.Equal(t, nf, fault("x", nf, nil))

	wrapped := fmt.Errorf("repo: %w", &domain.StockError{ProductName: "Ice"})
	require.Equal(t, wrapped, fault("x", wrapped, nil))

	raw := errors.New("driver: connection reset by peer")
	err := fault("x", raw, nil)
	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.NotContains(t, err.Error(), "connection reset")
}

func TestAuthorizeOwner(t *testing.T) {
	c := &domain.Client{ID: "c1", Owner: " u1 "}
	require.NoError(t, AuthorizeOwner(c, domain.Identity{ID: "u1"}))

	err := AuthorizeOwner(c, domain.Identity{ID: "u2"})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), "client c1")

	require.ErrorIs(t, AuthorizeOwner(c, domain.Identity{}), domain.ErrForbidden)
	require.ErrorIs(t, AuthorizeOwner(&domain.Order{ID: "o1"}, domain.Identity{ID: ""}), domain.ErrForbidden)
	require.ErrorIs(t, AuthorizeOwner(&domain.Order{ID: "o1"}, domain.Identity{ID: "u1"}), domain.ErrForbidden)
}
