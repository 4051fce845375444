package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"crm/internal/domain"
	"crm/internal/repos"
	"crm/internal/services"
)

var (
	alice = domain.Identity{ID: "u-alice", Email: "alice@crm.test", Name: "Alice", Surname: "Ruiz"}
	bob   = domain.Identity{ID: "u-bob", Email: "bob@crm.test", Name: "Bob", Surname: "Lee"}
)

type env struct {
	db      *sqlx.DB
	ledger  *services.InventoryService
	orders  *services.OrderService
	clients *services.ClientService
	catalog *services.CatalogService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ledger := services.NewInventoryService(db, 3, 5*time.Second)
	return &env{
		db:      db,
		ledger:  ledger,
		orders:  services.NewOrderService(db, ledger, 5*time.Second),
		clients: &services.ClientService{Clients: repos.NewClientRepo(db), Timeout: 5 * time.Second},
		catalog: services.NewCatalogService(repos.NewProductRepo(db), 5*time.Second),
	}
}

func (e *env) product(t *testing.T, id, name string, stock int) {
	t.Helper()
	require.NoError(t, repos.NewProductRepo(e.db).Create(context.Background(),
		&domain.Product{ID: id, Name: name, Stock: stock, Price: 10}))
}

func (e *env) client(t *testing.T, id string, owner domain.Identity) {
	t.Helper()
	require.NoError(t, repos.NewClientRepo(e.db).Create(context.Background(), &domain.Client{
		ID: id, Name: "Client", Surname: id, Branch: "North", Email: id + "@example.com", Owner: owner.ID,
	}))
}

func (e *env) stock(t *testing.T, id string) int {
	t.Helper()
	a, err := e.ledger.Availability(context.Background(), id)
	require.NoError(t, err)
	return a.Stock
}

func items(pairs ...any) []domain.LineItem {
	var out []domain.LineItem
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.LineItem{ProductID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}

func total(v float64) *float64 { return &v }

func count(v int) *int { return &v }
