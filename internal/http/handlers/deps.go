package handlers

import (
	"crm/internal/config"
	"crm/internal/repos"
	"crm/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth           *services.AuthService
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	ClientHandler  *ClientHandler
	OrderHandler   *OrderHandler
	HealthHandler  *HealthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	clientRepo := repos.NewClientRepo(db)

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := &services.AuthService{Users: userRepo, Tokens: tokens, Cost: cfg.BcryptCost, Timeout: cfg.StorageTimeout}
	ledger := services.NewInventoryService(db, cfg.LedgerRetries, cfg.StorageTimeout)
	catalogSvc := services.NewCatalogService(prodRepo, cfg.StorageTimeout)
	clientSvc := &services.ClientService{Clients: clientRepo, Timeout: cfg.StorageTimeout}
	orderSvc := services.NewOrderService(db, ledger, cfg.StorageTimeout)

	return &Deps{
		Auth:           authSvc,
		AuthHandler:    &AuthHandler{Auth: authSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc, Ledger: ledger},
		ClientHandler:  &ClientHandler{Clients: clientSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
		HealthHandler:  &HealthHandler{DB: db, Timeout: cfg.StorageTimeout},
	}
}
