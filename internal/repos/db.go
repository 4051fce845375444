package repos

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "pgx"
)

// DriverFor picks the database/sql driver from the DSN: postgres URLs go to
// pgx, everything else is treated as a sqlite path (":memory:" included).
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return driverPostgres
	}
	return driverSQLite
}

func OpenDB(dsn string) (*sqlx.DB, error) {
	driver := DriverFor(dsn)
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == driverSQLite {
		// One connection: writers serialize on it and ":memory:" stays a single database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(16)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  surname TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email))`,

	`CREATE TABLE IF NOT EXISTS clients(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  surname TEXT NOT NULL,
  branch TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  tanks_p TEXT NOT NULL DEFAULT '',
  volume_p TEXT NOT NULL DEFAULT '',
  tanks_t TEXT NOT NULL DEFAULT '',
  volume_t TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  owner_user_id TEXT NOT NULL
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_email ON clients(LOWER(email))`,
	`CREATE INDEX IF NOT EXISTS idx_clients_owner ON clients(owner_user_id)`,

	`CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  stock INTEGER NOT NULL CHECK (stock >= 0),
  price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  items_json TEXT NOT NULL,
  total DOUBLE PRECISION NOT NULL DEFAULT 0,
  client_id TEXT NOT NULL,
  owner_user_id TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('PENDING','COMPLETED','RESCHEDULED','CANCELLED')),
  created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_owner ON orders(owner_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id)`,
}

// ensureSchema runs one statement per Exec so it works on both drivers.
func ensureSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// Seed inserts a demo salesperson and a few products when the database is
// empty. Safe to run on every startup.
func Seed(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo salesperson and products")

	h, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	ts := now()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO users(id,name,surname,email,password_hash,created_at)
		VALUES(?,?,?,?,?,?)`),
		"u-demo", "Demo", "Seller", "demo@crm.test", string(h), ts); err != nil {
		return err
	}
	products := []struct {
		id, name string
		stock    int
		price    float64
	}{
		{"p-water-20l", "Purified water 20L", 120, 35.50},
		{"p-water-1l", "Purified water 1L (12 pack)", 80, 96.00},
		{"p-ice-5kg", "Ice bag 5kg", 40, 28.00},
	}
	for _, p := range products {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO products(id,name,stock,price,created_at) VALUES(?,?,?,?,?)`),
			p.id, p.name, p.stock, p.price, ts); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Fixed-width so created_at sorts as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func now() string { return time.Now().UTC().Format(tsLayout) }
