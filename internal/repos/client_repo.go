package repos

import (
	"context"
	"fmt"

	"crm/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ClientRepo struct{ db sqlx.ExtContext }

func NewClientRepo(db sqlx.ExtContext) *ClientRepo { return &ClientRepo{db: db} }

const clientCols = `id,name,surname,branch,email,phone,tanks_p,volume_p,tanks_t,volume_t,created_at,owner_user_id`

func (r *ClientRepo) Get(ctx context.Context, id string) (*domain.Client, error) {
	var c domain.Client
	err := sqlx.GetContext(ctx, r.db, &c, r.db.Rebind(`SELECT `+clientCols+` FROM clients WHERE id=?`), id)
	if err != nil {
		return nil, notFound(err, "client", id)
	}
	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	out := []domain.Client{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+clientCols+` FROM clients ORDER BY created_at`)
	return out, err
}

// ListByOwner returns the clients registered by one salesperson.
func (r *ClientRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Client, error) {
	out := []domain.Client{}
	err := sqlx.SelectContext(ctx, r.db, &out,
		r.db.Rebind(`SELECT `+clientCols+` FROM clients WHERE owner_user_id=? ORDER BY created_at`), ownerID)
	return out, err
}

func (r *ClientRepo) Create(ctx context.Context, c *domain.Client) error {
	c.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO clients(`+clientCols+`)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`),
		c.ID, c.Name, c.Surname, c.Branch, c.Email, c.Phone,
		c.TanksP, c.VolumeP, c.TanksT, c.VolumeT, c.CreatedAt, c.Owner)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ExistsError{Kind: "client", Field: "email", Value: c.Email}
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update rewrites the editable fields. Owner and created_at are never touched.
func (r *ClientRepo) Update(ctx context.Context, c *domain.Client) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE clients
		SET name=?, surname=?, branch=?, email=?, phone=?, tanks_p=?, volume_p=?, tanks_t=?, volume_t=?
		WHERE id=?`),
		c.Name, c.Surname, c.Branch, c.Email, c.Phone, c.TanksP, c.VolumeP, c.TanksT, c.VolumeT, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ExistsError{Kind: "client", Field: "email", Value: c.Email}
		}
		return fmt.Errorf("update client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("client", c.ID)
	}
	return nil
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM clients WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("client", id)
	}
	return nil
}
