package repos

import (
	"context"
	"fmt"

	"crm/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ db sqlx.ExtContext }

func NewUserRepo(db sqlx.ExtContext) *UserRepo { return &UserRepo{db: db} }

const userCols = `id,name,surname,email,password_hash,created_at`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, r.db.Rebind(`SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`), email)
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return &u, nil
}

// Create inserts u, stamping CreatedAt. A duplicate email
// (case-insensitive) yields an ExistsError.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	u.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO users(id,name,surname,email,password_hash,created_at)
		VALUES(?,?,?,?,?,?)`),
		u.ID, u.Name, u.Surname, u.Email, u.Hash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ExistsError{Kind: "user", Field: "email", Value: u.Email}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
