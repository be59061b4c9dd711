package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/store"
)

type usersRepo struct {
	q queryer
}

const userColumns = `id, email, password_hash, forename, surname, role, status, company_id, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, forename, surname, role, status, company_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		u.ID, u.Email, u.PasswordHash, u.Forename, u.Surname,
		string(u.Role), string(u.Status), u.CompanyID)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) UpdateUserStatus(ctx context.Context, userID string, status domain.AccountStatus) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), userID)
	if err != nil {
		return err
	}
	return requireRowTouched(res)
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u            domain.User
		role, status string
		createdAt    time.Time
		updatedAt    time.Time
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Forename, &u.Surname,
		&role, &status, &u.CompanyID, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	// Stored values went through the parse functions on the way in, but the
	// database is still external input.
	u.Role, err = domain.ParseRole(role)
	if err != nil {
		return domain.User{}, err
	}
	u.Status, err = domain.ParseAccountStatus(status)
	if err != nil {
		return domain.User{}, err
	}
	u.CreatedAt = createdAt
	u.UpdatedAt = updatedAt
	return u, nil
}

func requireRowTouched(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
