package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"falcon-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const userColumns = `
id::text, first_name, last_name, email, COALESCE(phone, ''), COALESCE(date_of_birth, ''),
password_hash, is_admin, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	q := `
INSERT INTO users (first_name, last_name, email, phone, date_of_birth, password_hash, is_admin)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(
		ctx, q,
		u.FirstName, u.LastName, strings.ToLower(u.Email), u.Phone, u.DateOfBirth, u.PasswordHash, u.IsAdmin,
	))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Update(ctx context.Context, u domain.User) (*domain.User, error) {
	q := `
UPDATE users
SET first_name = $1,
    last_name = $2,
    email = $3,
    phone = NULLIF($4, ''),
    date_of_birth = NULLIF($5, ''),
    updated_at = now()
WHERE id = $6
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(
		ctx, q,
		u.FirstName, u.LastName, strings.ToLower(u.Email), u.Phone, u.DateOfBirth, u.ID,
	))
}

func (r *postgresRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, passwordHash, id)
	if err != nil {
		r.logger.Printf("user repo: update password id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("user repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("user repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const addressColumns = `
id::text, user_id::text, type, first_name, last_name, phone, address, city, state, pincode,
is_default, created_at, updated_at`

func (r *postgresRepo) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	q := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("user repo: list addresses user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// The first address becomes the default; an explicit default displaces
	// the current one.
	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM addresses WHERE user_id = $1`, a.UserID).Scan(&count); err != nil {
		return nil, err
	}
	if count == 0 {
		a.IsDefault = true
	}
	if a.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE user_id = $1`, a.UserID); err != nil {
			return nil, err
		}
	}

	q := `
INSERT INTO addresses (id, user_id, type, first_name, last_name, phone, address, city, state, pincode, is_default)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + addressColumns
	var stored domain.Address
	if err := scanAddress(tx.QueryRow(
		ctx, q,
		a.ID, a.UserID, a.Type, a.FirstName, a.LastName, a.Phone, a.Address, a.City, a.State, a.Pincode, a.IsDefault,
	), &stored); err != nil {
		r.logger.Printf("user repo: create address user_id=%s error=%v", a.UserID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *postgresRepo) UpdateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if a.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE user_id = $1 AND id <> $2`, a.UserID, a.ID); err != nil {
			return nil, err
		}
	}

	q := `
UPDATE addresses
SET type = $1, first_name = $2, last_name = $3, phone = $4, address = $5,
    city = $6, state = $7, pincode = $8, is_default = $9, updated_at = now()
WHERE user_id = $10 AND id = $11
RETURNING ` + addressColumns
	var stored domain.Address
	if err := scanAddress(tx.QueryRow(
		ctx, q,
		a.Type, a.FirstName, a.LastName, a.Phone, a.Address, a.City, a.State, a.Pincode, a.IsDefault, a.UserID, a.ID,
	), &stored); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *postgresRepo) DeleteAddress(ctx context.Context, userID, addressID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var wasDefault bool
	err = tx.QueryRow(ctx, `DELETE FROM addresses WHERE user_id = $1 AND id = $2 RETURNING is_default`, userID, addressID).Scan(&wasDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	// Deleting the default promotes the oldest remaining address.
	if wasDefault {
		if _, err := tx.Exec(ctx, `
UPDATE addresses SET is_default = true
WHERE id = (SELECT id FROM addresses WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1)
`, userID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.DateOfBirth,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	return &u, nil
}

func scanAddress(row pgx.Row, a *domain.Address) error {
	return row.Scan(
		&a.ID,
		&a.UserID,
		&a.Type,
		&a.FirstName,
		&a.LastName,
		&a.Phone,
		&a.Address,
		&a.City,
		&a.State,
		&a.Pincode,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}
