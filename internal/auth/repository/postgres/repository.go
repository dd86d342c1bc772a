package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/myauth/auth-service/internal/auth/domain"
)

// Querier is the subset of pgxpool.Pool the repository uses; pgxmock
// satisfies it in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const userColumns = `id, first_name, last_name, gender, dob, address, id_number, phone,
		email, password_hash, is_verified, password_reset_token, password_reset_expires,
		created_at, updated_at`

type PostgresRepository struct {
	db Querier
}

func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Gender, &user.DOB,
		&user.Address, &user.IDNumber, &user.Phone, &user.Email,
		&user.PasswordHash, &user.IsVerified, &user.PasswordResetToken,
		&user.PasswordResetExpires, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE lower(email) = lower($1)
		LIMIT 1;
	`, userColumns)

	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE id = $1
		LIMIT 1;
	`, userColumns)

	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) GetByUniqueFields(ctx context.Context, email, phone, idNumber string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE lower(email) = lower($1) OR phone = $2 OR id_number = $3
		LIMIT 1;
	`, userColumns)

	return r.scanUser(r.db.QueryRow(ctx, query, email, phone, idNumber))
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, first_name, last_name, gender, dob, address, id_number,
            phone, email, password_hash, is_verified, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `, user.ID, user.FirstName, user.LastName, user.Gender, user.DOB, user.Address,
		user.IDNumber, user.Phone, user.Email, user.PasswordHash, user.IsVerified,
		user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) Update(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, gender = $4, dob = $5, address = $6,
			id_number = $7, phone = $8, email = $9, password_hash = $10,
			is_verified = $11, password_reset_token = $12, password_reset_expires = $13,
			updated_at = $14
		WHERE id = $1
	`, user.ID, user.FirstName, user.LastName, user.Gender, user.DOB, user.Address,
		user.IDNumber, user.Phone, user.Email, user.PasswordHash, user.IsVerified,
		user.PasswordResetToken, user.PasswordResetExpires, user.UpdatedAt)

	return err
}
