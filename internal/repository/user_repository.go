package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/procurement-service/internal/domain"
)

// UserRepository defines persistence access for workflow participants.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, login, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Login,
		user.PasswordHash,
		user.Role.Code(),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrLoginTaken
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, login, password_hash, role, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	const query = `
        SELECT id, name, login, password_hash, role, created_at, updated_at
        FROM users WHERE login=$1`
	return r.fetchSingle(ctx, query, login)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListByIDs returns the referenced users keyed by ID. Missing IDs are
// simply absent from the result.
func (r *userRepository) ListByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	result := make(map[string]domain.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	const query = `
        SELECT id, name, login, password_hash, role, created_at, updated_at
        FROM users WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result[user.ID] = *user
	}
	return result, rows.Err()
}

// Delete removes a user unless tickets still reference them. The check is
// an explicit precondition rather than a bet on FK enforcement, and the
// FK violation is mapped the same way in case a ticket is written between
// the check and the delete.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	const refQuery = `
        SELECT EXISTS (
            SELECT 1 FROM tickets
            WHERE initiator_id=$1 OR purchasing_manager_id=$1 OR accounting_manager_id=$1
        )`

	var referenced bool
	if err := r.pool.QueryRow(ctx, refQuery, id).Scan(&referenced); err != nil {
		return err
	}
	if referenced {
		return ErrUserReferenced
	}

	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrUserReferenced
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user     domain.User
		roleCode int16
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Login,
		&user.PasswordHash,
		&roleCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	role, ok := domain.RoleFromCode(roleCode)
	if !ok {
		return nil, errors.New("unknown role code in users row")
	}
	user.Role = role
	return &user, nil
}
