package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

type userRepository struct {
	pool Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, first_name, last_name, username, email, hashed_password, role, is_active, created_at, updated_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *userRepository) GetActiveByCredentials(ctx context.Context, username, hashedPassword string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
	FROM users
	WHERE username = $1 AND hashed_password = $2 AND is_active
	LIMIT 1`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, username, hashedPassword))
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`
	rows, err := conn(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" || user.Username == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, first_name, last_name, username, email, hashed_password, role, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()), NOW())
	ON CONFLICT (username) DO UPDATE
	SET first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		email = EXCLUDED.email,
		hashed_password = EXCLUDED.hashed_password,
		role = EXCLUDED.role,
		is_active = EXCLUDED.is_active,
		updated_at = NOW()
	RETURNING id, created_at, updated_at
	`

	if err := conn(ctx, r.pool).QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Active,
		nullTime(user.CreatedAt),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return classify(err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
