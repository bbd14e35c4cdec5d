package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUsernameTaken is returned when signup reuses an existing username.
var ErrUsernameTaken = errors.New("username already registered")

var _ UserRepository = (*UserSQLRepository)(nil)

type UserSQLRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserSQLRepository {
	return &UserSQLRepository{db: db}
}

func (r *UserSQLRepository) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	existing, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash)
		VALUES (?, ?, ?)
	`, user.ID, user.Username, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (r *UserSQLRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUser(ctx, "username", username)
}

func (r *UserSQLRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "id", id)
}

func (r *UserSQLRepository) getUser(ctx context.Context, column, value string) (*User, error) {
	var user User
	var created string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE `+column+` = ?
	`, value).Scan(&user.ID, &user.Username, &user.PasswordHash, &created)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	user.CreatedAt, _ = parseTime(created)

	return &user, nil
}
