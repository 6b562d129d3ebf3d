package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user. A unique-constraint violation on email is
// reported as apperrors.ErrEmailTaken.
func (r *UserRepository) CreateUser(u model.User) error {
	query := `
		INSERT INTO users (id, email, name, password, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email. Returns apperrors.ErrUserNotFound when absent.
func (r *UserRepository) GetUserByEmail(email string) (model.User, error) {
	return r.getUser(`SELECT id, email, name, password, created_at FROM users WHERE email = ?`, email)
}

// GetUserByID retrieves a user by ID. Returns apperrors.ErrUserNotFound when absent.
func (r *UserRepository) GetUserByID(id string) (model.User, error) {
	return r.getUser(`SELECT id, email, name, password, created_at FROM users WHERE id = ?`, id)
}

// GetUsers retrieves every user ordered by creation date.
func (r *UserRepository) GetUsers() ([]model.User, error) {
	rows, err := r.db.Query(`SELECT id, email, name, password, created_at FROM users ORDER BY created_at, email`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users table: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users table: %w", err)
	}
	return users, nil
}

func (r *UserRepository) getUser(query string, arg string) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("failed to scan users table results: %w", err)
	}

	t, err := ParseTime(createdAt)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	u.CreatedAt = t
	return u, nil
}
