package store

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pavelanni/wellness/internal/model"
)

const userColumns = `id, email, name, password_hash, role, active, created_at, wellness_score`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.WellnessScore)
	return u, err
}

// CreateUser inserts a new user. Emails are stored lower-cased. A zero
// CreatedAt is set to now.
func (s *Store) CreateUser(u model.User) (int64, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))
	res, err := s.db.Exec(
		`INSERT INTO users (email, name, password_hash, role, active, created_at, wellness_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		email, u.Name, u.PasswordHash, u.Role, u.Active, u.CreatedAt, u.WellnessScore,
	)
	if err != nil {
		slog.Error("failed to create user", "email", email, "error", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	slog.Info("created user", "id", id, "email", email, "role", u.Role)
	return id, nil
}

// GetUserByEmail returns a user by email, compared case-insensitively.
func (s *Store) GetUserByEmail(email string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)),
	))
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetUserByID returns a user by ID.
func (s *Store) GetUserByID(id int64) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ListUsers returns all users.
func (s *Store) ListUsers() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ToggleUserActive flips the active flag on a user. Deactivating a user ends
// all of that user's auth sessions.
func (s *Store) ToggleUserActive(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE users SET active = NOT active WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(
		`DELETE FROM auth_sessions WHERE user_id = ? AND (SELECT active FROM users WHERE id = ?) = 0`, id, id,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// SetWellnessScore updates a user's wellness score.
func (s *Store) SetWellnessScore(id int64, score int) error {
	_, err := s.db.Exec(`UPDATE users SET wellness_score = ? WHERE id = ?`, score, id)
	return err
}

// UserCount returns the total number of users.
func (s *Store) UserCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
