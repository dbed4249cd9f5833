package store

import (
	"database/sql"
	"fmt"
	"strings"

	"fasms/internal/model"
)

type AdministratorStore struct {
	db *sql.DB
}

func NewAdministratorStore(db *sql.DB) *AdministratorStore {
	return &AdministratorStore{db: db}
}

const administratorCols = `id, username, hashed_password, is_active, created_at`

func scanAdministrator(scanner interface{ Scan(...any) error }) (*model.Administrator, error) {
	var a model.Administrator
	err := scanner.Scan(&a.ID, &a.Username, &a.HashedPassword, &a.IsActive, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// IsDuplicateUsername reports whether err is the unique violation raised by
// inserting an administrator whose username is already taken.
func IsDuplicateUsername(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: administrators.username")
}

func (s *AdministratorStore) Create(username, hashedPassword string) (*model.Administrator, error) {
	result, err := s.db.Exec(
		`INSERT INTO administrators (username, hashed_password) VALUES (?, ?)`,
		username, hashedPassword,
	)
	if err != nil {
		return nil, fmt.Errorf("insert administrator: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *AdministratorStore) GetByID(id int64) (*model.Administrator, error) {
	row := s.db.QueryRow(`SELECT `+administratorCols+` FROM administrators WHERE id = ?`, id)
	a, err := scanAdministrator(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get administrator: %w", err)
	}
	return a, nil
}

func (s *AdministratorStore) GetByUsername(username string) (*model.Administrator, error) {
	row := s.db.QueryRow(`SELECT `+administratorCols+` FROM administrators WHERE username = ?`, username)
	a, err := scanAdministrator(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get administrator by username: %w", err)
	}
	return a, nil
}

func (s *AdministratorStore) SetActive(id int64, active bool) (*model.Administrator, error) {
	_, err := s.db.Exec(`UPDATE administrators SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return nil, fmt.Errorf("set administrator active: %w", err)
	}
	return s.GetByID(id)
}
