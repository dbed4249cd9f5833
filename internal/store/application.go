package store

import (
	"database/sql"
	"fmt"
	"strings"

	"fasms/internal/model"
)

type ApplicationStore struct {
	db *sql.DB
}

func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

const applicationCols = `id, applicant_id, scheme_id, status, created_at`

func scanApplication(scanner interface{ Scan(...any) error }) (*model.Application, error) {
	var a model.Application
	err := scanner.Scan(&a.ID, &a.ApplicantID, &a.SchemeID, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a PENDING application. The partial unique index on
// (applicant_id, scheme_id) WHERE status = 'PENDING' makes a concurrent
// duplicate submission fail here; IsDuplicatePending recognizes that error.
func (s *ApplicationStore) Create(applicantID, schemeID int64) (*model.Application, error) {
	result, err := s.db.Exec(
		`INSERT INTO applications (applicant_id, scheme_id) VALUES (?, ?)`,
		applicantID, schemeID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// IsDuplicatePending reports whether err is the unique-index violation raised
// by a second PENDING application for the same (applicant, scheme).
func IsDuplicatePending(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: applications.applicant_id")
}

func (s *ApplicationStore) HasPending(applicantID, schemeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM applications WHERE applicant_id = ? AND scheme_id = ? AND status = ?`,
		applicantID, schemeID, model.StatusPending,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check pending application: %w", err)
	}
	return count > 0, nil
}

func (s *ApplicationStore) GetByID(id int64) (*model.Application, error) {
	row := s.db.QueryRow(`SELECT `+applicationCols+` FROM applications WHERE id = ?`, id)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

func (s *ApplicationStore) List() ([]model.Application, error) {
	return s.list(`SELECT ` + applicationCols + ` FROM applications ORDER BY id`)
}

func (s *ApplicationStore) ListByApplicant(applicantID int64) ([]model.Application, error) {
	return s.list(
		`SELECT `+applicationCols+` FROM applications WHERE applicant_id = ? ORDER BY id`,
		applicantID,
	)
}

func (s *ApplicationStore) list(query string, args ...any) ([]model.Application, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var applications []model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		applications = append(applications, *a)
	}
	return applications, rows.Err()
}

// UpdateStatus moves the application to the given status. Any status is
// reachable from any other; existence is the only guard.
func (s *ApplicationStore) UpdateStatus(id int64, status model.ApplicationStatus) (*model.Application, error) {
	_, err := s.db.Exec(`UPDATE applications SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return s.GetByID(id)
}

func (s *ApplicationStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}
