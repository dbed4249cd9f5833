package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"fasms/internal/model"
)

type SchemeStore struct {
	db *sql.DB
}

func NewSchemeStore(db *sql.DB) *SchemeStore {
	return &SchemeStore{db: db}
}

type BenefitInput struct {
	Description string
	Amount      *int64
	Condition   *string
}

type SchemeInput struct {
	Name                     string
	Description              string
	MaritalStatusRequired    *model.MaritalStatus
	EmploymentStatusRequired *model.EmploymentStatus
	RequiredRelationships    []string
	HouseholdSize            *int64
	Benefits                 []BenefitInput
}

// Create inserts the scheme and its benefits in one transaction.
func (s *SchemeStore) Create(in SchemeInput) (*model.Scheme, error) {
	var relationships any
	if len(in.RequiredRelationships) > 0 {
		b, err := json.Marshal(in.RequiredRelationships)
		if err != nil {
			return nil, fmt.Errorf("marshal required relationships: %w", err)
		}
		relationships = string(b)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO schemes (name, description, marital_status_required, employment_status_required, required_relationships, household_size)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Description, in.MaritalStatusRequired, in.EmploymentStatusRequired, relationships, in.HouseholdSize,
	)
	if err != nil {
		return nil, fmt.Errorf("insert scheme: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, b := range in.Benefits {
		_, err := tx.Exec(
			`INSERT INTO benefits (scheme_id, description, amount, condition) VALUES (?, ?, ?, ?)`,
			id, b.Description, b.Amount, b.Condition,
		)
		if err != nil {
			return nil, fmt.Errorf("insert benefit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit scheme: %w", err)
	}

	return s.GetByID(id)
}

const schemeCols = `id, name, description, marital_status_required, employment_status_required,
	required_relationships, household_size, created_at`

func scanScheme(scanner interface{ Scan(...any) error }) (*model.Scheme, error) {
	var sc model.Scheme
	var relationships sql.NullString
	err := scanner.Scan(&sc.ID, &sc.Name, &sc.Description, &sc.MaritalStatusRequired,
		&sc.EmploymentStatusRequired, &relationships, &sc.HouseholdSize, &sc.CreatedAt)
	if err != nil {
		return nil, err
	}
	if relationships.Valid && relationships.String != "" {
		if err := json.Unmarshal([]byte(relationships.String), &sc.RequiredRelationships); err != nil {
			return nil, fmt.Errorf("unmarshal required relationships: %w", err)
		}
	}
	return &sc, nil
}

func (s *SchemeStore) GetByID(id int64) (*model.Scheme, error) {
	row := s.db.QueryRow(`SELECT `+schemeCols+` FROM schemes WHERE id = ?`, id)
	sc, err := scanScheme(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scheme: %w", err)
	}

	benefits, err := s.benefits(id)
	if err != nil {
		return nil, err
	}
	sc.Benefits = benefits
	return sc, nil
}

func (s *SchemeStore) List() ([]model.Scheme, error) {
	rows, err := s.db.Query(`SELECT ` + schemeCols + ` FROM schemes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query schemes: %w", err)
	}
	defer rows.Close()

	var schemes []model.Scheme
	for rows.Next() {
		sc, err := scanScheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheme: %w", err)
		}
		schemes = append(schemes, *sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range schemes {
		benefits, err := s.benefits(schemes[i].ID)
		if err != nil {
			return nil, err
		}
		schemes[i].Benefits = benefits
	}
	return schemes, nil
}

func (s *SchemeStore) benefits(schemeID int64) ([]model.Benefit, error) {
	rows, err := s.db.Query(
		`SELECT id, scheme_id, description, amount, condition FROM benefits WHERE scheme_id = ? ORDER BY id`,
		schemeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query benefits: %w", err)
	}
	defer rows.Close()

	var benefits []model.Benefit
	for rows.Next() {
		var b model.Benefit
		if err := rows.Scan(&b.ID, &b.SchemeID, &b.Description, &b.Amount, &b.Condition); err != nil {
			return nil, fmt.Errorf("scan benefit: %w", err)
		}
		benefits = append(benefits, b)
	}
	return benefits, rows.Err()
}

// InUse reports whether any applications reference the scheme.
func (s *SchemeStore) InUse(id int64) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM applications WHERE scheme_id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count scheme applications: %w", err)
	}
	return count > 0, nil
}

// Delete removes the scheme; its benefits go with it (FK cascade).
func (s *SchemeStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM schemes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scheme: %w", err)
	}
	return nil
}
