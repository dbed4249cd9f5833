package store

import (
	"database/sql"
	"fmt"
	"strings"

	"fasms/internal/model"
)

// DefaultAddress is recorded when a registration omits the household address.
const DefaultAddress = "No Address Provided"

type ApplicantStore struct {
	db *sql.DB
}

func NewApplicantStore(db *sql.DB) *ApplicantStore {
	return &ApplicantStore{db: db}
}

// PersonInput carries the fields needed to create a persons row.
type PersonInput struct {
	Name             string
	ICNumber         string
	DateOfBirth      string
	Sex              model.Sex
	EmploymentStatus model.EmploymentStatus
	MaritalStatus    model.MaritalStatus
}

// MemberInput is a household member to register alongside an applicant.
type MemberInput struct {
	PersonInput
	RelationToApplicant string
}

// PersonUpdate holds optional replacements for person fields. Nil fields are
// left untouched.
type PersonUpdate struct {
	Name             *string
	ICNumber         *string
	DateOfBirth      *string
	Sex              *model.Sex
	EmploymentStatus *model.EmploymentStatus
	MaritalStatus    *model.MaritalStatus
}

// Register creates the applicant graph in a single transaction: the person is
// looked up by IC number and created only if absent, a fresh household is
// always created, and each supplied member gets the same person upsert plus a
// household_members row. Partial failure rolls the whole registration back.
func (s *ApplicantStore) Register(in PersonInput, address string, members []MemberInput) (*model.Applicant, error) {
	if address == "" {
		address = DefaultAddress
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	personID, err := upsertPerson(tx, in)
	if err != nil {
		return nil, err
	}

	result, err := tx.Exec(`INSERT INTO households (address) VALUES (?)`, address)
	if err != nil {
		return nil, fmt.Errorf("insert household: %w", err)
	}
	householdID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	result, err = tx.Exec(
		`INSERT INTO applicants (person_id, household_id) VALUES (?, ?)`,
		personID, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert applicant: %w", err)
	}
	applicantID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, m := range members {
		memberPersonID, err := upsertPerson(tx, m.PersonInput)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(
			`INSERT INTO household_members (household_id, person_id, relation_to_applicant) VALUES (?, ?, ?)`,
			householdID, memberPersonID, m.RelationToApplicant,
		)
		if err != nil {
			return nil, fmt.Errorf("insert household member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}

	return s.GetByID(applicantID)
}

func upsertPerson(tx *sql.Tx, in PersonInput) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM persons WHERE ic_number = ?`, in.ICNumber).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("look up person: %w", err)
	}

	result, err := tx.Exec(
		`INSERT INTO persons (name, ic_number, date_of_birth, sex, employment_status, marital_status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.ICNumber, in.DateOfBirth, in.Sex, in.EmploymentStatus, in.MaritalStatus,
	)
	if err != nil {
		return 0, fmt.Errorf("insert person: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

const applicantCols = `a.id, a.person_id, p.name, p.ic_number, p.date_of_birth, p.sex,
	p.employment_status, p.marital_status, a.household_id, a.created_at`

func scanApplicant(scanner interface{ Scan(...any) error }) (*model.Applicant, error) {
	var a model.Applicant
	err := scanner.Scan(&a.ID, &a.PersonID, &a.Name, &a.ICNumber, &a.DateOfBirth, &a.Sex,
		&a.EmploymentStatus, &a.MaritalStatus, &a.HouseholdID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID returns the applicant with person fields and household members
// resolved, or nil if no such applicant exists.
func (s *ApplicantStore) GetByID(id int64) (*model.Applicant, error) {
	row := s.db.QueryRow(
		`SELECT `+applicantCols+` FROM applicants a JOIN persons p ON p.id = a.person_id WHERE a.id = ?`,
		id,
	)
	a, err := scanApplicant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get applicant: %w", err)
	}

	members, err := s.householdMembers(a.HouseholdID)
	if err != nil {
		return nil, err
	}
	a.HouseholdMembers = members
	return a, nil
}

func (s *ApplicantStore) List() ([]model.Applicant, error) {
	rows, err := s.db.Query(
		`SELECT ` + applicantCols + ` FROM applicants a JOIN persons p ON p.id = a.person_id ORDER BY a.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query applicants: %w", err)
	}
	defer rows.Close()

	var applicants []model.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		applicants = append(applicants, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range applicants {
		members, err := s.householdMembers(applicants[i].HouseholdID)
		if err != nil {
			return nil, err
		}
		applicants[i].HouseholdMembers = members
	}
	return applicants, nil
}

func (s *ApplicantStore) householdMembers(householdID int64) ([]model.HouseholdMember, error) {
	rows, err := s.db.Query(
		`SELECT hm.id, hm.household_id, hm.person_id, p.name, p.ic_number, hm.relation_to_applicant
		 FROM household_members hm
		 JOIN persons p ON p.id = hm.person_id
		 WHERE hm.household_id = ?
		 ORDER BY hm.id`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("query household members: %w", err)
	}
	defer rows.Close()

	var members []model.HouseholdMember
	for rows.Next() {
		var m model.HouseholdMember
		if err := rows.Scan(&m.ID, &m.HouseholdID, &m.PersonID, &m.Name, &m.ICNumber, &m.RelationToApplicant); err != nil {
			return nil, fmt.Errorf("scan household member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// UpdatePerson applies the set fields of upd to the applicant's person row.
// Returns nil if the applicant does not exist.
func (s *ApplicantStore) UpdatePerson(applicantID int64, upd PersonUpdate) (*model.Applicant, error) {
	existing, err := s.GetByID(applicantID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.ICNumber != nil {
		add("ic_number", *upd.ICNumber)
	}
	if upd.DateOfBirth != nil {
		add("date_of_birth", *upd.DateOfBirth)
	}
	if upd.Sex != nil {
		add("sex", *upd.Sex)
	}
	if upd.EmploymentStatus != nil {
		add("employment_status", *upd.EmploymentStatus)
	}
	if upd.MaritalStatus != nil {
		add("marital_status", *upd.MaritalStatus)
	}
	if len(sets) == 0 {
		return existing, nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	query := "UPDATE persons SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, existing.PersonID)
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	return s.GetByID(applicantID)
}

// Delete removes the applicant row. The person and household rows are kept;
// the applicant's applications go with it (FK cascade).
func (s *ApplicantStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM applicants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete applicant: %w", err)
	}
	return nil
}
