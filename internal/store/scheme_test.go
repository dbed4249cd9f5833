package store

import (
	"database/sql"
	"testing"

	"fasms/internal/database"
	"fasms/internal/model"
)

func setupSchemeTestDB(t *testing.T) (*SchemeStore, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSchemeStore(db), db
}

func TestSchemeCreateWithBenefits(t *testing.T) {
	ss, _ := setupSchemeTestDB(t)

	employed := model.Employed
	householdSize := int64(2)
	amount := int64(500)
	sc, err := ss.Create(SchemeInput{
		Name:                     "Retrenchment Assistance",
		Description:              "Support for retrenched workers",
		EmploymentStatusRequired: &employed,
		RequiredRelationships:    []string{"Spouse", "Child"},
		HouseholdSize:            &householdSize,
		Benefits: []BenefitInput{
			{Description: "Monthly cash payout", Amount: &amount},
			{Description: "School meal vouchers"},
		},
	})
	if err != nil {
		t.Fatalf("create scheme: %v", err)
	}

	if sc.Name != "Retrenchment Assistance" {
		t.Errorf("name = %q", sc.Name)
	}
	if sc.EmploymentStatusRequired == nil || *sc.EmploymentStatusRequired != model.Employed {
		t.Errorf("employment_status_required = %v, want Employed", sc.EmploymentStatusRequired)
	}
	if len(sc.RequiredRelationships) != 2 {
		t.Errorf("required_relationships = %v, want 2 entries", sc.RequiredRelationships)
	}
	if sc.HouseholdSize == nil || *sc.HouseholdSize != 2 {
		t.Errorf("household_size = %v, want 2", sc.HouseholdSize)
	}
	if len(sc.Benefits) != 2 {
		t.Fatalf("benefits = %d, want 2", len(sc.Benefits))
	}
	if sc.Benefits[0].Amount == nil || *sc.Benefits[0].Amount != 500 {
		t.Errorf("benefit amount = %v, want 500", sc.Benefits[0].Amount)
	}
	if sc.Benefits[1].Amount != nil {
		t.Errorf("benefit amount = %v, want nil", sc.Benefits[1].Amount)
	}
}

func TestSchemeCreateNoCriteria(t *testing.T) {
	ss, _ := setupSchemeTestDB(t)

	sc, err := ss.Create(SchemeInput{Name: "Open Scheme"})
	if err != nil {
		t.Fatalf("create scheme: %v", err)
	}
	if sc.MaritalStatusRequired != nil || sc.EmploymentStatusRequired != nil ||
		sc.RequiredRelationships != nil || sc.HouseholdSize != nil {
		t.Errorf("expected all criteria unset: %+v", sc)
	}
}

func TestSchemeList(t *testing.T) {
	ss, _ := setupSchemeTestDB(t)

	if _, err := ss.Create(SchemeInput{Name: "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ss.Create(SchemeInput{Name: "B", Benefits: []BenefitInput{{Description: "x"}}}); err != nil {
		t.Fatalf("create: %v", err)
	}

	schemes, err := ss.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(schemes) != 2 {
		t.Fatalf("schemes = %d, want 2", len(schemes))
	}
	if len(schemes[1].Benefits) != 1 {
		t.Errorf("scheme B benefits = %d, want 1", len(schemes[1].Benefits))
	}
}

func TestSchemeGetByIDNotFound(t *testing.T) {
	ss, _ := setupSchemeTestDB(t)

	sc, err := ss.GetByID(999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sc != nil {
		t.Error("expected nil for nonexistent scheme")
	}
}

func TestSchemeDeleteCascadesBenefits(t *testing.T) {
	ss, db := setupSchemeTestDB(t)

	sc, err := ss.Create(SchemeInput{
		Name:     "With Benefits",
		Benefits: []BenefitInput{{Description: "a"}, {Description: "b"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ss.Delete(sc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var benefits int
	if err := db.QueryRow("SELECT COUNT(*) FROM benefits").Scan(&benefits); err != nil {
		t.Fatalf("count benefits: %v", err)
	}
	if benefits != 0 {
		t.Errorf("benefits = %d, want 0 after scheme delete", benefits)
	}
}

func TestSchemeInUse(t *testing.T) {
	ss, db := setupSchemeTestDB(t)

	sc, err := ss.Create(SchemeInput{Name: "Popular"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inUse, err := ss.InUse(sc.ID)
	if err != nil {
		t.Fatalf("in use: %v", err)
	}
	if inUse {
		t.Error("expected scheme without applications to be unused")
	}

	applicants := NewApplicantStore(db)
	a, err := applicants.Register(maryInput(), "", nil)
	if err != nil {
		t.Fatalf("register applicant: %v", err)
	}
	if _, err := NewApplicationStore(db).Create(a.ID, sc.ID); err != nil {
		t.Fatalf("create application: %v", err)
	}

	inUse, err = ss.InUse(sc.ID)
	if err != nil {
		t.Fatalf("in use: %v", err)
	}
	if !inUse {
		t.Error("expected scheme with an application to be in use")
	}
}
