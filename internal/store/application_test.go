package store

import (
	"testing"

	"fasms/internal/database"
	"fasms/internal/model"
)

func setupApplicationTestDB(t *testing.T) (*ApplicationStore, int64, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	applicant, err := NewApplicantStore(db).Register(maryInput(), "", nil)
	if err != nil {
		t.Fatalf("register applicant: %v", err)
	}
	scheme, err := NewSchemeStore(db).Create(SchemeInput{Name: "Test Scheme"})
	if err != nil {
		t.Fatalf("create scheme: %v", err)
	}
	return NewApplicationStore(db), applicant.ID, scheme.ID
}

func TestApplicationCreateStartsPending(t *testing.T) {
	apps, applicantID, schemeID := setupApplicationTestDB(t)

	a, err := apps.Create(applicantID, schemeID)
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	if a.Status != model.StatusPending {
		t.Errorf("status = %q, want PENDING", a.Status)
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected server-assigned creation timestamp")
	}
}

func TestApplicationDuplicatePendingRejected(t *testing.T) {
	apps, applicantID, schemeID := setupApplicationTestDB(t)

	if _, err := apps.Create(applicantID, schemeID); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := apps.Create(applicantID, schemeID)
	if err == nil {
		t.Fatal("expected duplicate pending insert to fail")
	}
	if !IsDuplicatePending(err) {
		t.Errorf("IsDuplicatePending(%v) = false, want true", err)
	}
}

func TestApplicationResubmitAfterDecision(t *testing.T) {
	apps, applicantID, schemeID := setupApplicationTestDB(t)

	first, err := apps.Create(applicantID, schemeID)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := apps.UpdateStatus(first.ID, model.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Once the first application is no longer PENDING a new one is allowed.
	if _, err := apps.Create(applicantID, schemeID); err != nil {
		t.Fatalf("resubmit after approval: %v", err)
	}
}

func TestApplicationHasPending(t *testing.T) {
	apps, applicantID, schemeID := setupApplicationTestDB(t)

	pending, err := apps.HasPending(applicantID, schemeID)
	if err != nil {
		t.Fatalf("has pending: %v", err)
	}
	if pending {
		t.Error("expected no pending application")
	}

	a, err := apps.Create(applicantID, schemeID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pending, err = apps.HasPending(applicantID, schemeID)
	if err != nil {
		t.Fatalf("has pending: %v", err)
	}
	if !pending {
		t.Error("expected a pending application")
	}

	if _, err := apps.UpdateStatus(a.ID, model.StatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	pending, err = apps.HasPending(applicantID, schemeID)
	if err != nil {
		t.Fatalf("has pending: %v", err)
	}
	if pending {
		t.Error("expected no pending application after rejection")
	}
}

func TestApplicationUpdateStatus(t *testing.T) {
	apps, applicantID, schemeID := setupApplicationTestDB(t)

	a, err := apps.Create(applicantID, schemeID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := apps.UpdateStatus(a.ID, model.StatusApproved)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != model.StatusApproved {
		t.Errorf("status = %q, want APPROVED", updated.Status)
	}

	// Any state is reachable from any other.
	updated, err = apps.UpdateStatus(a.ID, model.StatusPending)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != model.StatusPending {
		t.Errorf("status = %q, want PENDING", updated.Status)
	}
}

func TestApplicationListByApplicant(t *testing.T) {
	apps, applicantID, schemeID := setupApplicationTestDB(t)

	if _, err := apps.Create(applicantID, schemeID); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := apps.ListByApplicant(applicantID)
	if err != nil {
		t.Fatalf("list by applicant: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("applications = %d, want 1", len(list))
	}

	list, err = apps.ListByApplicant(999)
	if err != nil {
		t.Fatalf("list by applicant: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("applications = %d, want 0 for unknown applicant", len(list))
	}
}

func TestApplicationGetByIDNotFound(t *testing.T) {
	apps, _, _ := setupApplicationTestDB(t)

	a, err := apps.GetByID(999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a != nil {
		t.Error("expected nil for nonexistent application")
	}
}

func TestApplicationDelete(t *testing.T) {
	apps, applicantID, schemeID := setupApplicationTestDB(t)

	a, err := apps.Create(applicantID, schemeID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := apps.Delete(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := apps.GetByID(a.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestApplicantDeleteCascadesApplications(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	applicants := NewApplicantStore(db)
	applicant, err := applicants.Register(maryInput(), "", nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	scheme, err := NewSchemeStore(db).Create(SchemeInput{Name: "S"})
	if err != nil {
		t.Fatalf("create scheme: %v", err)
	}
	apps := NewApplicationStore(db)
	if _, err := apps.Create(applicant.ID, scheme.ID); err != nil {
		t.Fatalf("create application: %v", err)
	}

	if err := applicants.Delete(applicant.ID); err != nil {
		t.Fatalf("delete applicant: %v", err)
	}

	list, err := apps.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("applications = %d, want 0 after applicant delete", len(list))
	}
}
