package services

import (
	"errors"
	"testing"
	"time"

	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
)

func startSession(t *testing.T, teacher, student *models.Profile) *models.Session {
	t.Helper()

	session := models.Session{
		TeacherID:   teacher.ID,
		StudentID:   student.ID,
		SessionType: models.SessionTypeCorrection,
		Status:      models.SessionActive,
		StartedAt:   time.Now(),
	}
	if err := database.DB.Create(&session).Error; err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
	return &session
}

func TestEndSession_CompletesAndCountsBothSides(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	session := startSession(t, teacher, student)

	ended, err := EndSession(session.ID, teacher.ID, 1800)
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if ended.Status != models.SessionCompleted {
		t.Errorf("Expected completed, got %q", ended.Status)
	}
	if ended.EndedAt == nil {
		t.Error("EndedAt must be set on completion")
	}
	if ended.DurationSeconds == nil || *ended.DurationSeconds != 1800 {
		t.Errorf("Expected duration 1800, got %v", ended.DurationSeconds)
	}

	if got := reloadProfile(t, teacher.ID).SessionsCount; got != 1 {
		t.Errorf("Teacher sessions_count = %d, want 1", got)
	}
	if got := reloadProfile(t, student.ID).SessionsCount; got != 1 {
		t.Errorf("Student sessions_count = %d, want 1", got)
	}
}

func TestEndSession_DoubleEndRejectedWithoutDoubleCount(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	session := startSession(t, teacher, student)

	if _, err := EndSession(session.ID, teacher.ID, 1800); err != nil {
		t.Fatalf("First EndSession failed: %v", err)
	}

	_, err := EndSession(session.ID, student.ID, 1900)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition on double end, got %v", err)
	}

	if got := reloadProfile(t, teacher.ID).SessionsCount; got != 1 {
		t.Errorf("Teacher sessions_count double-incremented: %d", got)
	}
	if got := reloadProfile(t, student.ID).SessionsCount; got != 1 {
		t.Errorf("Student sessions_count double-incremented: %d", got)
	}
}

func TestEndSession_OnlyParticipantsMayEnd(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	outsider := createTestProfile(t, "saeed", models.GenderMale, models.RoleStudent)
	session := startSession(t, teacher, student)

	if _, err := EndSession(session.ID, outsider.ID, 600); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized for an outsider, got %v", err)
	}
}

func TestCancelSession_NoCountsIncremented(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	session := startSession(t, teacher, student)

	cancelled, err := CancelSession(session.ID, student.ID)
	if err != nil {
		t.Fatalf("CancelSession failed: %v", err)
	}
	if cancelled.Status != models.SessionCancelled {
		t.Errorf("Expected cancelled, got %q", cancelled.Status)
	}
	if cancelled.EndedAt == nil {
		t.Error("EndedAt must be set on cancellation")
	}

	if got := reloadProfile(t, teacher.ID).SessionsCount; got != 0 {
		t.Errorf("A cancelled session must not count, teacher got %d", got)
	}
}

func TestCancelSession_TerminalSessionRejected(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	session := startSession(t, teacher, student)

	if _, err := EndSession(session.ID, teacher.ID, 900); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if _, err := CancelSession(session.ID, teacher.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition cancelling a completed session, got %v", err)
	}
}

func TestCreateSessionTx_RejectsSecondActivePairing(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	other := createTestProfile(t, "saeed", models.GenderMale, models.RoleStudent)
	startSession(t, teacher, student)

	_, err := createSessionTx(database.DB, teacher.ID, other.ID, models.SessionTypeCorrection)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition for a second active pairing, got %v", err)
	}
}

func TestGetSessionFor_HidesForeignSessions(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	outsider := createTestProfile(t, "saeed", models.GenderMale, models.RoleStudent)
	session := startSession(t, teacher, student)

	if _, err := GetSessionFor(session.ID, outsider.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
	if _, err := GetSessionFor(session.ID, student.ID); err != nil {
		t.Fatalf("Participant lookup failed: %v", err)
	}
}
