package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/models"
)

func completedSession(t *testing.T, teacher, student *models.Profile) *models.Session {
	t.Helper()

	now := time.Now()
	duration := 1800
	session := models.Session{
		TeacherID:       teacher.ID,
		StudentID:       student.ID,
		SessionType:     models.SessionTypeCorrection,
		Status:          models.SessionCompleted,
		StartedAt:       now.Add(-30 * time.Minute),
		EndedAt:         &now,
		DurationSeconds: &duration,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		t.Fatalf("Failed to seed completed session: %v", err)
	}
	return &session
}

func TestSubmitRating_ScoreOutOfRangeRejected(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	session := completedSession(t, teacher, student)

	for _, score := range []int{0, 6, -1} {
		if _, err := SubmitRating(session.ID, student.ID, score, nil); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("Score %d: expected ErrInvalidScore, got %v", score, err)
		}
	}
	if n := countRows(t, &models.Rating{}, ""); n != 0 {
		t.Errorf("Rejected scores must not persist, got %d ratings", n)
	}
}

func TestSubmitRating_UpdatesReputationToMean(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	other := createTestProfile(t, "saeed", models.GenderMale, models.RoleStudent)

	first := completedSession(t, teacher, student)
	second := completedSession(t, teacher, other)

	if _, err := SubmitRating(first.ID, student.ID, 4, nil); err != nil {
		t.Fatalf("First rating failed: %v", err)
	}
	rated := reloadProfile(t, teacher.ID)
	if rated.Rating == nil || *rated.Rating != 4 {
		t.Fatalf("Expected reputation 4 after one rating, got %v", rated.Rating)
	}

	comment := "أداء ممتاز"
	if _, err := SubmitRating(second.ID, other.ID, 5, &comment); err != nil {
		t.Fatalf("Second rating failed: %v", err)
	}
	rated = reloadProfile(t, teacher.ID)
	if rated.Rating == nil || *rated.Rating != 4.5 {
		t.Fatalf("Expected reputation 4.5 as the mean of 4 and 5, got %v", rated.Rating)
	}
}

func TestSubmitRating_ConcurrentRatersYieldExactMean(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	other := createTestProfile(t, "saeed", models.GenderMale, models.RoleStudent)

	first := completedSession(t, teacher, student)
	second := completedSession(t, teacher, other)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	submissions := []struct {
		session *models.Session
		rater   *models.Profile
		score   int
	}{
		{first, student, 3},
		{second, other, 5},
	}
	for _, s := range submissions {
		wg.Add(1)
		go func(sessionID, raterID uuid.UUID, score int) {
			defer wg.Done()
			if _, err := SubmitRating(sessionID, raterID, score, nil); err != nil {
				errs <- err
			}
		}(s.session.ID, s.rater.ID, s.score)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Concurrent SubmitRating failed: %v", err)
	}

	if rated := reloadProfile(t, teacher.ID); rated.Rating == nil || *rated.Rating != 4 {
		t.Errorf("Expected reputation 4 as the mean of 3 and 5, got %v", rated.Rating)
	}
}

func TestSubmitRating_DuplicateRejected(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	session := completedSession(t, teacher, student)

	if _, err := SubmitRating(session.ID, student.ID, 3, nil); err != nil {
		t.Fatalf("First rating failed: %v", err)
	}
	if _, err := SubmitRating(session.ID, student.ID, 5, nil); !errors.Is(err, ErrDuplicateRating) {
		t.Fatalf("Expected ErrDuplicateRating, got %v", err)
	}

	// the reputation still reflects only the accepted rating
	if rated := reloadProfile(t, teacher.ID); rated.Rating == nil || *rated.Rating != 3 {
		t.Errorf("Expected reputation 3, got %v", rated.Rating)
	}
}

func TestSubmitRating_BothSidesMayRateOnce(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	session := completedSession(t, teacher, student)

	if _, err := SubmitRating(session.ID, student.ID, 5, nil); err != nil {
		t.Fatalf("Student rating failed: %v", err)
	}
	if _, err := SubmitRating(session.ID, teacher.ID, 4, nil); err != nil {
		t.Fatalf("Teacher rating failed: %v", err)
	}

	if rated := reloadProfile(t, student.ID); rated.Rating == nil || *rated.Rating != 4 {
		t.Errorf("Student reputation should be 4, got %v", rated.Rating)
	}
	if rated := reloadProfile(t, teacher.ID); rated.Rating == nil || *rated.Rating != 5 {
		t.Errorf("Teacher reputation should be 5, got %v", rated.Rating)
	}
}

func TestSubmitRating_NonParticipantRejected(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	outsider := createTestProfile(t, "saeed", models.GenderMale, models.RoleStudent)
	session := completedSession(t, teacher, student)

	if _, err := SubmitRating(session.ID, outsider.ID, 5, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestSubmitRating_ActiveSessionRejected(t *testing.T) {
	setupTestDB(t)
	teacher := createTestProfile(t, "sheikh-ahmed", models.GenderMale, models.RoleTeacher)
	student := createTestProfile(t, "khalid", models.GenderMale, models.RoleStudent)
	session := startSession(t, teacher, student)

	if _, err := SubmitRating(session.ID, student.ID, 4, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition for an active session, got %v", err)
	}
}
