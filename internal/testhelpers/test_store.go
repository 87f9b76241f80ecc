package testhelpers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store/sqlstore"
)

var openSQLite = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
}

// NewStore creates an isolated in-memory SQLite document store for tests.
func NewStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := openSQLite(dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := sqlstore.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	s := sqlstore.New(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// DropTable removes the table behind model to force store errors.
func DropTable(t *testing.T, s *sqlstore.Store, model any) {
	t.Helper()
	if err := s.DB.Migrator().DropTable(model); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}
}

var seq int

func nextID(prefix string) string {
	seq++
	return fmt.Sprintf("%s-%d", prefix, seq)
}

// SeedUser inserts a user with the given role.
func SeedUser(t *testing.T, s *sqlstore.Store, id string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{ID: id, Name: "User " + id, Email: id + "@example.com", Role: role, CreatedAt: time.Now().UTC()}
	if err := s.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// InterviewOption adjusts a seeded interview before insertion.
type InterviewOption func(*models.Interview)

func Owner(id string) InterviewOption {
	return func(iv *models.Interview) { iv.UserID = id }
}

func AssignedTo(id string) InterviewOption {
	return func(iv *models.Interview) { iv.AssignedTo = id }
}

func Finalized(score int) InterviewOption {
	return func(iv *models.Interview) {
		iv.Finalized = true
		iv.TotalScore = &score
	}
}

func CreatedAt(ts time.Time) InterviewOption {
	return func(iv *models.Interview) { iv.CreatedAt = ts }
}

func WithID(id string) InterviewOption {
	return func(iv *models.Interview) { iv.ID = id }
}

// SeedInterview inserts an unfinalized backend interview owned by "admin-1"
// unless options say otherwise.
func SeedInterview(t *testing.T, s *sqlstore.Store, opts ...InterviewOption) *models.Interview {
	t.Helper()
	iv := &models.Interview{
		ID:        nextID("iv"),
		UserID:    "admin-1",
		Role:      "Backend Engineer",
		Level:     "mid-level",
		Type:      models.InterviewTypeTechnical,
		Techstack: []string{"go", "postgres"},
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(iv)
	}
	if err := s.DB.Create(iv).Error; err != nil {
		t.Fatalf("failed to seed interview: %v", err)
	}
	return iv
}

// SeedFeedback inserts a feedback document for the interview.
func SeedFeedback(t *testing.T, s *sqlstore.Store, id, interviewID, userID string, total int) *models.Feedback {
	t.Helper()
	fb := &models.Feedback{
		ID:              id,
		InterviewID:     interviewID,
		UserID:          userID,
		CandidateName:   "User " + userID,
		CandidateEmail:  userID + "@example.com",
		InterviewRole:   "Backend Engineer",
		TotalScore:      total,
		CategoryScores:  SampleCategoryScores(total),
		Strengths:       []string{"clear structure"},
		FinalAssessment: "solid",
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.DB.Create(fb).Error; err != nil {
		t.Fatalf("failed to seed feedback: %v", err)
	}
	return fb
}

func SampleCategoryScores(score int) []models.CategoryScore {
	out := make([]models.CategoryScore, 0, len(models.FeedbackCategories))
	for _, name := range models.FeedbackCategories {
		out = append(out, models.CategoryScore{Name: name, Score: score, Comment: "ok"})
	}
	return out
}
