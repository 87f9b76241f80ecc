// Package sqlstore implements the document store on a relational database
// through gorm. Postgres is used in production, sqlite for tests and local runs.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// columns maps domain field names to column names
var columns = map[string]string{
	store.FieldUserID:      "user_id",
	store.FieldAssignedTo:  "assigned_to",
	store.FieldFinalized:   "finalized",
	store.FieldInterviewID: "interview_id",
	store.FieldCreatedAt:   "created_at",
	store.FieldEmail:       "email",
}

type Store struct {
	DB *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects with the named driver and migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return New(db), nil
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Interview{}, &models.Feedback{}, &models.Account{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// PostgresDSN builds a libpq keyword/value connection string.
func PostgresDSN(host, user, password, dbname, port, sslmode string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrConflict
	}
	return err
}

// apply adds the filters, order and limit of q to tx.
func apply(tx *gorm.DB, q store.Query) (*gorm.DB, error) {
	for _, f := range q.Filters {
		col, ok := columns[f.Field]
		if !ok {
			return nil, fmt.Errorf("unknown query field %q", f.Field)
		}
		switch f.Op {
		case store.OpEq:
			tx = tx.Where(col+" = ?", f.Value)
		case store.OpNotEq:
			tx = tx.Where(col+" <> ?", f.Value)
		default:
			return nil, fmt.Errorf("unsupported query operator %q", f.Op)
		}
	}
	if q.OrderBy != "" {
		col, ok := columns[q.OrderBy]
		if !ok {
			return nil, fmt.Errorf("unknown order field %q", q.OrderBy)
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.Descending})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx, nil
}

// users

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return translate(s.DB.WithContext(ctx).Create(user).Error)
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	result := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// interviews

func (s *Store) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	var interview models.Interview
	if err := s.DB.WithContext(ctx).First(&interview, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &interview, nil
}

func (s *Store) CreateInterview(ctx context.Context, interview *models.Interview) error {
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}
	return translate(s.DB.WithContext(ctx).Create(interview).Error)
}

func (s *Store) FindInterviews(ctx context.Context, q store.Query) ([]models.Interview, error) {
	interviews := []models.Interview{}
	if q.MatchNone {
		return interviews, nil
	}
	tx, err := apply(s.DB.WithContext(ctx).Model(&models.Interview{}), q)
	if err != nil {
		return nil, err
	}
	if err := tx.Find(&interviews).Error; err != nil {
		return nil, translate(err)
	}
	return interviews, nil
}

func (s *Store) MarkInterviewFinalized(ctx context.Context, id string, totalScore int) error {
	return markFinalized(s.DB.WithContext(ctx), id, totalScore)
}

func markFinalized(tx *gorm.DB, id string, totalScore int) error {
	result := tx.Model(&models.Interview{}).Where("id = ?", id).Updates(map[string]any{
		"finalized":    true,
		"total_score":  totalScore,
		"finalized_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// feedback

func (s *Store) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	var fb models.Feedback
	if err := s.DB.WithContext(ctx).First(&fb, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &fb, nil
}

func (s *Store) FindFeedback(ctx context.Context, q store.Query) ([]models.Feedback, error) {
	feedback := []models.Feedback{}
	if q.MatchNone {
		return feedback, nil
	}
	tx, err := apply(s.DB.WithContext(ctx).Model(&models.Feedback{}), q)
	if err != nil {
		return nil, err
	}
	if err := tx.Find(&feedback).Error; err != nil {
		return nil, translate(err)
	}
	return feedback, nil
}

func (s *Store) PutFeedback(ctx context.Context, fb *models.Feedback) error {
	return putFeedback(s.DB.WithContext(ctx), fb)
}

func putFeedback(tx *gorm.DB, fb *models.Feedback) error {
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(feedbackColumns),
	}).Create(fb).Error
	return translate(err)
}

// feedbackColumns is every column an overwrite replaces. UpdateAll would skip
// created_at, and a regenerated document must sort as new.
var feedbackColumns = []string{
	"interview_id",
	"user_id",
	"candidate_name",
	"candidate_email",
	"interview_role",
	"total_score",
	"category_scores",
	"strengths",
	"areas_for_improvement",
	"final_assessment",
	"created_at",
}

// CommitFeedback writes the feedback and finalizes its interview in one
// transaction. Either both changes are visible or neither is. An unassigned
// interview is claimed by the feedback's candidate.
func (s *Store) CommitFeedback(ctx context.Context, fb *models.Feedback) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := putFeedback(tx, fb); err != nil {
			return err
		}
		if err := markFinalized(tx, fb.InterviewID, fb.TotalScore); err != nil {
			return err
		}
		return claimInterview(tx, fb.InterviewID, fb.UserID)
	})
}

func (s *Store) ClaimInterview(ctx context.Context, id, userID string) error {
	return claimInterview(s.DB.WithContext(ctx), id, userID)
}

func claimInterview(tx *gorm.DB, id, userID string) error {
	err := tx.Model(&models.Interview{}).
		Where("id = ? AND (assigned_to = '' OR assigned_to IS NULL)", id).
		Update("assigned_to", userID).Error
	return translate(err)
}

// accounts

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	return translate(s.DB.WithContext(ctx).Create(account).Error)
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (s *Store) GetAccount(ctx context.Context, subjectID string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.WithContext(ctx).First(&account, "subject_id = ?", subjectID).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}
