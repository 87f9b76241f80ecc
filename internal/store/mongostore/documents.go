package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, q store.Query) ([]T, error) {
	out := []T{}
	if q.MatchNone {
		return out, nil
	}
	filter, opts, err := translateQuery(q)
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, byID(id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.D{{Key: "email", Value: email}})
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.users.InsertOne(ctx, user)
	return translate(err)
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	res, err := s.users.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: role}}}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	return findOne[models.Interview](ctx, s.interviews, byID(id))
}

func (s *Store) CreateInterview(ctx context.Context, interview *models.Interview) error {
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}
	_, err := s.interviews.InsertOne(ctx, interview)
	return translate(err)
}

func (s *Store) FindInterviews(ctx context.Context, q store.Query) ([]models.Interview, error) {
	return findMany[models.Interview](ctx, s.interviews, q)
}

func (s *Store) MarkInterviewFinalized(ctx context.Context, id string, totalScore int) error {
	res, err := s.interviews.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: bson.D{
		{Key: "finalized", Value: true},
		{Key: "totalScore", Value: totalScore},
		{Key: "finalizedAt", Value: time.Now().UTC()},
	}}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	return findOne[models.Feedback](ctx, s.feedback, byID(id))
}

func (s *Store) FindFeedback(ctx context.Context, q store.Query) ([]models.Feedback, error) {
	return findMany[models.Feedback](ctx, s.feedback, q)
}

func (s *Store) PutFeedback(ctx context.Context, fb *models.Feedback) error {
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	_, err := s.feedback.ReplaceOne(ctx, byID(fb.ID), fb, options.Replace().SetUpsert(true))
	return translate(err)
}

// CommitFeedback runs both writes, and the claim of an unassigned interview,
// in a session transaction. Deployments without transaction support get the
// writes in sequence, and a failure of the finalize step is reported as a
// *store.PartialCommitError.
func (s *Store) CommitFeedback(ctx context.Context, fb *models.Feedback) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return translate(err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := s.PutFeedback(sc, fb); err != nil {
			return nil, err
		}
		if err := s.MarkInterviewFinalized(sc, fb.InterviewID, fb.TotalScore); err != nil {
			return nil, err
		}
		return nil, s.ClaimInterview(sc, fb.InterviewID, fb.UserID)
	})
	if err == nil {
		return nil
	}
	if !transactionsUnsupported(err) {
		return translate(err)
	}

	s.logger.Warn("mongo deployment has no transactions, committing feedback sequentially",
		zap.String("feedback_id", fb.ID))
	return s.commitSequential(ctx, fb)
}

func (s *Store) commitSequential(ctx context.Context, fb *models.Feedback) error {
	if err := s.PutFeedback(ctx, fb); err != nil {
		return err
	}
	if err := s.MarkInterviewFinalized(ctx, fb.InterviewID, fb.TotalScore); err != nil {
		return &store.PartialCommitError{
			FeedbackID:      fb.ID,
			InterviewID:     fb.InterviewID,
			FeedbackWritten: true,
			Err:             err,
		}
	}
	if err := s.ClaimInterview(ctx, fb.InterviewID, fb.UserID); err != nil {
		s.logger.Warn("failed to claim finalized interview",
			zap.String("interview_id", fb.InterviewID), zap.Error(err))
	}
	return nil
}

func (s *Store) ClaimInterview(ctx context.Context, interviewID, userID string) error {
	filter := bson.D{
		{Key: "_id", Value: interviewID},
		{Key: "assignedTo", Value: bson.D{{Key: "$in", Value: bson.A{nil, ""}}}},
	}
	_, err := s.interviews.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: bson.D{{Key: "assignedTo", Value: userID}}}})
	return translate(err)
}

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	_, err := s.accounts.InsertOne(ctx, account)
	return translate(err)
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return findOne[models.Account](ctx, s.accounts, bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetAccount(ctx context.Context, subjectID string) (*models.Account, error) {
	return findOne[models.Account](ctx, s.accounts, byID(subjectID))
}
