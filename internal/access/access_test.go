package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

var (
	admin     = &models.User{ID: "a1", Role: models.RoleAdmin}
	candidate = &models.User{ID: "c1", Role: models.RoleCandidate}
	stranger  = &models.User{ID: "x1", Role: models.Role("superuser")}
)

func TestCompletedInterviews(t *testing.T) {
	q := CompletedInterviews(candidate)
	assert.False(t, q.MatchNone)
	assert.Equal(t, []store.Filter{
		{Field: store.FieldAssignedTo, Op: store.OpEq, Value: "c1"},
		{Field: store.FieldFinalized, Op: store.OpEq, Value: true},
	}, q.Filters)
	assert.Equal(t, store.FieldCreatedAt, q.OrderBy)
	assert.True(t, q.Descending)

	all := CompletedInterviews(admin)
	assert.Empty(t, all.Filters)
	assert.False(t, all.MatchNone)
	assert.True(t, all.Descending)
}

func TestAvailablePool(t *testing.T) {
	q := AvailablePool(candidate, 0)
	assert.Equal(t, DefaultAvailableLimit, q.Limit)
	assert.Contains(t, q.Filters, store.Filter{Field: store.FieldFinalized, Op: store.OpEq, Value: false})
	assert.Contains(t, q.Filters, store.Filter{Field: store.FieldUserID, Op: store.OpNotEq, Value: "c1"})
	assert.Contains(t, q.Filters, store.Filter{Field: store.FieldAssignedTo, Op: store.OpNotEq, Value: "c1"})

	// admins get the same pool shape
	assert.Len(t, AvailablePool(admin, 5).Filters, 3)
	assert.Equal(t, 5, AvailablePool(admin, 5).Limit)
}

func TestFeedbackQueries(t *testing.T) {
	q := Feedback(candidate)
	assert.Equal(t, []store.Filter{{Field: store.FieldUserID, Op: store.OpEq, Value: "c1"}}, q.Filters)
	assert.Empty(t, Feedback(admin).Filters)

	one := FeedbackForInterview(candidate, "iv-1")
	assert.Equal(t, 1, one.Limit)
	assert.Contains(t, one.Filters, store.Filter{Field: store.FieldInterviewID, Op: store.OpEq, Value: "iv-1"})
	assert.Contains(t, one.Filters, store.Filter{Field: store.FieldUserID, Op: store.OpEq, Value: "c1"})
}

func TestFailClosed(t *testing.T) {
	for name, user := range map[string]*models.User{
		"nil user":         nil,
		"unknown role":     stranger,
		"empty role":       {ID: "e1"},
		"admin without id": {Role: models.RoleAdmin},
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, CompletedInterviews(user).MatchNone)
			assert.True(t, AvailablePool(user, 10).MatchNone)
			assert.True(t, Feedback(user).MatchNone)
			assert.True(t, FeedbackForInterview(user, "iv-1").MatchNone)
			assert.False(t, CanViewInterview(user, &models.Interview{ID: "iv-1"}))
			assert.False(t, CanViewFeedback(user, &models.Feedback{ID: "fb-1", UserID: "e1"}))
		})
	}
}

func TestCanViewInterview(t *testing.T) {
	mineDone := &models.Interview{ID: "1", UserID: "a1", AssignedTo: "c1", Finalized: true}
	mineOpen := &models.Interview{ID: "2", UserID: "a1", AssignedTo: "c1"}
	pool := &models.Interview{ID: "3", UserID: "a1"}
	othersDone := &models.Interview{ID: "4", UserID: "a1", AssignedTo: "c2", Finalized: true}
	created := &models.Interview{ID: "5", UserID: "c1"}

	assert.True(t, CanViewInterview(candidate, mineDone))
	assert.False(t, CanViewInterview(candidate, mineOpen))
	assert.True(t, CanViewInterview(candidate, pool))
	assert.False(t, CanViewInterview(candidate, othersDone))
	assert.False(t, CanViewInterview(candidate, created))
	assert.False(t, CanViewInterview(candidate, nil))

	for _, iv := range []*models.Interview{mineDone, mineOpen, pool, othersDone, created} {
		assert.True(t, CanViewInterview(admin, iv))
	}
}

func TestCanGenerateFeedback(t *testing.T) {
	assigned := &models.Interview{ID: "i1", UserID: "a1", AssignedTo: "c1"}
	pool := &models.Interview{ID: "i2", UserID: "a1"}
	othersDone := &models.Interview{ID: "i3", UserID: "a1", AssignedTo: "c2", Finalized: true}
	othersOpen := &models.Interview{ID: "i4", UserID: "a1", AssignedTo: "c2"}
	ownCreated := &models.Interview{ID: "i5", UserID: "c1"}

	assert.True(t, CanGenerateFeedback(candidate, assigned))
	assert.True(t, CanGenerateFeedback(candidate, pool))
	assert.False(t, CanGenerateFeedback(candidate, othersDone))
	assert.False(t, CanGenerateFeedback(candidate, othersOpen))
	assert.False(t, CanGenerateFeedback(candidate, ownCreated))
	assert.True(t, CanGenerateFeedback(admin, othersDone))
	assert.True(t, CanGenerateFeedback(admin, othersOpen))
	assert.False(t, CanGenerateFeedback(stranger, pool))
	assert.False(t, CanGenerateFeedback(candidate, nil))
}

func TestCanViewFeedback(t *testing.T) {
	own := &models.Feedback{ID: "f1", UserID: "c1"}
	other := &models.Feedback{ID: "f2", UserID: "c2"}
	assert.True(t, CanViewFeedback(candidate, own))
	assert.False(t, CanViewFeedback(candidate, other))
	assert.True(t, CanViewFeedback(admin, other))
	assert.False(t, CanViewFeedback(admin, nil))
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	ivs := []models.Interview{
		{ID: "old", CreatedAt: base},
		{ID: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "mid", CreatedAt: base.Add(time.Hour)},
	}
	SortNewestFirst(ivs)
	assert.Equal(t, "newest", ivs[0].ID)
	assert.Equal(t, "mid", ivs[1].ID)
	assert.Equal(t, "old", ivs[2].ID)

	fbs := []models.Feedback{{ID: "a", CreatedAt: base}, {ID: "b", CreatedAt: base.Add(time.Minute)}}
	SortFeedbackNewestFirst(fbs)
	assert.Equal(t, "b", fbs[0].ID)
}
