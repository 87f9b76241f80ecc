// Package access is the single home of the visibility rules. It produces
// backend neutral queries for list reads and predicates for reads by id.
package access

import (
	"sort"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

// DefaultAvailableLimit caps the available interview pool.
const DefaultAvailableLimit = 20

func recognized(user *models.User) bool {
	return user != nil && user.ID != "" && user.Role.Valid()
}

// CompletedInterviews is what the user sees as their interview history.
// Candidates see the finalized interviews assigned to them, admins see all.
func CompletedInterviews(user *models.User) store.Query {
	switch {
	case !recognized(user):
		return store.None()
	case user.IsAdmin():
		return store.All()
	}
	return store.Query{}.
		Where(store.FieldAssignedTo, store.OpEq, user.ID).
		Where(store.FieldFinalized, store.OpEq, true).
		NewestFirst()
}

// AvailablePool lists unfinalized interviews the user neither owns nor is
// assigned to.
func AvailablePool(user *models.User, limit int) store.Query {
	if !recognized(user) {
		return store.None()
	}
	if limit <= 0 {
		limit = DefaultAvailableLimit
	}
	return store.Query{}.
		Where(store.FieldFinalized, store.OpEq, false).
		Where(store.FieldUserID, store.OpNotEq, user.ID).
		Where(store.FieldAssignedTo, store.OpNotEq, user.ID).
		NewestFirst().
		WithLimit(limit)
}

// Feedback lists the feedback the user may read.
func Feedback(user *models.User) store.Query {
	switch {
	case !recognized(user):
		return store.None()
	case user.IsAdmin():
		return store.All()
	}
	return store.Query{}.
		Where(store.FieldUserID, store.OpEq, user.ID).
		NewestFirst()
}

func FeedbackForInterview(user *models.User, interviewID string) store.Query {
	q := Feedback(user)
	if q.MatchNone {
		return q
	}
	return q.Where(store.FieldInterviewID, store.OpEq, interviewID).WithLimit(1)
}

// CanViewInterview applies the interview rules to a single document. Besides
// their history, candidates may open interviews from their available pool.
func CanViewInterview(user *models.User, iv *models.Interview) bool {
	if !recognized(user) || iv == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	if iv.AssignedTo == user.ID && iv.Finalized {
		return true
	}
	return !iv.Finalized && iv.UserID != user.ID && iv.AssignedTo != user.ID
}

// CanGenerateFeedback reports whether user may submit a transcript for iv.
// Candidates may score interviews assigned to them and unassigned open
// interviews they did not create. An interview assigned to someone else is
// never theirs to score, even while it is still open.
func CanGenerateFeedback(user *models.User, iv *models.Interview) bool {
	if !recognized(user) || iv == nil {
		return false
	}
	if user.IsAdmin() || iv.AssignedTo == user.ID {
		return true
	}
	return iv.AssignedTo == "" && !iv.Finalized && iv.UserID != user.ID
}

func CanViewFeedback(user *models.User, fb *models.Feedback) bool {
	if !recognized(user) || fb == nil {
		return false
	}
	return user.IsAdmin() || fb.UserID == user.ID
}

// SortNewestFirst orders interviews by creation time, newest first.
func SortNewestFirst(ivs []models.Interview) {
	sort.SliceStable(ivs, func(i, j int) bool {
		return ivs[i].CreatedAt.After(ivs[j].CreatedAt)
	})
}

func SortFeedbackNewestFirst(fbs []models.Feedback) {
	sort.SliceStable(fbs, func(i, j int) bool {
		return fbs[i].CreatedAt.After(fbs[j].CreatedAt)
	})
}
