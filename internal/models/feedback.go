package models

import "time"

// the five scoring categories, in the order they are stored and displayed
const (
	CategoryCommunication      = "Communication Skills"
	CategoryTechnicalKnowledge = "Technical Knowledge"
	CategoryProblemSolving     = "Problem-Solving"
	CategoryCulturalFit        = "Cultural & Role Fit"
	CategoryConfidence         = "Confidence & Clarity"
)

var FeedbackCategories = []string{
	CategoryCommunication,
	CategoryTechnicalKnowledge,
	CategoryProblemSolving,
	CategoryCulturalFit,
	CategoryConfidence,
}

const (
	MinScore = 0
	MaxScore = 100
)

type CategoryScore struct {
	Name    string `bson:"name" json:"name"`
	Score   int    `bson:"score" json:"score"`
	Comment string `bson:"comment" json:"comment"`
}

// Feedback is the scored assessment of one interview. Candidate and interview
// fields are snapshots taken at generation time.
type Feedback struct {
	ID                  string          `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	InterviewID         string          `gorm:"not null;uniqueIndex;size:64" bson:"interviewId" json:"interviewId"`
	UserID              string          `gorm:"not null;index;size:64" bson:"userId" json:"userId"`
	CandidateName       string          `bson:"candidateName" json:"candidateName"`
	CandidateEmail      string          `bson:"candidateEmail" json:"candidateEmail"`
	InterviewRole       string          `bson:"interviewRole" json:"interviewRole"`
	TotalScore          int             `gorm:"not null" bson:"totalScore" json:"totalScore"`
	CategoryScores      []CategoryScore `gorm:"serializer:json" bson:"categoryScores" json:"categoryScores"`
	Strengths           []string        `gorm:"serializer:json" bson:"strengths" json:"strengths"`
	AreasForImprovement []string        `gorm:"serializer:json" bson:"areasForImprovement" json:"areasForImprovement"`
	FinalAssessment     string          `gorm:"type:text" bson:"finalAssessment" json:"finalAssessment"`
	CreatedAt           time.Time       `gorm:"index" bson:"createdAt" json:"createdAt"`
}

// TableName keeps the collection name singular, matching the other backends.
func (Feedback) TableName() string {
	return "feedback"
}

func ScoreInRange(score int) bool {
	return score >= MinScore && score <= MaxScore
}
