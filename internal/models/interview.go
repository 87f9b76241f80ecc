package models

import "time"

// Interview is a practice interview set. It starts unfinalized and is
// finalized exactly once, when its feedback is committed.
type Interview struct {
	ID          string     `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	UserID      string     `gorm:"not null;index;size:64" bson:"userId" json:"userId"`
	AssignedTo  string     `gorm:"index;size:64" bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Role        string     `gorm:"not null" bson:"role" json:"role"`
	Level       string     `bson:"level,omitempty" json:"level,omitempty"`
	Type        string     `bson:"type" json:"type"`
	Techstack   []string   `gorm:"serializer:json" bson:"techstack" json:"techstack"`
	Questions   []string   `gorm:"serializer:json" bson:"questions,omitempty" json:"questions,omitempty"`
	CreatedAt   time.Time  `gorm:"index" bson:"createdAt" json:"createdAt"`
	Finalized   bool       `gorm:"not null;default:false;index" bson:"finalized" json:"finalized"`
	TotalScore  *int       `bson:"totalScore,omitempty" json:"totalScore,omitempty"`
	FinalizedAt *time.Time `bson:"finalizedAt,omitempty" json:"finalizedAt,omitempty"`
}

// interview types offered on the create-interview form
const (
	InterviewTypeTechnical  = "technical"
	InterviewTypeBehavioral = "behavioral"
	InterviewTypeMixed      = "mixed"
)

func InterviewTypesList() []string {
	return []string{InterviewTypeTechnical, InterviewTypeBehavioral, InterviewTypeMixed}
}

func InterviewLevelsList() []string {
	return []string{"junior", "mid-level", "senior"}
}
