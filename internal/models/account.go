package models

import "time"

// Account is the identity provider's credential record. It never leaves the
// identity package in API responses.
type Account struct {
	SubjectID    string    `gorm:"primaryKey;size:64" bson:"_id" json:"-"`
	Email        string    `gorm:"not null;uniqueIndex" bson:"email" json:"-"`
	PasswordHash string    `gorm:"not null" bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"-"`
}
