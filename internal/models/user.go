package models

import "time"

// User is the profile document stored in the users collection, keyed by the
// identity provider's subject id.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	Name      string    `gorm:"not null" bson:"name" json:"name"`
	Email     string    `gorm:"not null;index" bson:"email" json:"email"`
	Role      Role      `gorm:"not null;size:32" bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsCandidate() bool {
	return u != nil && u.Role == RoleCandidate
}
