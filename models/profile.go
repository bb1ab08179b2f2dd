package models

import "time"

// Profile is the account record keyed by the identity provider's user id.
type Profile struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	FullName     string    `bson:"full_name" json:"fullName"`
	Role         string    `bson:"role" json:"role"`
	PasswordHash string    `bson:"password_hash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// Principal is the authenticated caller of a privileged request.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}
