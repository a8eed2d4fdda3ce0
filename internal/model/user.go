// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account. Email is the unique identifier used as
// the token subject and as the owner reference on short URLs.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
