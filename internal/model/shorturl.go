package model

import "time"

// ShortURL is a redirect record owned by a single user.
//
// Key is public and used for redirects. SecretKey is only ever shown to the
// owner and identifies the record for owner-scoped mutations.
type ShortURL struct {
	ID         string    `json:"id" bson:"_id"`
	TargetURL  string    `json:"redir_target_url" bson:"redir_target_url"`
	Key        string    `json:"key" bson:"key"`
	SecretKey  string    `json:"secret_key" bson:"secret_key"`
	IsActive   bool      `json:"is_active" bson:"is_active"`
	Clicks     int64     `json:"clicks" bson:"clicks"`
	OwnerEmail string    `json:"user_email" bson:"user_email"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// OwnedBy reports whether the record belongs to the given email.
func (s *ShortURL) OwnedBy(email string) bool {
	return s.OwnerEmail == email
}

// CanRedirect returns true if the record may be used for redirects.
func (s *ShortURL) CanRedirect() bool {
	return s.IsActive
}
