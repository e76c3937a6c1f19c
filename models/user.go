package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserProfile represents a registered participant. CurrentPick and
// CurrentContestID are always set or cleared together: either both are nil
// (no active pick) or both are non-nil. Streak is mutated only by the
// reconciler.
type UserProfile struct {
	UserID           string    `json:"userId" bson:"_id"`
	DisplayName      string    `json:"displayName" bson:"displayName"`
	PassphraseHash   string    `json:"-" bson:"passphraseHash"` // Never serialize the hash in JSON
	Streak           int       `json:"streak" bson:"streak"`
	CurrentPick      *string   `json:"currentPick,omitempty" bson:"currentPick"`
	CurrentContestID *string   `json:"currentContestId,omitempty" bson:"currentContestId"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

// RegisterRequest represents the registration payload.
type RegisterRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Passphrase  string `json:"passphrase"`
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	UserID     string `json:"user_id"`
	Passphrase string `json:"passphrase"`
}

// AuthResponse is returned after registration or login.
type AuthResponse struct {
	Profile UserProfile `json:"profile"`
	Token   string      `json:"token"`
}

// HasActivePick reports whether the profile carries an unresolved pick.
func (u *UserProfile) HasActivePick() bool {
	return u.CurrentPick != nil && u.CurrentContestID != nil
}

// HashPassphrase hashes the user's passphrase using bcrypt.
func (u *UserProfile) HashPassphrase(passphrase string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PassphraseHash = string(hashed)
	return nil
}

// CheckPassphrase verifies the provided passphrase against the stored hash.
func (u *UserProfile) CheckPassphrase(passphrase string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PassphraseHash), []byte(passphrase))
	return err == nil
}
