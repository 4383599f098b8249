package models

import "time"

// UserSession is an append-only sign-in event written by the client.
// The welcome dispatch flow polls sessions with WelcomeSent == false
// and marks them processed whether or not a push went out.
type UserSession struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"userId" db:"user_id"`
	PushToken      string    `json:"pushToken,omitempty" db:"push_token"`
	IsFirstSession bool      `json:"isFirstSession" db:"is_first_session"`
	WelcomeSent    bool      `json:"welcomeSent" db:"welcome_sent"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
