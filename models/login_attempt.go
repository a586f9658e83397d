package models

import "time"

// LoginAttempt records the outcome of one authentication callback
type LoginAttempt struct {
	ID         int64
	AttemptID  string
	Timestamp  time.Time
	Provider   string
	Outcome    string
	Reason     string
	StatusCode int
	UserID     *int64
	UserAgent  string
	IPAddress  string
}
