package auth

import "time"

// Principal is an authenticated account, as stored in the users table.
type Principal struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
