package domain

import "time"

// User is a registered account. Password holds a bcrypt hash for accounts
// created here; accounts imported from the plain-text layout keep the raw
// value.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns a copy of u safe to hand to UI collaborators.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Password = ""
	return &cp
}

type SignUpRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest identifies the account by username or email.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type SessionResponse struct {
	State string `json:"state"`
	User  *User  `json:"user"`
}
