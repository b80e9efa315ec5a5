package models

// Role is the account role chosen at signup.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the signup form.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

// PasswordReset is the forgot-password form.
type PasswordReset struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthResponse is the body of a successful login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// SessionUser builds the session user from a login response:
// the returned user fields plus the token.
func (r AuthResponse) SessionUser() User {
	return r.User.WithToken(r.Token)
}
