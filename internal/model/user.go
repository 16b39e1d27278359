package model

// UserRole distinguishes exam takers from exam authors.
type UserRole string

const (
	UserRoleStudent    UserRole = "student"
	UserRoleInstructor UserRole = "instructor"
)

// User is a platform account. Profile management lives in external
// tooling; this is the minimal identity the exam core needs.
type User struct {
	ID           int      `json:"id"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
}

// LoginRequest is the credential payload for both token types.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}
