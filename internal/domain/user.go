package domain

import "time"

type UserId = int64
type Email = string

// Role controls which content actions a user may perform.
// Elevation path: user -> blogger (email verification), admin is assigned out-of-band.
type Role string

const (
	RoleUser    Role = "user"
	RoleBlogger Role = "blogger"
	RoleAdmin   Role = "admin"
)

type User struct {
	Id                UserId     `json:"id"`
	Name              string     `json:"name"`
	Email             Email      `json:"email"`
	PassHash          string     `json:"-"`
	Role              Role       `json:"role"`
	EmailVerifiedAt   *time.Time `json:"email_verified_at"`
	VerificationToken *string    `json:"-"`
	IsBanned          bool       `json:"is_banned"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (u *User) IsVerified() bool {
	return u != nil && u.EmailVerifiedAt != nil
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanPublish reports whether the role alone permits authoring posts.
// Ban state is checked separately by the authorization policy.
func (u *User) CanPublish() bool {
	return u != nil && (u.Role == RoleBlogger || u.Role == RoleAdmin)
}

type Credentials struct {
	Email    Email
	Password string
}
