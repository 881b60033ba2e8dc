package domain

import "time"

// Session is a server-side record backing one bearer token. A token is valid
// exactly as long as its session row exists; revocation deletes the row.
type Session struct {
	Id        string
	UserId    UserId
	CreatedAt time.Time
}
