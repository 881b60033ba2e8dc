// Package authz is the single place where role, ownership and ban checks
// live. Decide is a pure function over domain values; handlers translate
// deny reasons into transport codes.
package authz

import "github.com/inkwell-dev/inkwell/internal/domain"

type Action string

const (
	CreatePost    Action = "post.create"
	EditPost      Action = "post.edit"
	DeletePost    Action = "post.delete"
	CreateComment Action = "comment.create"
	LikePost      Action = "post.like"
	UnlikePost    Action = "post.unlike"
	BanUser       Action = "user.ban"
	UnbanUser     Action = "user.unban"
)

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonBanned          Reason = "banned"
	ReasonRole            Reason = "role"
	ReasonOwnership       Reason = "ownership"
)

// Resource carries the fields a decision can depend on. The zero value is
// used for actions that do not target an owned resource.
type Resource struct {
	OwnerId domain.UserId
}

type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err returns nil for an allow and a *DenyError otherwise, so services can
// gate mutations with a single error check.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DenyError{Reason: d.Reason}
}

type DenyError struct {
	Reason Reason
}

func (e *DenyError) Error() string {
	switch e.Reason {
	case ReasonUnauthenticated:
		return "Authentication required"
	case ReasonBanned:
		return "You are banned from performing this action"
	case ReasonOwnership:
		return "You do not own this resource"
	default:
		return "Unauthorized"
	}
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

// Decide evaluates (actor, action, resource). Ban beats role for content
// creation; ownership never overrides an explicit admin grant.
func Decide(actor *domain.User, action Action, resource Resource) Decision {
	if actor == nil {
		return deny(ReasonUnauthenticated)
	}

	switch action {
	case CreatePost:
		if actor.IsBanned {
			return deny(ReasonBanned)
		}
		if !actor.CanPublish() {
			return deny(ReasonRole)
		}
		return allow()

	case EditPost, DeletePost:
		if actor.Role == domain.RoleAdmin || actor.Id == resource.OwnerId {
			return allow()
		}
		return deny(ReasonOwnership)

	case CreateComment, LikePost, UnlikePost:
		if actor.IsBanned {
			return deny(ReasonBanned)
		}
		return allow()

	case BanUser, UnbanUser:
		if actor.Role == domain.RoleAdmin {
			return allow()
		}
		return deny(ReasonRole)
	}

	return deny(ReasonRole)
}
