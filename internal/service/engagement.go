package service

import (
	"github.com/inkwell-dev/inkwell/internal/authz"
	"github.com/inkwell-dev/inkwell/internal/domain"
)

// EngagementService is the like/unlike ledger. Uniqueness and counter
// consistency live in storage; this layer adds the policy gate.
type EngagementService interface {
	Like(actor *domain.User, postId domain.PostId) (int64, error)
	Unlike(actor *domain.User, postId domain.PostId) (int64, error)
}

type EngagementStorage interface {
	LikePost(userId domain.UserId, postId domain.PostId) (int64, error)
	UnlikePost(userId domain.UserId, postId domain.PostId) (int64, error)
}

type Engagement struct {
	storage EngagementStorage
}

func NewEngagement(storage EngagementStorage) *Engagement {
	return &Engagement{storage: storage}
}

// Like records a like and returns the post's updated like count.
func (e *Engagement) Like(actor *domain.User, postId domain.PostId) (int64, error) {
	if err := authz.Decide(actor, authz.LikePost, authz.Resource{}).Err(); err != nil {
		return 0, err
	}
	return e.storage.LikePost(actor.Id, postId)
}

// Unlike removes a like and returns the post's updated like count.
func (e *Engagement) Unlike(actor *domain.User, postId domain.PostId) (int64, error) {
	if err := authz.Decide(actor, authz.UnlikePost, authz.Resource{}).Err(); err != nil {
		return 0, err
	}
	return e.storage.UnlikePost(actor.Id, postId)
}
