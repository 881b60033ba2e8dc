package service

import (
	"github.com/inkwell-dev/inkwell/internal/authz"
	"github.com/inkwell-dev/inkwell/internal/domain"
)

type CommentService interface {
	Create(actor *domain.User, postId domain.PostId, content string) (domain.Comment, error)
}

type CommentStorage interface {
	CreateComment(postId domain.PostId, userId domain.UserId, content string) (domain.Comment, error)
}

// Comments are append-only: no edit or delete surface exists.
type Comment struct {
	storage CommentStorage
}

func NewComment(storage CommentStorage) *Comment {
	return &Comment{storage: storage}
}

func (c *Comment) Create(actor *domain.User, postId domain.PostId, content string) (domain.Comment, error) {
	if err := authz.Decide(actor, authz.CreateComment, authz.Resource{}).Err(); err != nil {
		return domain.Comment{}, err
	}
	return c.storage.CreateComment(postId, actor.Id, content)
}
