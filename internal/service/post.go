package service

import (
	"github.com/inkwell-dev/inkwell/internal/authz"
	"github.com/inkwell-dev/inkwell/internal/domain"
	"github.com/inkwell-dev/inkwell/internal/logger"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

type PostService interface {
	Create(actor *domain.User, title, content string, image *string) (domain.Post, error)
	GetBySlug(slug string) (domain.Post, error)
	GetForEdit(actor *domain.User, slug string) (domain.Post, error)
	List(q domain.PostQuery) ([]domain.Post, error)
	Update(actor *domain.User, slug, title, content string) (domain.Post, error)
	Delete(actor *domain.User, id domain.PostId) error
}

type PostStorage interface {
	CreatePost(post domain.Post) (domain.PostId, error)
	Post(id domain.PostId) (domain.Post, error)
	PostBySlug(slug string) (domain.Post, error)
	ListPosts(q domain.PostQuery) ([]domain.Post, error)
	UpdatePost(id domain.PostId, title, content, slug string) error
	DeletePost(id domain.PostId) error
}

type Renderer interface {
	Render(src string) (string, error)
}

type Post struct {
	storage  PostStorage
	renderer Renderer
}

func NewPost(storage PostStorage, renderer Renderer) *Post {
	return &Post{storage: storage, renderer: renderer}
}

func (p *Post) Create(actor *domain.User, title, content string, image *string) (domain.Post, error) {
	if err := authz.Decide(actor, authz.CreatePost, authz.Resource{}).Err(); err != nil {
		return domain.Post{}, err
	}

	post := domain.Post{
		UserId:  actor.Id,
		Title:   title,
		Content: content,
		Image:   image,
		Slug:    utils.MakeSlug(title),
	}
	id, err := p.storage.CreatePost(post)
	if err != nil {
		return domain.Post{}, err
	}

	return p.storage.Post(id)
}

func (p *Post) GetBySlug(slug string) (domain.Post, error) {
	post, err := p.storage.PostBySlug(slug)
	if err != nil {
		return domain.Post{}, err
	}
	p.attachHtml(&post)
	return post, nil
}

// GetForEdit returns the raw post for the edit form; unlike GetBySlug it is
// gated on ownership.
func (p *Post) GetForEdit(actor *domain.User, slug string) (domain.Post, error) {
	post, err := p.storage.PostBySlug(slug)
	if err != nil {
		return domain.Post{}, err
	}
	if err := authz.Decide(actor, authz.EditPost, authz.Resource{OwnerId: post.UserId}).Err(); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (p *Post) List(q domain.PostQuery) ([]domain.Post, error) {
	switch q.OrderBy {
	case "time", "likes", "comments":
	default:
		q.OrderBy = "time"
	}
	if q.Page < 1 {
		q.Page = 1
	}

	posts, err := p.storage.ListPosts(q)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		p.attachHtml(&posts[i])
	}
	return posts, nil
}

// Update rewrites title and content and regenerates the slug, so the post
// moves to a new URL like it does in the original frontend flow.
func (p *Post) Update(actor *domain.User, slug, title, content string) (domain.Post, error) {
	post, err := p.storage.PostBySlug(slug)
	if err != nil {
		return domain.Post{}, err
	}
	if err := authz.Decide(actor, authz.EditPost, authz.Resource{OwnerId: post.UserId}).Err(); err != nil {
		return domain.Post{}, err
	}

	newSlug := utils.MakeSlug(title)
	if err := p.storage.UpdatePost(post.Id, title, content, newSlug); err != nil {
		return domain.Post{}, err
	}
	return p.storage.PostBySlug(newSlug)
}

func (p *Post) Delete(actor *domain.User, id domain.PostId) error {
	post, err := p.storage.Post(id)
	if err != nil {
		return err
	}
	if err := authz.Decide(actor, authz.DeletePost, authz.Resource{OwnerId: post.UserId}).Err(); err != nil {
		return err
	}
	return p.storage.DeletePost(id)
}

func (p *Post) attachHtml(post *domain.Post) {
	html, err := p.renderer.Render(post.Content)
	if err != nil {
		// raw content is still served; rendering is best-effort
		logger.Log.Error("failed to render post content", "post_id", post.Id, "error", err)
		return
	}
	post.ContentHtml = html
}
