package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/inkwell-dev/inkwell/internal/domain"
	internal_errors "github.com/inkwell-dev/inkwell/internal/errors"

	"github.com/lib/pq"
)

var errPostNotFound = &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: http.StatusNotFound}

const postSelect = `
    SELECT p.id, p.user_id, p.title, p.content, p.image, p.slug, p.likes,
           p.created_at, p.updated_at,
           (SELECT count(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
           u.id, u.name, u.email, u.role, u.is_banned, u.created_at
    FROM posts p
    JOIN users u ON u.id = p.user_id`

func scanPostRow(scan func(dest ...any) error) (domain.Post, error) {
	var post domain.Post
	var author domain.User
	err := scan(
		&post.Id, &post.UserId, &post.Title, &post.Content, &post.Image, &post.Slug, &post.Likes,
		&post.CreatedAt, &post.UpdatedAt, &post.CommentCount,
		&author.Id, &author.Name, &author.Email, &author.Role, &author.IsBanned, &author.CreatedAt,
	)
	if err != nil {
		return domain.Post{}, err
	}
	post.Author = &author
	return post, nil
}

// CreatePost inserts a post and returns its id. Slug collisions are treated
// as internal errors; the random suffix makes them vanishingly rare.
func (s *Storage) CreatePost(post domain.Post) (domain.PostId, error) {
	var id domain.PostId
	err := s.db.QueryRow(`
        INSERT INTO posts(user_id, title, content, image, slug)
        VALUES($1, $2, $3, $4, $5) RETURNING id`,
		post.UserId, post.Title, post.Content, post.Image, post.Slug,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}
	return id, nil
}

// Post fetches a post by id without relations (enough for policy checks).
func (s *Storage) Post(id domain.PostId) (domain.Post, error) {
	row := s.db.QueryRow(
		"SELECT id, user_id, title, content, image, slug, likes, created_at, updated_at FROM posts WHERE id = $1", id)
	var post domain.Post
	err := row.Scan(&post.Id, &post.UserId, &post.Title, &post.Content, &post.Image,
		&post.Slug, &post.Likes, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, errPostNotFound
		}
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	return post, nil
}

// PostBySlug fetches a post with its author and comments.
func (s *Storage) PostBySlug(slug string) (domain.Post, error) {
	row := s.db.QueryRow(postSelect+" WHERE p.slug = $1", slug)
	post, err := scanPostRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, errPostNotFound
		}
		return domain.Post{}, fmt.Errorf("failed to query post by slug: %w", err)
	}

	comments, err := s.commentsForPost(post.Id)
	if err != nil {
		return domain.Post{}, err
	}
	post.Comments = comments
	return post, nil
}

// ListPosts returns a page of posts with authors and comment counts.
func (s *Storage) ListPosts(q domain.PostQuery) ([]domain.Post, error) {
	order := "p.created_at DESC"
	switch q.OrderBy {
	case "likes":
		order = "p.likes DESC, p.created_at DESC"
	case "comments":
		order = "comment_count DESC, p.created_at DESC"
	}

	query := postSelect
	args := []any{}
	if q.AuthorId != nil {
		query += " WHERE p.user_id = $1"
		args = append(args, *q.AuthorId)
	}
	query += fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", order, len(args)+1, len(args)+2)
	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPostRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// UpdatePost rewrites title, content and slug, bumping updated_at.
func (s *Storage) UpdatePost(id domain.PostId, title, content, slug string) error {
	result, err := s.db.Exec(
		"UPDATE posts SET title = $1, content = $2, slug = $3, updated_at = now() WHERE id = $4",
		title, content, slug, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for post update: %w", err)
	}
	if rows == 0 {
		return errPostNotFound
	}
	return nil
}

// DeletePost removes a post; comments and likes go with it via cascade.
func (s *Storage) DeletePost(id domain.PostId) error {
	result, err := s.db.Exec("DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for post deletion: %w", err)
	}
	if rows == 0 {
		return errPostNotFound
	}
	return nil
}

// CreateComment appends a comment and returns it with its author attached.
func (s *Storage) CreateComment(postId domain.PostId, userId domain.UserId, content string) (domain.Comment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var comment domain.Comment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRow(`
            INSERT INTO comments(post_id, user_id, content)
            VALUES($1, $2, $3) RETURNING id, post_id, user_id, content, created_at`,
			postId, userId, content,
		).Scan(&comment.Id, &comment.PostId, &comment.UserId, &comment.Content, &comment.CreatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
				return errPostNotFound
			}
			return fmt.Errorf("failed to insert comment: %w", err)
		}

		var author domain.User
		err = tx.QueryRow(
			"SELECT id, name, email, role, is_banned, created_at FROM users WHERE id = $1", userId,
		).Scan(&author.Id, &author.Name, &author.Email, &author.Role, &author.IsBanned, &author.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to load comment author: %w", err)
		}
		comment.Author = &author
		return nil
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (s *Storage) commentsForPost(postId domain.PostId) ([]domain.Comment, error) {
	rows, err := s.db.Query(`
        SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
               u.id, u.name, u.email, u.role, u.is_banned, u.created_at
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.post_id = $1
        ORDER BY c.created_at`, postId)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		var author domain.User
		err := rows.Scan(&c.Id, &c.PostId, &c.UserId, &c.Content, &c.CreatedAt,
			&author.Id, &author.Name, &author.Email, &author.Role, &author.IsBanned, &author.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Author = &author
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
