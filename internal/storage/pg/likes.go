package pg

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/inkwell-dev/inkwell/internal/domain"
	internal_errors "github.com/inkwell-dev/inkwell/internal/errors"
)

// LikePost records a like and bumps the denormalized counter inside one
// transaction. The (user_id, post_id) primary key decides the race: of two
// concurrent likes for the same pair exactly one insert lands, the other
// sees zero affected rows, and the counter moves only for the winner. That
// keeps posts.likes equal to count(likes rows).
func (s *Storage) LikePost(userId domain.UserId, postId domain.PostId) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(tx, postId); err != nil {
			return err
		}

		result, err := tx.Exec(
			"INSERT INTO likes(user_id, post_id) VALUES($1, $2) ON CONFLICT (user_id, post_id) DO NOTHING",
			userId, postId,
		)
		if err != nil {
			return fmt.Errorf("failed to insert like: %w", err)
		}
		inserted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for like: %w", err)
		}
		if inserted == 0 {
			return &internal_errors.ErrorWithStatusCode{Message: "You already liked this post", StatusCode: http.StatusBadRequest}
		}

		err = tx.QueryRow(
			"UPDATE posts SET likes = likes + 1 WHERE id = $1 RETURNING likes", postId,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to increment like counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UnlikePost deletes the like row and decrements the counter in the same
// transaction. A pair that was never liked (or already unliked) fails
// without touching the counter.
func (s *Storage) UnlikePost(userId domain.UserId, postId domain.PostId) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(tx, postId); err != nil {
			return err
		}

		result, err := tx.Exec(
			"DELETE FROM likes WHERE user_id = $1 AND post_id = $2",
			userId, postId,
		)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}
		deleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for unlike: %w", err)
		}
		if deleted == 0 {
			return &internal_errors.ErrorWithStatusCode{Message: "You haven't liked this post", StatusCode: http.StatusBadRequest}
		}

		err = tx.QueryRow(
			"UPDATE posts SET likes = likes - 1 WHERE id = $1 RETURNING likes", postId,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to decrement like counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func postExists(q Querier, postId domain.PostId) error {
	var id domain.PostId
	if err := q.QueryRow("SELECT id FROM posts WHERE id = $1", postId).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return errPostNotFound
		}
		return fmt.Errorf("failed to check post existence: %w", err)
	}
	return nil
}
