package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/inkwell-dev/inkwell/internal/domain"
	internal_errors "github.com/inkwell-dev/inkwell/internal/errors"
)

// SaveSession records a freshly issued session.
func (s *Storage) SaveSession(session domain.Session) error {
	_, err := s.db.Exec(
		"INSERT INTO sessions(id, user_id) VALUES($1, $2)",
		session.Id, session.UserId,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// SessionUser resolves a session id to the CURRENT user row. Reading the
// user here, not from token claims, is what makes role and ban changes
// visible to the very next request.
func (s *Storage) SessionUser(id string) (domain.User, error) {
	row := s.db.QueryRow(`
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.email_verified_at,
               u.email_verification_token, u.is_banned, u.created_at
        FROM sessions s
        JOIN users u ON u.id = s.user_id
        WHERE s.id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// unknown and revoked sessions are indistinguishable on purpose
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
		}
		return domain.User{}, fmt.Errorf("failed to resolve session: %w", err)
	}
	return user, nil
}

// DeleteSession revokes exactly one session. Deleting an already absent row
// is not an error: revocation is idempotent.
func (s *Storage) DeleteSession(id string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
