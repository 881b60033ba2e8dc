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

const pqUniqueViolation = "23505"

const userColumns = "id, name, email, password_hash, role, email_verified_at, email_verification_token, is_banned, created_at"

func scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.Id, &user.Name, &user.Email, &user.PassHash, &user.Role,
		&user.EmailVerifiedAt, &user.VerificationToken, &user.IsBanned, &user.CreatedAt)
	return user, err
}

// =========================================================================
// Public methods (satisfy the service storage interfaces)
// =========================================================================

// SaveUser inserts a new user. The unique index on lower(email) is the
// race-safe duplicate guard: of two concurrent registrations with the same
// email exactly one insert succeeds, the other surfaces a 23505.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// User fetches a user by email (case-insensitive).
func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

// UserById fetches a user by primary key.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = $1", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user by id: %w", err)
	}
	return user, nil
}

// ConsumeVerificationToken performs the whole Unverified -> Verified
// transition as one statement: the token lookup, the token clear, the
// verified_at stamp and the conditional promotion. A second consumption of
// the same token matches zero rows.
func (s *Storage) ConsumeVerificationToken(token string) (domain.User, error) {
	row := s.db.QueryRow(`
        UPDATE users
        SET email_verification_token = NULL,
            email_verified_at = now(),
            role = CASE WHEN role = $2 THEN $3 ELSE role END
        WHERE email_verification_token = $1
        RETURNING `+userColumns,
		token, domain.RoleUser, domain.RoleBlogger,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid verification token", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to consume verification token: %w", err)
	}
	return user, nil
}

// SetVerificationToken stores a fresh token for an unverified account.
func (s *Storage) SetVerificationToken(email domain.Email, token string) error {
	result, err := s.db.Exec(
		"UPDATE users SET email_verification_token = $1 WHERE lower(email) = lower($2) AND email_verified_at IS NULL",
		token, email,
	)
	if err != nil {
		return fmt.Errorf("failed to set verification token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for token update: %w", err)
	}
	if rows == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

// SetBanned flips the ban flag. Role is untouched; ban and role are
// independent axes.
func (s *Storage) SetBanned(id domain.UserId, banned bool) error {
	result, err := s.db.Exec("UPDATE users SET is_banned = $1 WHERE id = $2", banned, id)
	if err != nil {
		return fmt.Errorf("failed to update ban flag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for ban update: %w", err)
	}
	if rows == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

// =========================================================================
// Internal methods (core database logic, transaction-agnostic)
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRow(`
        INSERT INTO users(name, email, password_hash, role, email_verification_token)
        VALUES($1, lower($2), $3, $4, $5) RETURNING id`,
		user.Name, user.Email, user.PassHash, user.Role, user.VerificationToken,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return -1, &internal_errors.DuplicateEmailError{}
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	row := q.QueryRow("SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}
