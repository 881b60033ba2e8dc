package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/inkwell-dev/inkwell/internal/domain"
	internal_errors "github.com/inkwell-dev/inkwell/internal/errors"
	"github.com/inkwell-dev/inkwell/internal/logger"
)

// SessionService mints, resolves and revokes bearer tokens. The token on the
// wire is a signed JWT, but it is only a pointer: the sessions row it names
// is what makes it valid, so revoking deletes exactly that row and nothing
// about the user's other sessions.
type SessionService interface {
	Issue(user domain.User) (string, error)
	Resolve(token string) (domain.User, error)
	Revoke(token string) error
}

type SessionStorage interface {
	SaveSession(session domain.Session) error
	SessionUser(id string) (domain.User, error)
	DeleteSession(id string) error
}

type Sessions struct {
	storage   SessionStorage
	secretKey string
	ttl       time.Duration
}

func NewSessions(storage SessionStorage, secretKey string, ttl time.Duration) *Sessions {
	return &Sessions{storage: storage, secretKey: secretKey, ttl: ttl}
}

var errInvalidToken = &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}

func (s *Sessions) Issue(user domain.User) (string, error) {
	session := domain.Session{Id: uuid.NewString(), UserId: user.Id}
	if err := s.storage.SaveSession(session); err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sid": session.Id,
		"uid": user.Id,
	}
	if s.ttl > 0 {
		claims["exp"] = time.Now().Add(s.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign session token", "user_id", user.Id, "error", err)
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

func (s *Sessions) Resolve(token string) (domain.User, error) {
	sid, err := s.sessionId(token)
	if err != nil {
		return domain.User{}, err
	}
	// storage rejects unknown and revoked sessions with the same error
	return s.storage.SessionUser(sid)
}

func (s *Sessions) Revoke(token string) error {
	sid, err := s.sessionId(token)
	if err != nil {
		return err
	}
	return s.storage.DeleteSession(sid)
}

// sessionId validates the token signature and extracts the session id. All
// failure modes collapse into the same invalid-token error so callers learn
// nothing about which tokens ever existed.
func (s *Sessions) sessionId(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errInvalidToken
	}
	return sid, nil
}
