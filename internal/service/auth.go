package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/inkwell-dev/inkwell/internal/authz"
	"github.com/inkwell-dev/inkwell/internal/config"
	"github.com/inkwell-dev/inkwell/internal/domain"
	internal_errors "github.com/inkwell-dev/inkwell/internal/errors"
	"github.com/inkwell-dev/inkwell/internal/logger"
	"github.com/inkwell-dev/inkwell/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(name, email, password string) (domain.User, error)
	Verify(token string) (domain.User, error)
	Resend(email domain.Email) error
	Login(email domain.Email, password string) (string, domain.User, error)
	Logout(token string) error

	// Admin moderation
	Ban(actor *domain.User, userId domain.UserId) error
	Unban(actor *domain.User, userId domain.UserId) error
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(email domain.Email) (domain.User, error)
	ConsumeVerificationToken(token string) (domain.User, error)
	SetVerificationToken(email domain.Email, token string) error
	SetBanned(id domain.UserId, banned bool) error
}

type Mailer interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

type Auth struct {
	storage  AuthStorage
	mailer   Mailer
	sessions SessionService
	cfg      *config.Public
}

func NewAuth(storage AuthStorage, mailer Mailer, sessions SessionService, cfg *config.Public) *Auth {
	return &Auth{
		storage:  storage,
		mailer:   mailer,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Register creates an unverified account and sends the verification link.
// Mail delivery is fire-and-forget: a failed send is logged but never undoes
// the registration, the user can ask for a resend.
func (a *Auth) Register(name, email, password string) (domain.User, error) {
	email = strings.ToLower(email)

	if err := a.mailer.IsCorrect(email); err != nil {
		return domain.User{}, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	token := utils.GenerateVerificationToken(a.cfg.VerificationTokenLen)
	user := domain.User{
		Name:              name,
		Email:             email,
		PassHash:          string(passHash),
		Role:              domain.RoleUser,
		VerificationToken: &token,
	}

	id, err := a.storage.SaveUser(user)
	if err != nil {
		return domain.User{}, err
	}
	user.Id = id

	a.sendVerification(email, token)
	return user, nil
}

// Verify consumes a verification token. The storage layer performs the whole
// state transition atomically, so a second call with the same token fails.
func (a *Auth) Verify(token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid verification token", StatusCode: http.StatusNotFound}
	}
	return a.storage.ConsumeVerificationToken(token)
}

// Resend re-sends the verification email. An existing token is reused, a
// fresh one is generated only when the account has none.
func (a *Auth) Resend(email domain.Email) error {
	email = strings.ToLower(email)

	if err := a.mailer.IsCorrect(email); err != nil {
		return err
	}

	user, err := a.storage.User(email)
	if err != nil {
		return err
	}
	if user.IsVerified() {
		return &internal_errors.ErrorWithStatusCode{Message: "Email already verified", StatusCode: http.StatusBadRequest}
	}

	token := ""
	if user.VerificationToken != nil {
		token = *user.VerificationToken
	} else {
		token = utils.GenerateVerificationToken(a.cfg.VerificationTokenLen)
		if err := a.storage.SetVerificationToken(email, token); err != nil {
			return err
		}
	}

	a.sendVerification(email, token)
	return nil
}

// Login checks credentials, gates on verification state and mints a session.
// Unknown email and wrong password are indistinguishable to the caller.
func (a *Auth) Login(email domain.Email, password string) (string, domain.User, error) {
	email = strings.ToLower(email)

	if err := a.mailer.IsCorrect(email); err != nil {
		return "", domain.User{}, err
	}

	user, err := a.storage.User(email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return "", domain.User{}, &internal_errors.ErrorWithStatusCode{
				Message:    "The provided credentials are incorrect.",
				StatusCode: http.StatusUnauthorized,
			}
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return "", domain.User{}, &internal_errors.ErrorWithStatusCode{
			Message:    "The provided credentials are incorrect.",
			StatusCode: http.StatusUnauthorized,
		}
	}

	if !user.IsVerified() {
		return "", domain.User{}, &internal_errors.NeedsVerificationError{Email: user.Email}
	}

	token, err := a.sessions.Issue(user)
	if err != nil {
		logger.Log.Error("failed to issue session", "user_id", user.Id, "error", err)
		return "", domain.User{}, err
	}
	return token, user, nil
}

func (a *Auth) Logout(token string) error {
	return a.sessions.Revoke(token)
}

func (a *Auth) Ban(actor *domain.User, userId domain.UserId) error {
	if err := authz.Decide(actor, authz.BanUser, authz.Resource{}).Err(); err != nil {
		return err
	}
	return a.storage.SetBanned(userId, true)
}

func (a *Auth) Unban(actor *domain.User, userId domain.UserId) error {
	if err := authz.Decide(actor, authz.UnbanUser, authz.Resource{}).Err(); err != nil {
		return err
	}
	return a.storage.SetBanned(userId, false)
}

func (a *Auth) sendVerification(email domain.Email, token string) {
	link := fmt.Sprintf("%s/email/verify/%s", strings.TrimRight(a.cfg.AppBaseURL, "/"), token)
	body := fmt.Sprintf(`
		Hello,

		Please confirm your email address by opening the link below

		%s

		If you did not request this, please ignore this email.
	`, link)

	if err := a.mailer.Send(email, "Please verify your email address", body); err != nil {
		logger.Log.Error("failed to send verification email", "error", err)
	}
}
