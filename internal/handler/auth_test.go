package handler

import (
	"net/http"
	"testing"

	"github.com/inkwell-dev/inkwell/internal/domain"
	internal_errors "github.com/inkwell-dev/inkwell/internal/errors"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHandler(t *testing.T) {
	h := newTestHandler(testDeps{})
	router := testRouter(h, nil)

	rr := doRequest(t, router, "POST", "/v1/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123","password_confirmation":"password123"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	body := decodeBody(t, rr)
	assert.Contains(t, body, "user")
	assert.Contains(t, body["message"], "check your email")
	// the password hash must never leak
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestRegisterHandler_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"mismatched confirmation", `{"name":"Alice","email":"alice@example.com","password":"password123","password_confirmation":"different"}`},
		{"invalid email", `{"name":"Alice","email":"nope","password":"password123","password_confirmation":"password123"}`},
		{"short password", `{"name":"Alice","email":"alice@example.com","password":"short","password_confirmation":"short"}`},
		{"missing name", `{"email":"alice@example.com","password":"password123","password_confirmation":"password123"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			serviceCalled := false
			h := newTestHandler(testDeps{auth: &MockAuthService{
				RegisterFunc: func(name, email, password string) (domain.User, error) {
					serviceCalled = true
					return domain.User{}, nil
				},
			}})

			rr := doRequest(t, testRouter(h, nil), "POST", "/v1/register", tc.body)

			require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			assert.Contains(t, decodeBody(t, rr), "errors")
			assert.False(t, serviceCalled)
		})
	}
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	h := newTestHandler(testDeps{auth: &MockAuthService{
		RegisterFunc: func(name, email, password string) (domain.User, error) {
			return domain.User{}, &internal_errors.DuplicateEmailError{}
		},
	}})

	rr := doRequest(t, testRouter(h, nil), "POST", "/v1/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123","password_confirmation":"password123"}`)

	// the duplicate renders like a failed validation of the email field
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "The email has already been taken.")
}

func TestVerifyHandler(t *testing.T) {
	var gotToken string
	h := newTestHandler(testDeps{auth: &MockAuthService{
		VerifyFunc: func(token string) (domain.User, error) {
			gotToken = token
			return domain.User{Id: 1, Role: domain.RoleBlogger}, nil
		},
	}})

	rr := doRequest(t, testRouter(h, nil), "GET", "/v1/email/verify/sometoken123", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sometoken123", gotToken)
	assert.Equal(t, "Email verified successfully", decodeBody(t, rr)["message"])
}

func TestVerifyHandler_InvalidToken(t *testing.T) {
	h := newTestHandler(testDeps{auth: &MockAuthService{
		VerifyFunc: func(token string) (domain.User, error) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid verification token", StatusCode: http.StatusNotFound}
		},
	}})

	rr := doRequest(t, testRouter(h, nil), "GET", "/v1/email/verify/expired", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLoginHandler(t *testing.T) {
	h := newTestHandler(testDeps{})
	rr := doRequest(t, testRouter(h, nil), "POST", "/v1/login",
		`{"email":"alice@example.com","password":"password123"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, "session-token", body["token"])
	assert.Contains(t, body, "user")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.CookieName, cookies[0].Name)
	assert.Equal(t, "session-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	h := newTestHandler(testDeps{auth: &MockAuthService{
		LoginFunc: func(email domain.Email, password string) (string, domain.User, error) {
			return "", domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "The provided credentials are incorrect.", StatusCode: http.StatusUnauthorized}
		},
	}})

	rr := doRequest(t, testRouter(h, nil), "POST", "/v1/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestLoginHandler_NeedsVerification(t *testing.T) {
	h := newTestHandler(testDeps{auth: &MockAuthService{
		LoginFunc: func(email domain.Email, password string) (string, domain.User, error) {
			return "", domain.User{}, &internal_errors.NeedsVerificationError{Email: email}
		},
	}})

	rr := doRequest(t, testRouter(h, nil), "POST", "/v1/login",
		`{"email":"alice@example.com","password":"password123"}`)

	require.Equal(t, http.StatusForbidden, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["needs_verification"])
	assert.Equal(t, "alice@example.com", body["email"])
}

func TestLogoutHandler(t *testing.T) {
	revoked := ""
	h := newTestHandler(testDeps{auth: &MockAuthService{
		LogoutFunc: func(token string) error {
			revoked = token
			return nil
		},
	}})
	router := testRouter(h, nil)

	req := doRequestWithCookie(t, router, "POST", "/v1/logout", "", "the-token")

	require.Equal(t, http.StatusOK, req.Code)
	assert.Equal(t, "the-token", revoked)

	cookies := req.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestResendHandler(t *testing.T) {
	var gotEmail domain.Email
	h := newTestHandler(testDeps{auth: &MockAuthService{
		ResendFunc: func(email domain.Email) error {
			gotEmail = email
			return nil
		},
	}})

	rr := doRequest(t, testRouter(h, nil), "POST", "/v1/email/resend", `{"email":"alice@example.com"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice@example.com", gotEmail)
}

func TestMeHandler(t *testing.T) {
	h := newTestHandler(testDeps{})

	rr := doRequest(t, testRouter(h, &domain.User{Id: 7, Name: "Alice"}), "GET", "/v1/user", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(7), decodeBody(t, rr)["id"])

	rr = doRequest(t, testRouter(h, nil), "GET", "/v1/user", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestBanHandler(t *testing.T) {
	var banned domain.UserId
	h := newTestHandler(testDeps{auth: &MockAuthService{
		BanFunc: func(actor *domain.User, userId domain.UserId) error {
			require.NotNil(t, actor)
			banned = userId
			return nil
		},
	}})
	admin := &domain.User{Id: 1, Role: domain.RoleAdmin}

	rr := doRequest(t, testRouter(h, admin), "POST", "/v1/users/42/ban", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.UserId(42), banned)

	rr = doRequest(t, testRouter(h, admin), "POST", "/v1/users/notanumber/ban", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
