package pg

import (
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/inkwell-dev/inkwell/internal/domain"
	internal_errors "github.com/inkwell-dev/inkwell/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveUser_Roundtrip(t *testing.T) {
	token := "roundtrip-token"
	email := uniqueEmail()
	id, err := storage.SaveUser(domain.User{
		Name:              "Alice",
		Email:             strings.ToUpper(email),
		PassHash:          "hash",
		Role:              domain.RoleUser,
		VerificationToken: &token,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	// lookup is case-insensitive and the stored email is lowercased
	got, err := storage.User(strings.ToUpper(email))
	require.NoError(t, err)
	assert.Equal(t, id, got.Id)
	assert.Equal(t, email, got.Email)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.False(t, got.IsVerified())
	require.NotNil(t, got.VerificationToken)
	assert.Equal(t, token, *got.VerificationToken)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveUser_DuplicateEmail(t *testing.T) {
	email := uniqueEmail()
	_, err := storage.SaveUser(domain.User{Name: "First", Email: email, PassHash: "h", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = storage.SaveUser(domain.User{Name: "Second", Email: strings.ToUpper(email), PassHash: "h", Role: domain.RoleUser})
	require.Error(t, err)

	var dup *internal_errors.DuplicateEmailError
	assert.ErrorAs(t, err, &dup)
}

// Two registrations racing on the same email: the unique index must let
// exactly one through.
func TestSaveUser_ConcurrentDuplicate(t *testing.T) {
	email := uniqueEmail()
	const workers = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := storage.SaveUser(domain.User{Name: "Racer", Email: email, PassHash: "h", Role: domain.RoleUser})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	var dup *internal_errors.DuplicateEmailError
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorAs(t, err, &dup)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestUser_NotFound(t *testing.T) {
	_, err := storage.User("nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
}

func TestConsumeVerificationToken(t *testing.T) {
	user := createTestUser(t, domain.RoleUser)

	verified, err := storage.ConsumeVerificationToken(*user.VerificationToken)
	require.NoError(t, err)
	assert.Equal(t, user.Id, verified.Id)
	assert.True(t, verified.IsVerified())
	assert.Nil(t, verified.VerificationToken)
	assert.Equal(t, domain.RoleBlogger, verified.Role, "verification promotes a plain user")
}

func TestConsumeVerificationToken_SingleUse(t *testing.T) {
	user := createTestUser(t, domain.RoleUser)
	token := *user.VerificationToken

	_, err := storage.ConsumeVerificationToken(token)
	require.NoError(t, err)

	_, err = storage.ConsumeVerificationToken(token)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
}

func TestConsumeVerificationToken_PreservesAdminRole(t *testing.T) {
	admin := createTestUser(t, domain.RoleAdmin)

	verified, err := storage.ConsumeVerificationToken(*admin.VerificationToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, verified.Role)
}

func TestConsumeVerificationToken_Unknown(t *testing.T) {
	_, err := storage.ConsumeVerificationToken("no-such-token")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
}

func TestSetVerificationToken(t *testing.T) {
	user := createTestUser(t, domain.RoleUser)

	require.NoError(t, storage.SetVerificationToken(user.Email, "fresh-token-"+user.Email))

	got, err := storage.User(user.Email)
	require.NoError(t, err)
	require.NotNil(t, got.VerificationToken)
	assert.Equal(t, "fresh-token-"+user.Email, *got.VerificationToken)
}

func TestSetVerificationToken_VerifiedAccount(t *testing.T) {
	user := createTestUser(t, domain.RoleUser)
	_, err := storage.ConsumeVerificationToken(*user.VerificationToken)
	require.NoError(t, err)

	err = storage.SetVerificationToken(user.Email, "should-not-land")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
}

func TestSetBanned(t *testing.T) {
	user := createTestUser(t, domain.RoleBlogger)

	require.NoError(t, storage.SetBanned(user.Id, true))
	got, err := storage.UserById(user.Id)
	require.NoError(t, err)
	assert.True(t, got.IsBanned)
	assert.Equal(t, domain.RoleBlogger, got.Role, "ban does not touch the role")

	require.NoError(t, storage.SetBanned(user.Id, false))
	got, err = storage.UserById(user.Id)
	require.NoError(t, err)
	assert.False(t, got.IsBanned)
}

func TestSetBanned_UnknownUser(t *testing.T) {
	err := storage.SetBanned(999999, true)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
}
