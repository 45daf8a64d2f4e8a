package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubPublisher struct {
	bodies [][]byte
	fail   bool
}

func (p *stubPublisher) Publish(body []byte) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.bodies = append(p.bodies, body)
	return nil
}

func (p *stubPublisher) last(t *testing.T) models.Notification {
	t.Helper()
	require.NotEmpty(t, p.bodies)
	var n models.Notification
	require.NoError(t, json.Unmarshal(p.bodies[len(p.bodies)-1], &n))
	return n
}

type resetFixture struct {
	service   *ResetService
	codes     *repositories.MockResetCodeRepository
	users     *repositories.MockUserRepository
	publisher *stubPublisher
	user      *models.User
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()

	users := repositories.NewMockUserRepository()
	codes := repositories.NewMockResetCodeRepository()
	publisher := &stubPublisher{}

	user := &models.User{
		Name:   "Ana Vendedora",
		Email:  "ana@example.com",
		Phone:  "+5491155550000",
		Role:   models.RoleVendor,
		Active: true,
	}
	require.NoError(t, users.Create(user))

	return &resetFixture{
		service:   NewResetService(codes, users, publisher),
		codes:     codes,
		users:     users,
		publisher: publisher,
		user:      user,
	}
}

// seedCode inserts a code directly, bypassing the issue path, so tests can
// control its age and expiry.
func (f *resetFixture) seedCode(t *testing.T, code string, createdAt, expiresAt time.Time) *models.ResetCode {
	t.Helper()
	rc := &models.ResetCode{
		UserID:    f.user.ID,
		Email:     f.user.Email,
		Code:      code,
		Channel:   models.ChannelEmail,
		ExpiresAt: expiresAt,
	}
	rc.CreatedAt = createdAt
	require.NoError(t, f.codes.Create(rc))
	return rc
}

func TestRequestCode_IssuesSixDigitCode(t *testing.T) {
	f := newResetFixture(t)

	err := f.service.RequestCode(f.user.Email, models.ChannelEmail)
	require.NoError(t, err)

	rc, err := f.codes.GetLatestByEmail(f.user.Email)
	require.NoError(t, err)
	assert.Len(t, rc.Code, 6)
	assert.Equal(t, 0, rc.Attempts)
	assert.False(t, rc.Consumed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), rc.ExpiresAt, time.Minute)

	n := f.publisher.last(t)
	assert.Equal(t, models.ChannelEmail, n.Channel)
	assert.Equal(t, f.user.Email, n.Recipient)
	assert.Contains(t, n.Body, rc.Code)
}

func TestRequestCode_WhatsAppChannel(t *testing.T) {
	f := newResetFixture(t)

	require.NoError(t, f.service.RequestCode(f.user.Email, models.ChannelWhatsApp))

	n := f.publisher.last(t)
	assert.Equal(t, models.ChannelWhatsApp, n.Channel)
	assert.Equal(t, f.user.Phone, n.Recipient)
}

func TestRequestCode_WhatsAppRequiresPhone(t *testing.T) {
	f := newResetFixture(t)
	f.user.Phone = ""
	require.NoError(t, f.users.Update(f.user))

	err := f.service.RequestCode(f.user.Email, models.ChannelWhatsApp)
	assert.ErrorIs(t, err, ErrNoPhoneOnFile)
}

func TestRequestCode_UnknownEmail(t *testing.T) {
	f := newResetFixture(t)

	err := f.service.RequestCode("nadie@example.com", models.ChannelEmail)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestCode_UnknownChannel(t *testing.T) {
	f := newResetFixture(t)

	err := f.service.RequestCode(f.user.Email, "sms")
	assert.ErrorIs(t, err, ErrInvalidChannel)
}

func TestRequestCode_RateLimitedWithinWindow(t *testing.T) {
	f := newResetFixture(t)

	require.NoError(t, f.service.RequestCode(f.user.Email, models.ChannelEmail))

	err := f.service.RequestCode(f.user.Email, models.ChannelEmail)
	assert.ErrorIs(t, err, ErrResetRateLimited)
}

func TestRequestCode_ReissueAfterWindow(t *testing.T) {
	f := newResetFixture(t)
	f.seedCode(t, "111111", time.Now().Add(-6*time.Minute), time.Now().Add(54*time.Minute))

	err := f.service.RequestCode(f.user.Email, models.ChannelEmail)
	require.NoError(t, err)

	rc, err := f.codes.GetLatestByEmail(f.user.Email)
	require.NoError(t, err)
	assert.NotEqual(t, "111111", rc.Code)
}

func TestRequestCode_PublishFailureStillIssues(t *testing.T) {
	f := newResetFixture(t)
	f.publisher.fail = true

	err := f.service.RequestCode(f.user.Email, models.ChannelEmail)
	require.NoError(t, err)

	_, err = f.codes.GetLatestByEmail(f.user.Email)
	assert.NoError(t, err)
}

func TestVerifyCode_CorrectDigits(t *testing.T) {
	f := newResetFixture(t)
	rc := f.seedCode(t, "123456", time.Now(), time.Now().Add(time.Hour))

	require.NoError(t, f.service.VerifyCode(f.user.Email, "123456"))

	stored, err := f.codes.GetLatestByEmail(f.user.Email)
	require.NoError(t, err)
	assert.Equal(t, rc.ID, stored.ID)
	assert.Equal(t, 1, stored.Attempts)
	assert.False(t, stored.Consumed)
}

func TestVerifyCode_WrongDigitsPersistAttempts(t *testing.T) {
	f := newResetFixture(t)
	f.seedCode(t, "123456", time.Now(), time.Now().Add(time.Hour))

	for i := 1; i <= 3; i++ {
		err := f.service.VerifyCode(f.user.Email, "000000")
		assert.ErrorIs(t, err, ErrInvalidCode)

		stored, err := f.codes.GetLatestByEmail(f.user.Email)
		require.NoError(t, err)
		assert.Equal(t, i, stored.Attempts)
	}

	// Three failures exhaust the code; the right digits no longer help.
	err := f.service.VerifyCode(f.user.Email, "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)

	stored, err := f.codes.GetLatestByEmail(f.user.Email)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Attempts)
}

func TestVerifyCode_ExpiredCode(t *testing.T) {
	f := newResetFixture(t)
	f.seedCode(t, "123456", time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

	err := f.service.VerifyCode(f.user.Email, "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)

	// The guard fires before the attempt side effect.
	stored, err := f.codes.GetLatestByEmail(f.user.Email)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Attempts)
}

func TestVerifyCode_NoCodeIssued(t *testing.T) {
	f := newResetFixture(t)

	err := f.service.VerifyCode(f.user.Email, "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestResetPassword_ChangesPasswordAndConsumesCode(t *testing.T) {
	f := newResetFixture(t)
	f.seedCode(t, "123456", time.Now(), time.Now().Add(time.Hour))

	require.NoError(t, f.service.ResetPassword(f.user.Email, "123456", "nueva-clave"))

	user, err := f.users.GetByID(f.user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("nueva-clave")))

	stored, err := f.codes.GetLatestByEmail(f.user.Email)
	require.NoError(t, err)
	assert.True(t, stored.Consumed)

	// A consumed code is dead, even with the right digits.
	err = f.service.ResetPassword(f.user.Email, "123456", "otra-clave")
	assert.ErrorIs(t, err, ErrInvalidCode)

	n := f.publisher.last(t)
	assert.Equal(t, models.ChannelEmail, n.Channel)
	assert.Contains(t, n.Body, "actualizada")
}

func TestResetPassword_WrongDigitsCountAttempt(t *testing.T) {
	f := newResetFixture(t)
	f.seedCode(t, "123456", time.Now(), time.Now().Add(time.Hour))

	err := f.service.ResetPassword(f.user.Email, "654321", "nueva-clave")
	assert.ErrorIs(t, err, ErrInvalidCode)

	stored, err := f.codes.GetLatestByEmail(f.user.Email)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Attempts)
}

func TestRunJanitor_RemovesExpiredCodes(t *testing.T) {
	f := newResetFixture(t)
	f.seedCode(t, "123456", time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.service.RunJanitor(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, err := f.codes.GetLatestByEmail(f.user.Email)
		return err != nil
	}, time.Second, 20*time.Millisecond)
}
