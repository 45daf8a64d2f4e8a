package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password-recovery errors surfaced to handlers.
var (
	ErrInvalidCode      = errors.New("invalid or expired code")
	ErrResetRateLimited = errors.New("a code was issued recently, try again later")
	ErrInvalidChannel   = errors.New("unknown delivery channel")
	ErrNoPhoneOnFile    = errors.New("account has no phone number for whatsapp delivery")
)

const (
	resetCodeTTL       = time.Hour
	resetReissueWindow = 5 * time.Minute
)

// NotificationPublisher enqueues outbound notifications. Publishing is best
// effort everywhere in this service: a failure is logged, never surfaced,
// because the primary state change has already been persisted.
type NotificationPublisher interface {
	Publish(body []byte) error
}

// ResetService implements the password-recovery code lifecycle:
// issued -> (attempt ok) verified -> consumed, with attempts capped at 3 and
// a fixed 1h expiry. Guards are re-read from storage on every call.
type ResetService struct {
	codes     repositories.ResetCodeRepository
	users     repositories.UserRepository
	publisher NotificationPublisher
}

// NewResetService creates a new ResetService.
func NewResetService(codes repositories.ResetCodeRepository, users repositories.UserRepository, publisher NotificationPublisher) *ResetService {
	return &ResetService{
		codes:     codes,
		users:     users,
		publisher: publisher,
	}
}

// RequestCode issues a fresh six-digit code for the account and queues its
// delivery on the chosen channel. Re-issuing within 5 minutes of the previous
// code for the same email is rejected.
func (s *ResetService) RequestCode(email, channel string) error {
	if channel != models.ChannelEmail && channel != models.ChannelWhatsApp {
		return ErrInvalidChannel
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if channel == models.ChannelWhatsApp && user.Phone == "" {
		return ErrNoPhoneOnFile
	}

	latest, err := s.codes.GetLatestByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if latest != nil && time.Since(latest.CreatedAt) < resetReissueWindow {
		return ErrResetRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	rc := &models.ResetCode{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      code,
		Channel:   channel,
		ExpiresAt: time.Now().Add(resetCodeTTL),
	}
	if err := s.codes.Create(rc); err != nil {
		return err
	}

	s.notify(buildCodeNotification(user, rc))
	return nil
}

// VerifyCode checks a code against the latest one issued for the email. The
// attempt counter is persisted on every check, successful or not, and the
// usability guards are re-evaluated from storage each time: a code past three
// attempts or past its expiry never verifies, even when the digits match.
func (s *ResetService) VerifyCode(email, code string) error {
	rc, err := s.checkAttempt(email, code)
	if err != nil {
		return err
	}
	log.Debug().Str("email", rc.Email).Int("attempts", rc.Attempts).Msg("reset code verified")
	return nil
}

// ResetPassword re-runs the full verification (including the attempt side
// effect), changes the password and terminally consumes the code. The
// confirmation notification is best effort and never rolls back the change.
func (s *ResetService) ResetPassword(email, code, newPassword string) error {
	rc, err := s.checkAttempt(email, code)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(rc.UserID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	if err := s.users.Update(user); err != nil {
		return err
	}

	rc.Consumed = true
	if err := s.codes.Update(rc); err != nil {
		return err
	}

	s.notify(buildConfirmationNotification(user, rc.Channel))
	return nil
}

// checkAttempt loads the latest code for the email, enforces the usability
// guards and persists the incremented attempt counter before comparing digits.
func (s *ResetService) checkAttempt(email, code string) (*models.ResetCode, error) {
	rc, err := s.codes.GetLatestByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	if !rc.Usable(time.Now()) {
		return nil, ErrInvalidCode
	}

	rc.Attempts++
	if err := s.codes.Update(rc); err != nil {
		return nil, err
	}

	if rc.Code != code {
		return nil, ErrInvalidCode
	}
	return rc, nil
}

// RunJanitor deletes expired codes on a fixed interval until ctx is
// cancelled. Expiry enforcement does not depend on it; it only reclaims rows.
func (s *ResetService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.codes.DeleteExpired(time.Now())
			if err != nil {
				log.Warn().Err(err).Msg("reset code cleanup failed")
				continue
			}
			if removed > 0 {
				log.Debug().Int64("removed", removed).Msg("expired reset codes deleted")
			}
		}
	}
}

func (s *ResetService) notify(n models.Notification) {
	if s.publisher == nil {
		log.Warn().Msg("notification publisher not configured, skipping send")
		return
	}
	body, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal notification")
		return
	}
	if err := s.publisher.Publish(body); err != nil {
		log.Warn().Err(err).Str("channel", n.Channel).Msg("failed to queue notification")
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func buildCodeNotification(user *models.User, rc *models.ResetCode) models.Notification {
	if rc.Channel == models.ChannelWhatsApp {
		return models.Notification{
			Channel:   models.ChannelWhatsApp,
			Recipient: user.Phone,
			Body:      fmt.Sprintf("Tu código de recuperación es %s. Vence en 1 hora.", rc.Code),
		}
	}
	return models.Notification{
		Channel:   models.ChannelEmail,
		Recipient: user.Email,
		Subject:   "Código de recuperación de contraseña",
		Body: fmt.Sprintf("<p>Hola %s,</p><p>Tu código de recuperación es <b>%s</b>. Vence en 1 hora.</p>",
			user.Name, rc.Code),
	}
}

func buildConfirmationNotification(user *models.User, channel string) models.Notification {
	if channel == models.ChannelWhatsApp && user.Phone != "" {
		return models.Notification{
			Channel:   models.ChannelWhatsApp,
			Recipient: user.Phone,
			Body:      "Tu contraseña fue actualizada correctamente.",
		}
	}
	return models.Notification{
		Channel:   models.ChannelEmail,
		Recipient: user.Email,
		Subject:   "Contraseña actualizada",
		Body:      fmt.Sprintf("<p>Hola %s,</p><p>Tu contraseña fue actualizada correctamente.</p>", user.Name),
	}
}
