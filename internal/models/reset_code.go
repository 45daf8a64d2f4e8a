package models

import (
	"time"

	"gorm.io/gorm"
)

// Delivery channels for password-reset codes.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

// MaxResetAttempts caps verification attempts per code.
const MaxResetAttempts = 3

// ResetCode is a time-boxed, attempt-limited one-time code for password
// recovery. A code is usable only while !Consumed, Attempts < 3 and the
// expiry has not elapsed; the guards are re-checked on every verification
// call, never cached.
type ResetCode struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)"`
	Email     string    `json:"email" gorm:"index;type:varchar(255)"`
	Code      string    `json:"-" gorm:"type:varchar(6)"`
	Channel   string    `json:"channel" gorm:"type:varchar(10)"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts" gorm:"default:0"`
	Consumed  bool      `json:"consumed" gorm:"default:false"`
	gorm.Model
}

// Usable reports whether the code can still succeed at the given instant.
func (rc *ResetCode) Usable(now time.Time) bool {
	return !rc.Consumed && rc.Attempts < MaxResetAttempts && now.Before(rc.ExpiresAt)
}
