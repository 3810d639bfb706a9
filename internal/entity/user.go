package entity

import (
	"time"

	"github.com/hvtran/accounting-bot/constants"
)

// User represents a Telegram user known to the bot.
type User struct {
	ID             int64          `json:"id"`
	TelegramUserID int64          `json:"telegram_user_id"`
	Username       string         `json:"username"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Role           constants.Role `json:"role"`
	Department     string         `json:"department,omitempty"`
	IsActive       bool           `json:"is_active"`

	TotalSubmitted int `json:"total_invoices_submitted"`
	TotalApproved  int `json:"total_invoices_approved"`

	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}
