package models

import "time"

// Wallet holds one prepaid balance per user. A wallet is created lazily
// with a zero balance and is never deleted while the user exists. The
// balance can never go negative: debits are conditional at the repository.
type Wallet struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
