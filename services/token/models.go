package token

import (
	"time"
)

// Token is an opaque bearer credential. Validity is derived: a token is valid
// iff the row exists and LastUsedAt is within the configured expiry window.
// There is no stored "expired" flag.
type Token struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Value      string    `json:"-" gorm:"uniqueIndex;size:128;not null"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	LastUsedAt time.Time `json:"last_used_at" gorm:"not null;index"`
}

func (Token) TableName() string {
	return "tokens"
}
