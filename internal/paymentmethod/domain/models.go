package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind classifies how money is collected.
type Kind string

const (
	KindCash Kind = "cash"
	KindCard Kind = "card"
	KindUPI  Kind = "upi"
	KindBank Kind = "bank_transfer"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCash, KindCard, KindUPI, KindBank:
		return true
	default:
		return false
	}
}

type PaymentMethod struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Name      string       `gorm:"not null" json:"name"`
	Kind      Kind         `gorm:"not null" json:"kind"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PaymentMethod) TableName() string { return "payment_methods" }
