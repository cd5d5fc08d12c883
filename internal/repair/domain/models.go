package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// FaultCharge is one fault recorded on a repair job. Matching faults are
// covered by an existing warranty claim and cost the customer nothing.
type FaultCharge struct {
	FaultID      snowflake.ID `gorm:"column:fault_id" json:"fault_id"`
	Name         string       `gorm:"column:name" json:"name"`
	DefaultPrice int64        `gorm:"column:default_price" json:"default_price"`
	Matching     bool         `gorm:"column:matching" json:"matching"`
}

// PartCharge is one part used during a repair. Extra spares are billable
// during warranty repairs once the customer approves them.
type PartCharge struct {
	PartID       snowflake.ID `gorm:"column:part_id" json:"part_id"`
	Name         string       `gorm:"column:name" json:"name"`
	Quantity     int          `gorm:"column:quantity" json:"quantity"`
	UnitPrice    int64        `gorm:"column:unit_price" json:"unit_price"`
	TotalPrice   int64        `gorm:"column:total_price" json:"total_price"`
	IsExtraSpare bool         `gorm:"column:is_extra_spare" json:"is_extra_spare"`
	IsApproved   bool         `gorm:"column:is_approved" json:"is_approved"`
}

// PaymentEntry is an itemized payment collected against the job before it
// was invoiced.
type PaymentEntry struct {
	Amount          int64        `gorm:"column:amount" json:"amount"`
	PaymentMethodID snowflake.ID `gorm:"column:payment_method_id" json:"payment_method_id"`
	Notes           string       `gorm:"column:notes" json:"notes"`
	PaidAt          time.Time    `gorm:"column:paid_at" json:"paid_at"`
}

// ServiceSnapshot is the projection of a repair job the invoice engine
// consumes. Amounts are minor currency units.
type ServiceSnapshot struct {
	ID               snowflake.ID
	CompanyID        snowflake.ID
	BranchID         snowflake.ID
	CustomerID       snowflake.ID
	Status           string
	IsWarrantyRepair bool
	EstimatedCost    *int64
	ActualCost       *int64
	AdvancePayment   int64
	Faults           []FaultCharge
	Parts            []PartCharge
	Payments         []PaymentEntry
}

// EffectiveCost is the flat (non-warranty) job total.
func (s ServiceSnapshot) EffectiveCost() int64 {
	if s.ActualCost != nil {
		return *s.ActualCost
	}
	if s.EstimatedCost != nil {
		return *s.EstimatedCost
	}
	return 0
}
