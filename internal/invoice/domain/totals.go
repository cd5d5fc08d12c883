package domain

import (
	repairdomain "github.com/fixbench/fixbench/internal/repair/domain"
)

// Totals is the derived financial state of an invoice.
type Totals struct {
	TotalAmount   int64
	PaidAmount    int64
	BalanceAmount int64
	PaymentStatus PaymentStatus
}

// StatusFromAmounts derives the payment status from the amounts alone.
// A balance of zero or less is PAID, anything collected short of the total
// is PARTIAL, and an untouched invoice is PENDING.
func StatusFromAmounts(total, paid int64) PaymentStatus {
	switch {
	case total-paid <= 0:
		return PaymentStatusPaid
	case paid > 0:
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

// TotalsFromAmounts recomputes balance and status for the given amounts.
func TotalsFromAmounts(total, paid int64) Totals {
	return Totals{
		TotalAmount:   total,
		PaidAmount:    paid,
		BalanceAmount: total - paid,
		PaymentStatus: StatusFromAmounts(total, paid),
	}
}

// DeriveServiceTotals computes what a repair job owes.
//
// Warranty repairs charge only the uncovered work: faults outside the
// warranty claim at their default price, plus extra spare parts the
// customer approved. Non-warranty repairs bill the flat job cost, actual
// when set, otherwise the estimate. Advance payments collected before
// invoicing count as already paid.
func DeriveServiceTotals(snapshot repairdomain.ServiceSnapshot) Totals {
	var total int64
	if snapshot.IsWarrantyRepair {
		for _, fault := range snapshot.Faults {
			if !fault.Matching {
				total += fault.DefaultPrice
			}
		}
		for _, part := range snapshot.Parts {
			if part.IsExtraSpare && part.IsApproved {
				total += part.TotalPrice
			}
		}
	} else {
		total = snapshot.EffectiveCost()
	}

	return TotalsFromAmounts(total, snapshot.AdvancePayment)
}
