package domain

import (
	"testing"

	repairdomain "github.com/fixbench/fixbench/internal/repair/domain"
)

func int64Ptr(v int64) *int64 { return &v }

func TestDeriveServiceTotalsWarrantySplit(t *testing.T) {
	snapshot := repairdomain.ServiceSnapshot{
		IsWarrantyRepair: true,
		ActualCost:       int64Ptr(500), // ignored for warranty repairs
		Faults: []repairdomain.FaultCharge{
			{Name: "screen crack", DefaultPrice: 100, Matching: true},
			{Name: "water damage", DefaultPrice: 50, Matching: false},
		},
		Parts: []repairdomain.PartCharge{
			{Name: "battery", TotalPrice: 30, IsExtraSpare: true, IsApproved: true},
			{Name: "screen", TotalPrice: 20, IsExtraSpare: false, IsApproved: true},
			{Name: "case", TotalPrice: 40, IsExtraSpare: true, IsApproved: false},
		},
	}

	totals := DeriveServiceTotals(snapshot)
	if totals.TotalAmount != 80 {
		t.Fatalf("warranty total = %d, want 80", totals.TotalAmount)
	}
	if totals.PaidAmount != 0 || totals.BalanceAmount != 80 {
		t.Fatalf("unexpected paid/balance %d/%d", totals.PaidAmount, totals.BalanceAmount)
	}
	if totals.PaymentStatus != PaymentStatusPending {
		t.Fatalf("status = %s, want PENDING", totals.PaymentStatus)
	}
}

func TestDeriveServiceTotalsWarrantyFullyCovered(t *testing.T) {
	snapshot := repairdomain.ServiceSnapshot{
		IsWarrantyRepair: true,
		Faults: []repairdomain.FaultCharge{
			{Name: "screen crack", DefaultPrice: 100, Matching: true},
		},
	}

	totals := DeriveServiceTotals(snapshot)
	if totals.TotalAmount != 0 {
		t.Fatalf("covered repair total = %d, want 0", totals.TotalAmount)
	}
	if totals.PaymentStatus != PaymentStatusPaid {
		t.Fatalf("zero-balance status = %s, want PAID", totals.PaymentStatus)
	}
}

func TestDeriveServiceTotalsFlatWithAdvance(t *testing.T) {
	snapshot := repairdomain.ServiceSnapshot{
		EstimatedCost:  int64Ptr(200),
		AdvancePayment: 50,
	}

	totals := DeriveServiceTotals(snapshot)
	if totals.TotalAmount != 200 || totals.PaidAmount != 50 || totals.BalanceAmount != 150 {
		t.Fatalf("unexpected totals %+v", totals)
	}
	if totals.PaymentStatus != PaymentStatusPartial {
		t.Fatalf("status = %s, want PARTIAL", totals.PaymentStatus)
	}
}

func TestDeriveServiceTotalsActualOverridesEstimate(t *testing.T) {
	snapshot := repairdomain.ServiceSnapshot{
		EstimatedCost: int64Ptr(200),
		ActualCost:    int64Ptr(175),
	}

	totals := DeriveServiceTotals(snapshot)
	if totals.TotalAmount != 175 {
		t.Fatalf("total = %d, want actual cost 175", totals.TotalAmount)
	}
}

func TestDeriveServiceTotalsIsDeterministic(t *testing.T) {
	snapshot := repairdomain.ServiceSnapshot{
		IsWarrantyRepair: true,
		AdvancePayment:   10,
		Faults: []repairdomain.FaultCharge{
			{DefaultPrice: 60, Matching: false},
		},
		Parts: []repairdomain.PartCharge{
			{TotalPrice: 25, IsExtraSpare: true, IsApproved: true},
		},
	}

	first := DeriveServiceTotals(snapshot)
	second := DeriveServiceTotals(snapshot)
	if first != second {
		t.Fatalf("derivation not stable: %+v vs %+v", first, second)
	}
}

func TestStatusFromAmounts(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		paid  int64
		want  PaymentStatus
	}{
		{"untouched", 100, 0, PaymentStatusPending},
		{"partial", 100, 40, PaymentStatusPartial},
		{"exactly paid", 100, 100, PaymentStatusPaid},
		{"credit balance", 100, 120, PaymentStatusPaid},
		{"zero total", 0, 0, PaymentStatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFromAmounts(tc.total, tc.paid); got != tc.want {
				t.Fatalf("StatusFromAmounts(%d, %d) = %s, want %s", tc.total, tc.paid, got, tc.want)
			}
		})
	}
}
