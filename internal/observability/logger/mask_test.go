package logger

import "testing"

func TestMaskTransactionID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"txn", "****txn"},
		{"txn_9f3a2cb481", "****b481"},
	}
	for _, tc := range cases {
		if got := MaskTransactionID(tc.in); got != tc.want {
			t.Fatalf("MaskTransactionID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskJSON(t *testing.T) {
	in := map[string]any{
		"amount":         1500,
		"transaction_id": "txn_9f3a2cb481",
		"card_number":    "4111111111111111",
		"nested": map[string]any{
			"api_key": "sk_live_abcd",
			"note":    "paid in full",
		},
		"items": []any{
			map[string]any{"password": "hunter22"},
		},
	}

	out := MaskJSON(in)

	if out["amount"] != 1500 {
		t.Fatalf("amount should pass through, got %v", out["amount"])
	}
	if out["transaction_id"] != "****b481" {
		t.Fatalf("transaction_id not masked: %v", out["transaction_id"])
	}
	if out["card_number"] != "****1111" {
		t.Fatalf("card_number not masked: %v", out["card_number"])
	}
	nested := out["nested"].(map[string]any)
	if nested["api_key"] != "****abcd" {
		t.Fatalf("nested api_key not masked: %v", nested["api_key"])
	}
	if nested["note"] != "paid in full" {
		t.Fatalf("nested note should pass through: %v", nested["note"])
	}
	item := out["items"].([]any)[0].(map[string]any)
	if item["password"] != "****er22" {
		t.Fatalf("list password not masked: %v", item["password"])
	}

	// input must remain untouched
	if in["transaction_id"] != "txn_9f3a2cb481" {
		t.Fatalf("MaskJSON mutated its input")
	}
}

func TestMaskJSONNil(t *testing.T) {
	if MaskJSON(nil) != nil {
		t.Fatal("nil input should yield nil")
	}
}
