package rules

import "testing"

func TestRequired(t *testing.T) {
	rule := Required("店舗名")

	tests := []struct {
		name  string
		value any
		valid bool
	}{
		{"filled string", "テスト店舗", true},
		{"empty string", "", false},
		{"whitespace only", "　 ", false},
		{"nil", nil, false},
		{"empty slice", []string{}, false},
		{"filled slice", []string{"月"}, true},
		{"number zero is a value", 0, true},
	}

	for _, tt := range tests {
		msg := rule(tt.value)
		if tt.valid && msg != "" {
			t.Errorf("%s: Required(%v) = %q, want valid", tt.name, tt.value, msg)
		}
		if !tt.valid && msg == "" {
			t.Errorf("%s: Required(%v) passed, want error", tt.name, tt.value)
		}
	}
}

func TestPostalCode(t *testing.T) {
	rule := PostalCode()

	tests := []struct {
		value string
		valid bool
	}{
		{"1500001", true},
		{"150-0001", true},
		{"", true}, // 未入力は必須規則の責務
		{"150000", false},
		{"15000011", false},
		{"abcdefg", false},
	}

	for _, tt := range tests {
		msg := rule(tt.value)
		if (msg == "") != tt.valid {
			t.Errorf("PostalCode(%q) = %q, want valid=%v", tt.value, msg, tt.valid)
		}
	}
}

func TestPhone(t *testing.T) {
	rule := Phone()

	tests := []struct {
		value string
		valid bool
	}{
		{"0312345678", true},
		{"09012345678", true},
		{"03-1234-5678", true},
		{"", true},
		{"031234567", false},
		{"090123456789", false},
		{"03-abcd-5678", false},
	}

	for _, tt := range tests {
		msg := rule(tt.value)
		if (msg == "") != tt.valid {
			t.Errorf("Phone(%q) = %q, want valid=%v", tt.value, msg, tt.valid)
		}
	}
}

func TestKana(t *testing.T) {
	rule := Kana()

	tests := []struct {
		value string
		valid bool
	}{
		{"タマノミ", true},
		{"タマノミ　ショウジ", true},
		{"ラーメン", true},
		{"", true},
		{"たまのみ", false},
		{"tamanomi", false},
		{"タマノミ1", false},
	}

	for _, tt := range tests {
		msg := rule(tt.value)
		if (msg == "") != tt.valid {
			t.Errorf("Kana(%q) = %q, want valid=%v", tt.value, msg, tt.valid)
		}
	}
}

func TestEmail(t *testing.T) {
	rule := Email()

	tests := []struct {
		value string
		valid bool
	}{
		{"merchant-1@example.com", true},
		{"", true},
		{"not-an-email", false},
		{"a@", false},
	}

	for _, tt := range tests {
		msg := rule(tt.value)
		if (msg == "") != tt.valid {
			t.Errorf("Email(%q) = %q, want valid=%v", tt.value, msg, tt.valid)
		}
	}
}

func TestWellFormedURL(t *testing.T) {
	rule := WellFormedURL()

	tests := []struct {
		value string
		valid bool
	}{
		{"https://example.com/shop", true},
		{"", true},
		{"example.com", false},
		{"/relative/path", false},
	}

	for _, tt := range tests {
		msg := rule(tt.value)
		if (msg == "") != tt.valid {
			t.Errorf("WellFormedURL(%q) = %q, want valid=%v", tt.value, msg, tt.valid)
		}
	}
}

func TestChainFirstFailureWins(t *testing.T) {
	rule := Chain(Required("メールアドレス"), Email(), MaxLength("メールアドレス", 254))

	if msg := rule(""); msg != "メールアドレスを入力してください" {
		t.Errorf("empty input = %q, want required message first", msg)
	}
	if msg := rule("broken"); msg != "メールアドレスの形式が正しくありません" {
		t.Errorf("broken input = %q, want format message", msg)
	}
	if msg := rule("ok@example.com"); msg != "" {
		t.Errorf("valid input = %q, want empty", msg)
	}
}

func TestMaxLengthCountsRunes(t *testing.T) {
	rule := MaxLength("店舗名", 5)

	if msg := rule("あいうえお"); msg != "" {
		t.Errorf("5 runes should pass, got %q", msg)
	}
	if msg := rule("あいうえおか"); msg == "" {
		t.Error("6 runes should fail")
	}
}
