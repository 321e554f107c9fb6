package domain

import (
	"reflect"
	"testing"
)

func TestNormalizeWeekdaysReordersToTable(t *testing.T) {
	got, err := NormalizeWeekdays([]string{"土", "月", "月", " 水 "})
	if err != nil {
		t.Fatalf("NormalizeWeekdays: %v", err)
	}
	want := []string{"月", "水", "土"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeWeekdays = %v, want %v", got, want)
	}
}

func TestNormalizeWeekdaysRejectsUnknownDay(t *testing.T) {
	if _, err := NormalizeWeekdays([]string{"月", "祝"}); err == nil {
		t.Error("NormalizeWeekdays accepted 祝, want error")
	}
}

func TestNormalizeWeekdaysEmptySelectionIsNil(t *testing.T) {
	got, err := NormalizeWeekdays([]string{"", " "})
	if err != nil {
		t.Fatalf("NormalizeWeekdays: %v", err)
	}
	if got != nil {
		t.Errorf("NormalizeWeekdays = %v, want nil", got)
	}
}

func TestNormalizeScenesDropsDuplicates(t *testing.T) {
	got, err := NormalizeScenes([]string{"デート", "宴会", "デート"})
	if err != nil {
		t.Fatalf("NormalizeScenes: %v", err)
	}
	want := []string{"デート", "宴会"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeScenes = %v, want %v", got, want)
	}
	if _, err := NormalizeScenes([]string{"昼寝"}); err == nil {
		t.Error("NormalizeScenes accepted 昼寝, want error")
	}
}

func TestNormalizeGenre(t *testing.T) {
	tests := []struct {
		value string
		want  string
		valid bool
	}{
		{"居酒屋", "居酒屋", true},
		{" 和食 ", "和食", true},
		{"", "", true}, // 未選択の必須判定は呼び出し側
		{"回転寿司", "", false},
	}
	for _, tt := range tests {
		got, err := NormalizeGenre(tt.value)
		if tt.valid && (err != nil || got != tt.want) {
			t.Errorf("NormalizeGenre(%q) = %q, %v, want %q", tt.value, got, err, tt.want)
		}
		if !tt.valid && err == nil {
			t.Errorf("NormalizeGenre(%q) passed, want error", tt.value)
		}
	}
}

func TestNormalizeShopStatus(t *testing.T) {
	for _, status := range AllowedShopStatuses {
		if _, err := NormalizeShopStatus(status); err != nil {
			t.Errorf("NormalizeShopStatus(%q): %v", status, err)
		}
	}
	if _, err := NormalizeShopStatus(""); err == nil {
		t.Error("NormalizeShopStatus accepted empty, want error")
	}
	if _, err := NormalizeShopStatus("closed"); err == nil {
		t.Error("NormalizeShopStatus accepted closed, want error")
	}
}

func TestMembershipPredicates(t *testing.T) {
	if !IsWeekday("月") || IsWeekday("祝") {
		t.Error("IsWeekday table mismatch")
	}
	if !IsGenre("バー") || IsGenre("回転寿司") {
		t.Error("IsGenre table mismatch")
	}
	if !IsAccountRole("facility_manager") || IsAccountRole("owner") {
		t.Error("IsAccountRole table mismatch")
	}
	if !IsDiscountType("percent") || IsDiscountType("points") {
		t.Error("IsDiscountType table mismatch")
	}
}
