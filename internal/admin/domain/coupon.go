package domain

import (
	"fmt"
	"strings"
	"time"
)

// Coupon は店舗に紐づく配布クーポン。利用可能期間は開始・終了が対で揃う。
type Coupon struct {
	ID            string
	ShopID        string
	Title         string
	Description   string
	DiscountType  DiscountType
	DiscountValue int
	UsageStartAt  string
	UsageEndAt    string
	PerUserLimit  *int
	Published     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

func NewDiscountType(value string) (DiscountType, error) {
	switch DiscountType(strings.TrimSpace(value)) {
	case DiscountPercent:
		return DiscountPercent, nil
	case DiscountAmount:
		return DiscountAmount, nil
	}
	return "", fmt.Errorf("invalid discount type: %s", value)
}

func (d DiscountType) String() string {
	return string(d)
}

// ValidateUsagePeriod enforces the paired start/end invariant.
func ValidateUsagePeriod(start, end string) error {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if (start == "") != (end == "") {
		return fmt.Errorf("usage period must set both start and end")
	}
	return nil
}
