package domain

import (
	"fmt"
	"strings"
	"time"
)

// Shop は店舗集約。クーポン利用可能曜日と曜日別営業時間を持つ。
type Shop struct {
	ID              string
	MerchantID      string
	Name            string
	NameKana        Kana
	Genre           string
	Scenes          []string
	Phone           Phone
	Address         Address
	Status          ShopStatus
	CouponUsageDays []string
	OperatingHours  WeekHours
	WebsiteURL      URL
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ShopStatus string

const (
	ShopStatusActive     ShopStatus = "active"
	ShopStatusSuspended  ShopStatus = "suspended"
	ShopStatusTerminated ShopStatus = "terminated"
)

func NewShopStatus(value string) (ShopStatus, error) {
	switch ShopStatus(strings.TrimSpace(value)) {
	case ShopStatusActive:
		return ShopStatusActive, nil
	case ShopStatusSuspended:
		return ShopStatusSuspended, nil
	case ShopStatusTerminated:
		return ShopStatusTerminated, nil
	}
	return "", fmt.Errorf("invalid shop status: %s", value)
}

func (s ShopStatus) String() string {
	return string(s)
}

// DayHours は一曜日分の営業時間。両方空で定休日を表す。
type DayHours struct {
	Open  string
	Close string
}

// WeekHours maps weekday labels (月..日) to opening hours.
type WeekHours map[string]DayHours

// NewWeekHours validates weekday keys against the fixed table and drops empty entries.
func NewWeekHours(hours map[string]DayHours, weekdays []string) (WeekHours, error) {
	if len(hours) == 0 {
		return nil, nil
	}
	allowed := make(map[string]struct{}, len(weekdays))
	for _, day := range weekdays {
		allowed[day] = struct{}{}
	}
	result := make(WeekHours, len(hours))
	for day, h := range hours {
		if _, ok := allowed[day]; !ok {
			return nil, fmt.Errorf("invalid weekday: %s", day)
		}
		open := strings.TrimSpace(h.Open)
		clos := strings.TrimSpace(h.Close)
		if open == "" && clos == "" {
			continue
		}
		if (open == "") != (clos == "") {
			return nil, fmt.Errorf("operating hours for %s must set both open and close", day)
		}
		result[day] = DayHours{Open: open, Close: clos}
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}
