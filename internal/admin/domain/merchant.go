package domain

import "time"

// Merchant aggregates the 事業者 record managed from the admin screens.
type Merchant struct {
	ID           string
	Name         string
	NameKana     Kana
	AccountEmail Email
	Phone        Phone
	Address      Address
	WebsiteURL   URL
	Description  string
	ShopCount    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
