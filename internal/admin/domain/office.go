package domain

import "time"

// Office は事業者配下の営業所。MerchantID は参照キーであり所有関係ではない。
type Office struct {
	ID               string
	MerchantID       string
	Name             string
	NameKana         Kana
	Phone            Phone
	Address          Address
	EmergencyContact EmergencyContact
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EmergencyContact is the nested sub-object echoed verbatim on edit-mode loads.
type EmergencyContact struct {
	Name  string
	Phone Phone
}

func NewEmergencyContact(name, phone string) (EmergencyContact, error) {
	p, err := NewPhone(phone)
	if err != nil {
		return EmergencyContact{}, err
	}
	return EmergencyContact{Name: name, Phone: p}, nil
}
