package domain

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode"
)

type Email string

func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 254 {
		return "", fmt.Errorf("email too long")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("invalid email: %w", err)
	}
	return Email(trimmed), nil
}

func (e Email) String() string {
	return string(e)
}

type URL string

func NewURL(value string) (URL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	return URL(trimmed), nil
}

func (u URL) String() string {
	return string(u)
}

type PostalCode string

func NewPostalCode(value string) (PostalCode, error) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(value), "-", "")
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) != 7 || !isDigits(trimmed) {
		return "", fmt.Errorf("postal code must be 7 digits: %s", value)
	}
	return PostalCode(trimmed), nil
}

func (p PostalCode) String() string {
	return string(p)
}

type Phone string

func NewPhone(value string) (Phone, error) {
	trimmed := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(value))
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) < 10 || len(trimmed) > 11 || !isDigits(trimmed) {
		return "", fmt.Errorf("phone number must be 10-11 digits: %s", value)
	}
	return Phone(trimmed), nil
}

func (p Phone) String() string {
	return string(p)
}

// Kana holds a full-width katakana string (長音符・全角スペース許容).
type Kana string

func NewKana(value string) (Kana, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	for _, r := range trimmed {
		if unicode.In(r, unicode.Katakana) || r == 'ー' || r == '　' || r == ' ' {
			continue
		}
		return "", fmt.Errorf("kana must be full-width katakana: %s", value)
	}
	return Kana(trimmed), nil
}

func (k Kana) String() string {
	return string(k)
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Address groups the postal-code driven address fields shared by merchants, offices and shops.
type Address struct {
	PostalCode PostalCode
	Prefecture string
	City       string
	Street     string
	Building   string
}

func NewAddress(postalCode, prefecture, city, street, building string) (Address, error) {
	code, err := NewPostalCode(postalCode)
	if err != nil {
		return Address{}, err
	}
	return Address{
		PostalCode: code,
		Prefecture: strings.TrimSpace(prefecture),
		City:       strings.TrimSpace(city),
		Street:     strings.TrimSpace(street),
		Building:   strings.TrimSpace(building),
	}, nil
}
