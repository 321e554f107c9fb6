// Package rules はフォーム入力の単項検証規則を提供する。
// 各規則は値を受け取り、妥当なら空文字、そうでなければ利用者向けメッセージを返す純関数。
package rules

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule checks one value. Empty return means valid.
type Rule func(value any) string

// Chain applies rules in order and returns the first failing message.
// 1フィールドにつきメッセージは常に1件。集約はしない。
func Chain(checks ...Rule) Rule {
	return func(value any) string {
		for _, check := range checks {
			if msg := check(value); msg != "" {
				return msg
			}
		}
		return ""
	}
}

// Required は空値を弾く。nil・空文字・要素ゼロのスライスを未入力とみなす。
func Required(label string) Rule {
	return func(value any) string {
		if isEmpty(value) {
			return fmt.Sprintf("%sを入力してください", label)
		}
		return ""
	}
}

// MaxLength limits the rune count of string inputs.
func MaxLength(label string, max int) Rule {
	return func(value any) string {
		s, ok := value.(string)
		if !ok || s == "" {
			return ""
		}
		if utf8.RuneCountInString(s) > max {
			return fmt.Sprintf("%sは%d文字以内で入力してください", label, max)
		}
		return ""
	}
}

// PostalCode は 7 桁の数字（ハイフン許容）のみ受け付ける。
func PostalCode() Rule {
	return func(value any) string {
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return ""
		}
		digits := strings.ReplaceAll(strings.TrimSpace(s), "-", "")
		if len(digits) != 7 || !isDigits(digits) {
			return "郵便番号は7桁の数字で入力してください"
		}
		return ""
	}
}

// Phone は 10〜11 桁の数字（ハイフン・空白許容）のみ受け付ける。
func Phone() Rule {
	return func(value any) string {
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return ""
		}
		digits := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(s))
		if len(digits) < 10 || len(digits) > 11 || !isDigits(digits) {
			return "電話番号は10〜11桁の数字で入力してください"
		}
		return ""
	}
}

// WellFormedURL validates absolute URLs only; empty input passes.
func WellFormedURL() Rule {
	return func(value any) string {
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return ""
		}
		parsed, err := url.ParseRequestURI(strings.TrimSpace(s))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return "URLの形式が正しくありません"
		}
		return ""
	}
}

// Kana は全角カタカナ（長音符・全角/半角スペース許容）のみ受け付ける。
func Kana() Rule {
	return func(value any) string {
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return ""
		}
		for _, r := range strings.TrimSpace(s) {
			if unicode.In(r, unicode.Katakana) || r == 'ー' || r == '　' || r == ' ' {
				continue
			}
			return "全角カタカナで入力してください"
		}
		return ""
	}
}

// Email validates address syntax via net/mail; empty input passes.
func Email() Rule {
	return func(value any) string {
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return ""
		}
		trimmed := strings.TrimSpace(s)
		if len(trimmed) > 254 {
			return "メールアドレスは254文字以内で入力してください"
		}
		if _, err := mail.ParseAddress(trimmed); err != nil {
			return "メールアドレスの形式が正しくありません"
		}
		return ""
	}
}

// MinNumber は数値の下限を検証する。nil（未入力）は通す。
func MinNumber(label string, min float64) Rule {
	return func(value any) string {
		num, ok := toFloat(value)
		if !ok {
			return ""
		}
		if num < min {
			return fmt.Sprintf("%sは%.0f以上で入力してください", label, min)
		}
		return ""
	}
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
