package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxDescriptionRunes limits merchant/shop/coupon description length to keep payloads sane.
	MaxDescriptionRunes = 2000
	// MaxNameRunes limits display names across entities.
	MaxNameRunes = 100
)

var (
	// Weekdays は営業時間・クーポン利用可能曜日で使う曜日ラベルの固定表。
	// 動的なフィールドパス組み立てを避けるため、必ずこの表を介して列挙する。
	Weekdays = []string{"月", "火", "水", "木", "金", "土", "日"}

	AllowedGenres       = []string{"居酒屋", "バー", "ダイニング", "カフェ", "ラーメン", "焼肉", "イタリアン", "和食"}
	AllowedScenes       = []string{"一人飲み", "サク飲み", "デート", "宴会", "女子会", "仕事帰り"}
	AllowedShopStatuses = []string{"active", "suspended", "terminated"}
	AllowedAccountRoles = []string{"admin", "staff", "user", "facility_manager"}
	AllowedDiscounts    = []string{"percent", "amount"}

	weekdaySet      = makeStringSet(Weekdays)
	genreSet        = makeStringSet(AllowedGenres)
	sceneSet        = makeStringSet(AllowedScenes)
	shopStatusSet   = makeStringSet(AllowedShopStatuses)
	accountRoleSet  = makeStringSet(AllowedAccountRoles)
	discountTypeSet = makeStringSet(AllowedDiscounts)
)

func makeStringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		set[item] = struct{}{}
	}
	return set
}

// IsWeekday は入力が曜日ラベル表に含まれるか判定する。
func IsWeekday(value string) bool {
	_, ok := weekdaySet[strings.TrimSpace(value)]
	return ok
}

// IsGenre は入力が取扱ジャンルに含まれるか判定する。
func IsGenre(value string) bool {
	_, ok := genreSet[strings.TrimSpace(value)]
	return ok
}

// IsShopStatus は店舗ステータス値の妥当性を判定する。
func IsShopStatus(value string) bool {
	_, ok := shopStatusSet[strings.TrimSpace(value)]
	return ok
}

// IsAccountRole はアカウント種別の妥当性を判定する。
func IsAccountRole(value string) bool {
	_, ok := accountRoleSet[strings.TrimSpace(value)]
	return ok
}

// IsDiscountType はクーポン割引種別の妥当性を判定する。
func IsDiscountType(value string) bool {
	_, ok := discountTypeSet[strings.TrimSpace(value)]
	return ok
}

// NormalizeWeekdays は曜日選択を検証し、固定表の順序で重複なく並べ直す。
func NormalizeWeekdays(values []string) ([]string, error) {
	selected := make(map[string]struct{}, len(values))
	for _, raw := range values {
		day := strings.TrimSpace(raw)
		if day == "" {
			continue
		}
		if _, ok := weekdaySet[day]; !ok {
			return nil, fmt.Errorf("不正な曜日です: %s", day)
		}
		selected[day] = struct{}{}
	}
	if len(selected) == 0 {
		return nil, nil
	}
	result := make([]string, 0, len(selected))
	for _, day := range Weekdays {
		if _, ok := selected[day]; ok {
			result = append(result, day)
		}
	}
	return result, nil
}

// NormalizeScenes は利用シーン選択を検証し、許可リスト外を弾く。
func NormalizeScenes(values []string) ([]string, error) {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{})
	for _, raw := range values {
		scene := strings.TrimSpace(raw)
		if scene == "" {
			continue
		}
		if _, ok := sceneSet[scene]; !ok {
			return nil, fmt.Errorf("不正な利用シーンです: %s", scene)
		}
		if _, ok := seen[scene]; ok {
			continue
		}
		seen[scene] = struct{}{}
		result = append(result, scene)
	}
	return result, nil
}

// NormalizeGenre はジャンル入力を検証する。未選択の必須判定は呼び出し側が行う。
func NormalizeGenre(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if _, ok := genreSet[trimmed]; !ok {
		return "", fmt.Errorf("不正なジャンルです: %s", trimmed)
	}
	return trimmed, nil
}

// NormalizeShopStatus は店舗ステータス入力を検証する。
func NormalizeShopStatus(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", errors.New("ステータスを指定してください")
	}
	if _, ok := shopStatusSet[trimmed]; !ok {
		return "", fmt.Errorf("不正なステータスです: %s", trimmed)
	}
	return trimmed, nil
}
