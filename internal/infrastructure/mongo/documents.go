package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressDocument は事業者・営業所・店舗で共有する住所の埋め込み構造。
type AddressDocument struct {
	PostalCode string `bson:"postalCode,omitempty"`
	Prefecture string `bson:"prefecture,omitempty"`
	City       string `bson:"city,omitempty"`
	Street     string `bson:"street,omitempty"`
	Building   string `bson:"building,omitempty"`
}

// MerchantDocument は MongoDB 上での事業者スキーマを Go 構造体として表現したもの。
type MerchantDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	NameKana     string             `bson:"nameKana,omitempty"`
	AccountEmail string             `bson:"accountEmail"`
	Phone        string             `bson:"phone,omitempty"`
	Address      AddressDocument    `bson:"address,omitempty"`
	WebsiteURL   string             `bson:"websiteURL,omitempty"`
	Description  string             `bson:"description,omitempty"`
	ShopCount    int                `bson:"shopCount,omitempty"`
	CreatedAt    *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt    *time.Time         `bson:"updatedAt,omitempty"`
}

// OfficeDocument は営業所スキーマ。緊急連絡先を埋め込みで持つ。
type OfficeDocument struct {
	ID               primitive.ObjectID       `bson:"_id"`
	MerchantID       primitive.ObjectID       `bson:"merchantId"`
	Name             string                   `bson:"name"`
	NameKana         string                   `bson:"nameKana,omitempty"`
	Phone            string                   `bson:"phone,omitempty"`
	Address          AddressDocument          `bson:"address,omitempty"`
	EmergencyContact EmergencyContactDocument `bson:"emergencyContact,omitempty"`
	CreatedAt        *time.Time               `bson:"createdAt,omitempty"`
	UpdatedAt        *time.Time               `bson:"updatedAt,omitempty"`
}

// EmergencyContactDocument は営業所の緊急連絡先埋め込みドキュメント。
type EmergencyContactDocument struct {
	Name  string `bson:"name,omitempty"`
	Phone string `bson:"phone,omitempty"`
}

// ShopDocument は店舗スキーマ。曜日別営業時間は曜日ラベルをキーとするマップ。
type ShopDocument struct {
	ID              primitive.ObjectID          `bson:"_id"`
	MerchantID      primitive.ObjectID          `bson:"merchantId"`
	Name            string                      `bson:"name"`
	NameKana        string                      `bson:"nameKana,omitempty"`
	Genre           string                      `bson:"genre"`
	Scenes          []string                    `bson:"scenes,omitempty"`
	Phone           string                      `bson:"phone,omitempty"`
	Address         AddressDocument             `bson:"address,omitempty"`
	Status          string                      `bson:"status"`
	CouponUsageDays []string                    `bson:"couponUsageDays,omitempty"`
	OperatingHours  map[string]DayHoursDocument `bson:"operatingHours,omitempty"`
	WebsiteURL      string                      `bson:"websiteURL,omitempty"`
	Description     string                      `bson:"description,omitempty"`
	CreatedAt       *time.Time                  `bson:"createdAt,omitempty"`
	UpdatedAt       *time.Time                  `bson:"updatedAt,omitempty"`
}

// DayHoursDocument は一曜日分の営業時間埋め込みドキュメント。
type DayHoursDocument struct {
	Open  string `bson:"open"`
	Close string `bson:"close"`
}

// CouponDocument はクーポンスキーマ。
type CouponDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	ShopID        primitive.ObjectID `bson:"shopId"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description,omitempty"`
	DiscountType  string             `bson:"discountType"`
	DiscountValue int                `bson:"discountValue"`
	UsageStartAt  string             `bson:"usageStartAt,omitempty"`
	UsageEndAt    string             `bson:"usageEndAt,omitempty"`
	PerUserLimit  *int               `bson:"perUserLimit,omitempty"`
	Published     bool               `bson:"published"`
	CreatedAt     *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt     *time.Time         `bson:"updatedAt,omitempty"`
}

// AccountDocument は管理者・スタッフ・ユーザー・施設管理者共通のアカウントスキーマ。
type AccountDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Role         string             `bson:"role"`
	Name         string             `bson:"name"`
	NameKana     string             `bson:"nameKana,omitempty"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone,omitempty"`
	PasswordHash string             `bson:"passwordHash,omitempty"`
	OfficeID     string             `bson:"officeId,omitempty"`
	CreatedAt    *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt    *time.Time         `bson:"updatedAt,omitempty"`
}

// FormSessionDocument はサーバー側フォームセッションの永続形。
// 確認ステップの下書きを URL パラメータに載せないため Mongo に置く。
type FormSessionDocument struct {
	ID              string                      `bson:"_id"`
	Entity          string                      `bson:"entity"`
	Mode            string                      `bson:"mode"`
	EntityID        string                      `bson:"entityId,omitempty"`
	State           string                      `bson:"state"`
	Values          map[string]any              `bson:"values"`
	Touched         []string                    `bson:"touched,omitempty"`
	Errors          map[string]string           `bson:"errors,omitempty"`
	Notices         []string                    `bson:"notices,omitempty"`
	References      map[string][]OptionDocument `bson:"references,omitempty"`
	FirstErrorField string                      `bson:"firstErrorField,omitempty"`
	CreatedAt       time.Time                   `bson:"createdAt"`
	UpdatedAt       time.Time                   `bson:"updatedAt"`
}

// OptionDocument は選択モーダル用の参照データ1行。
type OptionDocument struct {
	ID    string `bson:"id"`
	Label string `bson:"label"`
}
