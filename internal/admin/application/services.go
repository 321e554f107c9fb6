package application

import (
	"context"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
)

// MerchantRepository exposes admin operations on merchants.
type MerchantRepository interface {
	Find(ctx context.Context, filter MerchantFilter, paging Paging) ([]admindomain.Merchant, error)
	FindByID(ctx context.Context, id string) (*admindomain.Merchant, error)
	Create(ctx context.Context, merchant *admindomain.Merchant) error
	Update(ctx context.Context, merchant *admindomain.Merchant) error
	Delete(ctx context.Context, id string) error
}

// OfficeRepository exposes CRUD for 営業所.
type OfficeRepository interface {
	Find(ctx context.Context, filter OfficeFilter, paging Paging) ([]admindomain.Office, error)
	FindByID(ctx context.Context, id string) (*admindomain.Office, error)
	Create(ctx context.Context, office *admindomain.Office) error
	Update(ctx context.Context, office *admindomain.Office) error
	Delete(ctx context.Context, id string) error
}

// ShopRepository exposes CRUD plus the status sub-resource for 店舗.
type ShopRepository interface {
	Find(ctx context.Context, filter ShopFilter, paging Paging) ([]admindomain.Shop, error)
	FindByID(ctx context.Context, id string) (*admindomain.Shop, error)
	Create(ctx context.Context, shop *admindomain.Shop) error
	Update(ctx context.Context, shop *admindomain.Shop) error
	UpdateStatus(ctx context.Context, id string, status admindomain.ShopStatus) error
	Delete(ctx context.Context, id string) error
}

// CouponRepository exposes CRUD for coupons.
type CouponRepository interface {
	Find(ctx context.Context, filter CouponFilter, paging Paging) ([]admindomain.Coupon, error)
	FindByID(ctx context.Context, id string) (*admindomain.Coupon, error)
	Create(ctx context.Context, coupon *admindomain.Coupon) error
	Update(ctx context.Context, coupon *admindomain.Coupon) error
	Delete(ctx context.Context, id string) error
}

// AccountRepository exposes role-scoped CRUD for accounts.
// Create must enforce email uniqueness across every role.
type AccountRepository interface {
	Find(ctx context.Context, filter AccountFilter, paging Paging) ([]admindomain.Account, error)
	FindByID(ctx context.Context, id string) (*admindomain.Account, error)
	Create(ctx context.Context, account *admindomain.Account) error
	Update(ctx context.Context, account *admindomain.Account) error
	Delete(ctx context.Context, id string) error
}

// MerchantFilter expresses admin search criteria (selection modal included).
type MerchantFilter struct {
	Prefecture string
	Keyword    string
	Limit      int
}

// OfficeFilter narrows offices by owning merchant and keyword.
type OfficeFilter struct {
	MerchantID string
	Keyword    string
}

// ShopFilter expresses shop list/search criteria.
type ShopFilter struct {
	MerchantID string
	Genre      string
	Status     string
	Keyword    string
	Limit      int
}

// CouponFilter narrows coupons by shop and published state.
type CouponFilter struct {
	ShopID    string
	Published *bool
	Keyword   string
}

// AccountFilter narrows accounts by role and keyword.
type AccountFilter struct {
	Role    admindomain.AccountRole
	Keyword string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// MerchantService describes admin merchant use-cases.
type MerchantService interface {
	List(ctx context.Context, filter MerchantFilter, paging Paging) ([]admindomain.Merchant, error)
	Detail(ctx context.Context, id string) (*admindomain.Merchant, error)
	Create(ctx context.Context, cmd UpsertMerchantCommand) (*admindomain.Merchant, error)
	Update(ctx context.Context, id string, cmd UpsertMerchantCommand) (*admindomain.Merchant, error)
	Delete(ctx context.Context, id string) error
}

// OfficeService describes admin office use-cases, including the composite
// office + facility-manager registration.
type OfficeService interface {
	List(ctx context.Context, filter OfficeFilter, paging Paging) ([]admindomain.Office, error)
	Detail(ctx context.Context, id string) (*admindomain.Office, error)
	Create(ctx context.Context, cmd UpsertOfficeCommand) (*admindomain.Office, error)
	Update(ctx context.Context, id string, cmd UpsertOfficeCommand) (*admindomain.Office, error)
	Delete(ctx context.Context, id string) error
	RegisterWithManager(ctx context.Context, cmd RegisterOfficeWithManagerCommand) (*admindomain.Office, *admindomain.Account, error)
}

// ShopService describes admin shop use-cases.
type ShopService interface {
	List(ctx context.Context, filter ShopFilter, paging Paging) ([]admindomain.Shop, error)
	Detail(ctx context.Context, id string) (*admindomain.Shop, error)
	Create(ctx context.Context, cmd UpsertShopCommand) (*admindomain.Shop, error)
	Update(ctx context.Context, id string, cmd UpsertShopCommand) (*admindomain.Shop, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}

// CouponService describes admin coupon use-cases.
type CouponService interface {
	List(ctx context.Context, filter CouponFilter, paging Paging) ([]admindomain.Coupon, error)
	Detail(ctx context.Context, id string) (*admindomain.Coupon, error)
	Create(ctx context.Context, cmd UpsertCouponCommand) (*admindomain.Coupon, error)
	Update(ctx context.Context, id string, cmd UpsertCouponCommand) (*admindomain.Coupon, error)
	Delete(ctx context.Context, id string) error
}

// AccountService describes role-scoped account use-cases.
type AccountService interface {
	List(ctx context.Context, filter AccountFilter, paging Paging) ([]admindomain.Account, error)
	Detail(ctx context.Context, id string) (*admindomain.Account, error)
	Create(ctx context.Context, cmd UpsertAccountCommand) (*admindomain.Account, error)
	Update(ctx context.Context, id string, cmd UpsertAccountCommand) (*admindomain.Account, error)
	Delete(ctx context.Context, id string) error
}

// UpsertMerchantCommand contains inputs for creating/updating merchants.
type UpsertMerchantCommand struct {
	Name         string
	NameKana     string
	AccountEmail string
	Phone        string
	PostalCode   string
	Prefecture   string
	City         string
	Street       string
	Building     string
	WebsiteURL   string
	Description  string
}

// UpsertOfficeCommand contains inputs for office CRUD.
type UpsertOfficeCommand struct {
	MerchantID     string
	Name           string
	NameKana       string
	Phone          string
	PostalCode     string
	Prefecture     string
	City           string
	Street         string
	Building       string
	EmergencyName  string
	EmergencyPhone string
}

// DayHoursCommand is one weekday's opening hours input.
type DayHoursCommand struct {
	Open  string
	Close string
}

// UpsertShopCommand contains inputs for shop CRUD.
type UpsertShopCommand struct {
	MerchantID      string
	Name            string
	NameKana        string
	Genre           string
	Scenes          []string
	Phone           string
	PostalCode      string
	Prefecture      string
	City            string
	Street          string
	Building        string
	Status          string
	CouponUsageDays []string
	OperatingHours  map[string]DayHoursCommand
	WebsiteURL      string
	Description     string
}

// UpsertCouponCommand contains inputs for coupon CRUD.
type UpsertCouponCommand struct {
	ShopID        string
	Title         string
	Description   string
	DiscountType  string
	DiscountValue int
	UsageStartAt  string
	UsageEndAt    string
	PerUserLimit  *int
	Published     bool
}

// UpsertAccountCommand contains inputs for account CRUD.
// Password は平文で受け取り、サービス層でハッシュ化する。編集時の空文字は既存値維持。
type UpsertAccountCommand struct {
	Role     string
	Name     string
	NameKana string
	Email    string
	Phone    string
	Password string
	OfficeID string
}

// RegisterOfficeWithManagerCommand bundles the composite registration.
type RegisterOfficeWithManagerCommand struct {
	Office  UpsertOfficeCommand
	Manager UpsertAccountCommand
}
