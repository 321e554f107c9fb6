// Package catalog declares the per-entity form definitions the admin screens
// run on: schema pair, edit-mode loader, reference lists, and the submitter
// that defers the actual create/update to the application services.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/rules"
	"github.com/tamanomi/tamanomi-services/api/internal/form/schema"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

// Catalog bundles the application services every definition submits through.
type Catalog struct {
	Merchants application.MerchantService
	Offices   application.OfficeService
	Shops     application.ShopService
	Coupons   application.CouponService
	Accounts  application.AccountService
}

// Definitions returns every entity definition the orchestrator serves.
func (c *Catalog) Definitions() []*workflow.Definition {
	defs := []*workflow.Definition{
		c.merchantDefinition(),
		c.officeDefinition(),
		c.shopDefinition(),
		c.couponDefinition(),
		c.officeWithManagerDefinition(),
	}
	for _, role := range []admindomain.AccountRole{
		admindomain.RoleAdmin,
		admindomain.RoleStaff,
		admindomain.RoleUser,
		admindomain.RoleFacilityManager,
	} {
		defs = append(defs, c.accountDefinition(role))
	}
	return defs
}

// conflictOnDuplicateEmail はメール重複をフィールドエラーへ写す。
// それ以外のエラーはそのまま返し、エンジン側で不明エラー扱いになる。
func conflictOnDuplicateEmail(err error, field string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, admindomain.ErrDuplicateEmail) {
		return &workflow.ConflictError{Field: field, Message: admindomain.ErrDuplicateEmail.Error()}
	}
	return err
}

// addressFields is the shared 住所 block: 郵便番号と都道府県以下。
func addressFields(required bool) []schema.Field {
	postal := rules.PostalCode()
	if required {
		postal = rules.Chain(rules.Required("郵便番号"), rules.PostalCode())
	}
	return []schema.Field{
		{Name: "postalCode", Label: "郵便番号", Type: schema.TypeString, Required: required, Rules: postal},
		{Name: "prefecture", Label: "都道府県", Type: schema.TypeString, Rules: rules.MaxLength("都道府県", 20)},
		{Name: "city", Label: "市区町村", Type: schema.TypeString, Rules: rules.MaxLength("市区町村", 100)},
		{Name: "street", Label: "番地", Type: schema.TypeString, Rules: rules.MaxLength("番地", 100)},
		{Name: "building", Label: "建物名", Type: schema.TypeString, Rules: rules.MaxLength("建物名", 100)},
	}
}

func addressValues(values map[string]any) (postalCode, prefecture, city, street, building string) {
	return schema.Text(values, "postalCode"),
		schema.Text(values, "prefecture"),
		schema.Text(values, "city"),
		schema.Text(values, "street"),
		schema.Text(values, "building")
}

func flattenAddressValues(prefix string, address admindomain.Address, into map[string]any) {
	into[prefix+"postalCode"] = address.PostalCode.String()
	into[prefix+"prefecture"] = address.Prefecture
	into[prefix+"city"] = address.City
	into[prefix+"street"] = address.Street
	into[prefix+"building"] = address.Building
}

// merchantOptions は事業者選択モーダル用の参照リスト。
func (c *Catalog) merchantOptions() workflow.Reference {
	return workflow.Reference{
		Name:     "事業者一覧",
		Optional: true,
		Load: func(ctx context.Context) ([]workflow.Option, error) {
			merchants, err := c.Merchants.List(ctx, application.MerchantFilter{}, application.Paging{Limit: 100})
			if err != nil {
				return nil, err
			}
			options := make([]workflow.Option, 0, len(merchants))
			for _, merchant := range merchants {
				options = append(options, workflow.Option{ID: merchant.ID, Label: merchant.Name})
			}
			return options, nil
		},
	}
}

// shopOptions は店舗選択モーダル用の参照リスト。
func (c *Catalog) shopOptions() workflow.Reference {
	return workflow.Reference{
		Name:     "店舗一覧",
		Optional: true,
		Load: func(ctx context.Context) ([]workflow.Option, error) {
			shops, err := c.Shops.List(ctx, application.ShopFilter{}, application.Paging{Limit: 100})
			if err != nil {
				return nil, err
			}
			options := make([]workflow.Option, 0, len(shops))
			for _, shop := range shops {
				options = append(options, workflow.Option{ID: shop.ID, Label: shop.Name})
			}
			return options, nil
		},
	}
}

// officeOptions は営業所選択用の参照リスト。施設管理者フォームが使う。
func (c *Catalog) officeOptions() workflow.Reference {
	return workflow.Reference{
		Name:     "営業所一覧",
		Optional: true,
		Load: func(ctx context.Context) ([]workflow.Option, error) {
			offices, err := c.Offices.List(ctx, application.OfficeFilter{}, application.Paging{Limit: 100})
			if err != nil {
				return nil, err
			}
			options := make([]workflow.Option, 0, len(offices))
			for _, office := range offices {
				options = append(options, workflow.Option{ID: office.ID, Label: office.Name})
			}
			return options, nil
		},
	}
}

func intFromNumber(values map[string]any, name string) int {
	num, ok := schema.Number(values, name)
	if !ok {
		return 0
	}
	return int(num)
}

func intPtrFromNumber(values map[string]any, name string) *int {
	num, ok := schema.Number(values, name)
	if !ok {
		return nil
	}
	value := int(num)
	return &value
}

func unexpectedMode(mode workflow.Mode) error {
	return fmt.Errorf("unexpected form mode: %s", mode)
}
