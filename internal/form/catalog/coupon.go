package catalog

import (
	"context"

	"github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/rules"
	"github.com/tamanomi/tamanomi-services/api/internal/form/schema"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

// couponDefinition はクーポンフォーム。利用開始・利用終了は対で入力する。
func (c *Catalog) couponDefinition() *workflow.Definition {
	fields := []schema.Field{
		{Name: "shopId", Label: "店舗", Type: schema.TypeString, Required: true,
			Rules: rules.Required("店舗")},
		{Name: "title", Label: "クーポン名", Type: schema.TypeString, Required: true,
			Rules: rules.Chain(rules.Required("クーポン名"), rules.MaxLength("クーポン名", admindomain.MaxNameRunes))},
		{Name: "description", Label: "説明", Type: schema.TypeTextarea,
			Rules: rules.MaxLength("説明", admindomain.MaxDescriptionRunes)},
		{Name: "discountType", Label: "割引種別", Type: schema.TypeSelect, Required: true,
			Options: admindomain.AllowedDiscounts, Default: "percent", Rules: rules.Required("割引種別")},
		{Name: "discountValue", Label: "割引値", Type: schema.TypeNumber, Required: true,
			Rules: rules.Chain(rules.Required("割引値"), rules.MinNumber("割引値", 1))},
		{Name: "usageStartAt", Label: "利用開始", Type: schema.TypeString},
		{Name: "usageEndAt", Label: "利用終了", Type: schema.TypeString},
		{Name: "perUserLimit", Label: "1人あたり利用回数上限", Type: schema.TypeNumber,
			Rules: rules.MinNumber("1人あたり利用回数上限", 1)},
		{Name: "published", Label: "公開", Type: schema.TypeBoolean},
	}

	pairRule := schema.CrossRule{
		Field:  "usageStartAt",
		Fields: []string{"usageStartAt", "usageEndAt"},
		Check: func(values map[string]any) string {
			start := schema.Text(values, "usageStartAt")
			end := schema.Text(values, "usageEndAt")
			if (start == "") != (end == "") {
				return "利用開始と利用終了は両方指定してください"
			}
			return ""
		},
	}

	return &workflow.Definition{
		Entity:     "coupon",
		Create:     schema.New("coupon", fields, pairRule),
		References: []workflow.Reference{c.shopOptions()},
		Load: func(ctx context.Context, entityID string) (map[string]any, error) {
			coupon, err := c.Coupons.Detail(ctx, entityID)
			if err != nil {
				return nil, err
			}
			values := map[string]any{
				"shopId":        coupon.ShopID,
				"title":         coupon.Title,
				"description":   coupon.Description,
				"discountType":  coupon.DiscountType.String(),
				"discountValue": float64(coupon.DiscountValue),
				"usageStartAt":  coupon.UsageStartAt,
				"usageEndAt":    coupon.UsageEndAt,
				"published":     coupon.Published,
			}
			if coupon.PerUserLimit != nil {
				values["perUserLimit"] = float64(*coupon.PerUserLimit)
			} else {
				values["perUserLimit"] = nil
			}
			return values, nil
		},
		Submit: func(ctx context.Context, mode workflow.Mode, entityID string, values map[string]any) error {
			cmd := application.UpsertCouponCommand{
				ShopID:        schema.Text(values, "shopId"),
				Title:         schema.Text(values, "title"),
				Description:   schema.Text(values, "description"),
				DiscountType:  schema.Text(values, "discountType"),
				DiscountValue: intFromNumber(values, "discountValue"),
				UsageStartAt:  schema.Text(values, "usageStartAt"),
				UsageEndAt:    schema.Text(values, "usageEndAt"),
				PerUserLimit:  intPtrFromNumber(values, "perUserLimit"),
				Published:     schema.Flag(values, "published"),
			}
			var err error
			switch mode {
			case workflow.ModeCreate:
				_, err = c.Coupons.Create(ctx, cmd)
			case workflow.ModeEdit:
				_, err = c.Coupons.Update(ctx, entityID, cmd)
			default:
				return unexpectedMode(mode)
			}
			return err
		},
		ListPath:      "/admin/coupons",
		CreateMessage: "クーポンを登録しました",
		UpdateMessage: "クーポン情報を更新しました",
	}
}
