package catalog

import (
	"context"

	"github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/rules"
	"github.com/tamanomi/tamanomi-services/api/internal/form/schema"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

// shopDefinition は店舗フォーム。曜日別営業時間は operatingHours.月.open の
// 形のフィールド名で、固定の曜日表から静的に列挙する。
func (c *Catalog) shopDefinition() *workflow.Definition {
	fields := []schema.Field{
		{Name: "merchantId", Label: "事業者", Type: schema.TypeString, Required: true,
			Rules: rules.Required("事業者")},
		{Name: "name", Label: "店舗名", Type: schema.TypeString, Required: true,
			Rules: rules.Chain(rules.Required("店舗名"), rules.MaxLength("店舗名", admindomain.MaxNameRunes))},
		{Name: "nameKana", Label: "店舗名カナ", Type: schema.TypeString,
			Rules: rules.Chain(rules.Kana(), rules.MaxLength("店舗名カナ", admindomain.MaxNameRunes))},
		{Name: "genre", Label: "ジャンル", Type: schema.TypeSelect, Required: true,
			Options: admindomain.AllowedGenres, Rules: rules.Required("ジャンル")},
		{Name: "scenes", Label: "利用シーン", Type: schema.TypeMultiSelect, Options: admindomain.AllowedScenes},
		{Name: "phone", Label: "電話番号", Type: schema.TypeString, Rules: rules.Phone()},
	}
	fields = append(fields, addressFields(false)...)
	fields = append(fields,
		schema.Field{Name: "status", Label: "ステータス", Type: schema.TypeSelect,
			Options: admindomain.AllowedShopStatuses, Default: "active"},
		schema.Field{Name: "couponUsageDays", Label: "クーポン利用可能曜日", Type: schema.TypeMultiSelect,
			Options: admindomain.Weekdays},
	)
	for _, day := range admindomain.Weekdays {
		fields = append(fields,
			schema.Field{Name: "operatingHours." + day + ".open", Label: day + "曜開店時刻", Type: schema.TypeString},
			schema.Field{Name: "operatingHours." + day + ".close", Label: day + "曜閉店時刻", Type: schema.TypeString},
		)
	}
	fields = append(fields,
		schema.Field{Name: "websiteURL", Label: "WebサイトURL", Type: schema.TypeString, Rules: rules.WellFormedURL()},
		schema.Field{Name: "description", Label: "紹介文", Type: schema.TypeTextarea,
			Rules: rules.MaxLength("紹介文", admindomain.MaxDescriptionRunes)},
	)

	cross := make([]schema.CrossRule, 0, len(admindomain.Weekdays))
	for _, day := range admindomain.Weekdays {
		day := day
		openField := "operatingHours." + day + ".open"
		closeField := "operatingHours." + day + ".close"
		cross = append(cross, schema.CrossRule{
			Field:  openField,
			Fields: []string{openField, closeField},
			Check: func(values map[string]any) string {
				open := schema.Text(values, openField)
				clos := schema.Text(values, closeField)
				if (open == "") != (clos == "") {
					return day + "曜の開店・閉店時刻は両方入力してください"
				}
				return ""
			},
		})
	}

	return &workflow.Definition{
		Entity:     "shop",
		Create:     schema.New("shop", fields, cross...),
		References: []workflow.Reference{c.merchantOptions()},
		Load: func(ctx context.Context, entityID string) (map[string]any, error) {
			shop, err := c.Shops.Detail(ctx, entityID)
			if err != nil {
				return nil, err
			}
			values := map[string]any{
				"merchantId":      shop.MerchantID,
				"name":            shop.Name,
				"nameKana":        shop.NameKana.String(),
				"genre":           shop.Genre,
				"scenes":          shop.Scenes,
				"phone":           shop.Phone.String(),
				"status":          shop.Status.String(),
				"couponUsageDays": shop.CouponUsageDays,
				"websiteURL":      shop.WebsiteURL.String(),
				"description":     shop.Description,
			}
			flattenAddressValues("", shop.Address, values)
			for _, day := range admindomain.Weekdays {
				hours := shop.OperatingHours[day]
				values["operatingHours."+day+".open"] = hours.Open
				values["operatingHours."+day+".close"] = hours.Close
			}
			return values, nil
		},
		Submit: func(ctx context.Context, mode workflow.Mode, entityID string, values map[string]any) error {
			cmd := shopCommand(values)
			var err error
			switch mode {
			case workflow.ModeCreate:
				_, err = c.Shops.Create(ctx, cmd)
			case workflow.ModeEdit:
				_, err = c.Shops.Update(ctx, entityID, cmd)
			default:
				return unexpectedMode(mode)
			}
			return err
		},
		ListPath:      "/admin/shops",
		CreateMessage: "店舗を登録しました",
		UpdateMessage: "店舗情報を更新しました",
	}
}

func shopCommand(values map[string]any) application.UpsertShopCommand {
	postalCode, prefecture, city, street, building := addressValues(values)

	hours := make(map[string]application.DayHoursCommand)
	for _, day := range admindomain.Weekdays {
		open := schema.Text(values, "operatingHours."+day+".open")
		clos := schema.Text(values, "operatingHours."+day+".close")
		if open == "" && clos == "" {
			continue
		}
		hours[day] = application.DayHoursCommand{Open: open, Close: clos}
	}

	return application.UpsertShopCommand{
		MerchantID:      schema.Text(values, "merchantId"),
		Name:            schema.Text(values, "name"),
		NameKana:        schema.Text(values, "nameKana"),
		Genre:           schema.Text(values, "genre"),
		Scenes:          schema.TextList(values, "scenes"),
		Phone:           schema.Text(values, "phone"),
		PostalCode:      postalCode,
		Prefecture:      prefecture,
		City:            city,
		Street:          street,
		Building:        building,
		Status:          schema.Text(values, "status"),
		CouponUsageDays: schema.TextList(values, "couponUsageDays"),
		OperatingHours:  hours,
		WebsiteURL:      schema.Text(values, "websiteURL"),
		Description:     schema.Text(values, "description"),
	}
}
