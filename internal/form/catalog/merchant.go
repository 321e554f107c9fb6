package catalog

import (
	"context"

	"github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/rules"
	"github.com/tamanomi/tamanomi-services/api/internal/form/schema"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

// merchantDefinition は事業者の登録・編集フォーム。
// 登録と編集でフィールド構成は同一のため Create スキーマを共用する。
func (c *Catalog) merchantDefinition() *workflow.Definition {
	fields := []schema.Field{
		{Name: "name", Label: "事業者名", Type: schema.TypeString, Required: true,
			Rules: rules.Chain(rules.Required("事業者名"), rules.MaxLength("事業者名", admindomain.MaxNameRunes))},
		{Name: "nameKana", Label: "事業者名カナ", Type: schema.TypeString,
			Rules: rules.Chain(rules.Kana(), rules.MaxLength("事業者名カナ", admindomain.MaxNameRunes))},
		{Name: "accountEmail", Label: "アカウントメールアドレス", Type: schema.TypeString, Required: true,
			Rules: rules.Chain(rules.Required("アカウントメールアドレス"), rules.Email())},
		{Name: "phone", Label: "電話番号", Type: schema.TypeString, Rules: rules.Phone()},
	}
	fields = append(fields, addressFields(false)...)
	fields = append(fields,
		schema.Field{Name: "websiteURL", Label: "WebサイトURL", Type: schema.TypeString, Rules: rules.WellFormedURL()},
		schema.Field{Name: "description", Label: "紹介文", Type: schema.TypeTextarea,
			Rules: rules.MaxLength("紹介文", admindomain.MaxDescriptionRunes)},
	)

	return &workflow.Definition{
		Entity: "merchant",
		Create: schema.New("merchant", fields),
		Load: func(ctx context.Context, entityID string) (map[string]any, error) {
			merchant, err := c.Merchants.Detail(ctx, entityID)
			if err != nil {
				return nil, err
			}
			values := map[string]any{
				"name":         merchant.Name,
				"nameKana":     merchant.NameKana.String(),
				"accountEmail": merchant.AccountEmail.String(),
				"phone":        merchant.Phone.String(),
				"websiteURL":   merchant.WebsiteURL.String(),
				"description":  merchant.Description,
			}
			flattenAddressValues("", merchant.Address, values)
			return values, nil
		},
		Submit: func(ctx context.Context, mode workflow.Mode, entityID string, values map[string]any) error {
			cmd := merchantCommand(values)
			var err error
			switch mode {
			case workflow.ModeCreate:
				_, err = c.Merchants.Create(ctx, cmd)
			case workflow.ModeEdit:
				_, err = c.Merchants.Update(ctx, entityID, cmd)
			default:
				return unexpectedMode(mode)
			}
			return conflictOnDuplicateEmail(err, "accountEmail")
		},
		ListPath:      "/admin/merchants",
		CreateMessage: "事業者を登録しました",
		UpdateMessage: "事業者情報を更新しました",
	}
}

func merchantCommand(values map[string]any) application.UpsertMerchantCommand {
	postalCode, prefecture, city, street, building := addressValues(values)
	return application.UpsertMerchantCommand{
		Name:         schema.Text(values, "name"),
		NameKana:     schema.Text(values, "nameKana"),
		AccountEmail: schema.Text(values, "accountEmail"),
		Phone:        schema.Text(values, "phone"),
		PostalCode:   postalCode,
		Prefecture:   prefecture,
		City:         city,
		Street:       street,
		Building:     building,
		WebsiteURL:   schema.Text(values, "websiteURL"),
		Description:  schema.Text(values, "description"),
	}
}
