package catalog

import (
	"context"

	"github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/rules"
	"github.com/tamanomi/tamanomi-services/api/internal/form/schema"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

// officeFields は営業所フォームの共通フィールド。緊急連絡先は
// emergencyContact.* のドット区切り名で入れ子を表す。
func officeFields(prefix string) []schema.Field {
	fields := []schema.Field{
		{Name: prefix + "merchantId", Label: "事業者", Type: schema.TypeString, Required: true,
			Rules: rules.Required("事業者")},
		{Name: prefix + "name", Label: "営業所名", Type: schema.TypeString, Required: true,
			Rules: rules.Chain(rules.Required("営業所名"), rules.MaxLength("営業所名", admindomain.MaxNameRunes))},
		{Name: prefix + "nameKana", Label: "営業所名カナ", Type: schema.TypeString,
			Rules: rules.Chain(rules.Kana(), rules.MaxLength("営業所名カナ", admindomain.MaxNameRunes))},
		{Name: prefix + "phone", Label: "電話番号", Type: schema.TypeString, Rules: rules.Phone()},
	}
	for _, f := range addressFields(false) {
		f.Name = prefix + f.Name
		fields = append(fields, f)
	}
	fields = append(fields,
		schema.Field{Name: prefix + "emergencyContact.name", Label: "緊急連絡先名", Type: schema.TypeString,
			Rules: rules.MaxLength("緊急連絡先名", admindomain.MaxNameRunes)},
		schema.Field{Name: prefix + "emergencyContact.phone", Label: "緊急連絡先電話番号", Type: schema.TypeString,
			Rules: rules.Phone()},
	)
	return fields
}

func (c *Catalog) officeDefinition() *workflow.Definition {
	return &workflow.Definition{
		Entity:     "office",
		Create:     schema.New("office", officeFields("")),
		References: []workflow.Reference{c.merchantOptions()},
		Load: func(ctx context.Context, entityID string) (map[string]any, error) {
			office, err := c.Offices.Detail(ctx, entityID)
			if err != nil {
				return nil, err
			}
			values := map[string]any{
				"merchantId":             office.MerchantID,
				"name":                   office.Name,
				"nameKana":               office.NameKana.String(),
				"phone":                  office.Phone.String(),
				"emergencyContact.name":  office.EmergencyContact.Name,
				"emergencyContact.phone": office.EmergencyContact.Phone.String(),
			}
			flattenAddressValues("", office.Address, values)
			return values, nil
		},
		Submit: func(ctx context.Context, mode workflow.Mode, entityID string, values map[string]any) error {
			cmd := officeCommand("", values)
			var err error
			switch mode {
			case workflow.ModeCreate:
				_, err = c.Offices.Create(ctx, cmd)
			case workflow.ModeEdit:
				_, err = c.Offices.Update(ctx, entityID, cmd)
			default:
				return unexpectedMode(mode)
			}
			return err
		},
		ListPath:      "/admin/offices",
		CreateMessage: "営業所を登録しました",
		UpdateMessage: "営業所情報を更新しました",
	}
}

func officeCommand(prefix string, values map[string]any) application.UpsertOfficeCommand {
	return application.UpsertOfficeCommand{
		MerchantID:     schema.Text(values, prefix+"merchantId"),
		Name:           schema.Text(values, prefix+"name"),
		NameKana:       schema.Text(values, prefix+"nameKana"),
		Phone:          schema.Text(values, prefix+"phone"),
		PostalCode:     schema.Text(values, prefix+"postalCode"),
		Prefecture:     schema.Text(values, prefix+"prefecture"),
		City:           schema.Text(values, prefix+"city"),
		Street:         schema.Text(values, prefix+"street"),
		Building:       schema.Text(values, prefix+"building"),
		EmergencyName:  schema.Text(values, prefix+"emergencyContact.name"),
		EmergencyPhone: schema.Text(values, prefix+"emergencyContact.phone"),
	}
}
