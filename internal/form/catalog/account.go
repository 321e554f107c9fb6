package catalog

import (
	"context"

	"github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/rules"
	"github.com/tamanomi/tamanomi-services/api/internal/form/schema"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

// accountEntities maps roles to form entity slugs and screen labels.
var accountEntities = map[admindomain.AccountRole]struct {
	Entity   string
	Label    string
	ListPath string
}{
	admindomain.RoleAdmin:           {Entity: "admin", Label: "管理者", ListPath: "/admin/admins"},
	admindomain.RoleStaff:           {Entity: "staff", Label: "スタッフ", ListPath: "/admin/staffs"},
	admindomain.RoleUser:            {Entity: "user", Label: "ユーザー", ListPath: "/admin/users"},
	admindomain.RoleFacilityManager: {Entity: "facility-manager", Label: "施設管理者", ListPath: "/admin/facility-managers"},
}

// accountFields はロール共通のアカウントフォーム。パスワードは新規登録時のみ
// 必須で、編集時の空欄は既存パスワード維持を意味する。
func accountFields(prefix string, role admindomain.AccountRole, passwordRequired bool) []schema.Field {
	password := schema.Field{Name: prefix + "password", Label: "パスワード", Type: schema.TypePassword,
		Rules: rules.MaxLength("パスワード", 72)}
	if passwordRequired {
		password.Required = true
		password.Rules = rules.Chain(rules.Required("パスワード"), rules.MaxLength("パスワード", 72))
	}

	fields := []schema.Field{
		{Name: prefix + "name", Label: "氏名", Type: schema.TypeString, Required: true,
			Rules: rules.Chain(rules.Required("氏名"), rules.MaxLength("氏名", admindomain.MaxNameRunes))},
		{Name: prefix + "nameKana", Label: "氏名カナ", Type: schema.TypeString,
			Rules: rules.Chain(rules.Kana(), rules.MaxLength("氏名カナ", admindomain.MaxNameRunes))},
		{Name: prefix + "email", Label: "メールアドレス", Type: schema.TypeString, Required: true,
			Rules: rules.Chain(rules.Required("メールアドレス"), rules.Email())},
		{Name: prefix + "phone", Label: "電話番号", Type: schema.TypeString, Rules: rules.Phone()},
		password,
	}
	if role == admindomain.RoleFacilityManager {
		fields = append(fields, schema.Field{Name: prefix + "officeId", Label: "所属営業所", Type: schema.TypeString,
			Required: true, Rules: rules.Required("所属営業所")})
	}
	return fields
}

func (c *Catalog) accountDefinition(role admindomain.AccountRole) *workflow.Definition {
	meta := accountEntities[role]

	var references []workflow.Reference
	if role == admindomain.RoleFacilityManager {
		references = append(references, c.officeOptions())
	}

	return &workflow.Definition{
		Entity:     meta.Entity,
		Create:     schema.New(meta.Entity, accountFields("", role, true)),
		Edit:       schema.New(meta.Entity, accountFields("", role, false)),
		References: references,
		Load: func(ctx context.Context, entityID string) (map[string]any, error) {
			account, err := c.Accounts.Detail(ctx, entityID)
			if err != nil {
				return nil, err
			}
			values := map[string]any{
				"name":     account.Name,
				"nameKana": account.NameKana.String(),
				"email":    account.Email.String(),
				"phone":    account.Phone.String(),
				// パスワードハッシュは編集フォームに出さない。
				"password": "",
			}
			if role == admindomain.RoleFacilityManager {
				values["officeId"] = account.OfficeID
			}
			return values, nil
		},
		Submit: func(ctx context.Context, mode workflow.Mode, entityID string, values map[string]any) error {
			cmd := accountCommand("", role, values)
			var err error
			switch mode {
			case workflow.ModeCreate:
				_, err = c.Accounts.Create(ctx, cmd)
			case workflow.ModeEdit:
				_, err = c.Accounts.Update(ctx, entityID, cmd)
			default:
				return unexpectedMode(mode)
			}
			return conflictOnDuplicateEmail(err, "email")
		},
		ListPath:      meta.ListPath,
		CreateMessage: meta.Label + "を登録しました",
		UpdateMessage: meta.Label + "情報を更新しました",
	}
}

func accountCommand(prefix string, role admindomain.AccountRole, values map[string]any) application.UpsertAccountCommand {
	return application.UpsertAccountCommand{
		Role:     role.String(),
		Name:     schema.Text(values, prefix+"name"),
		NameKana: schema.Text(values, prefix+"nameKana"),
		Email:    schema.Text(values, prefix+"email"),
		Phone:    schema.Text(values, prefix+"phone"),
		Password: schema.Text(values, prefix+"password"),
		OfficeID: schema.Text(values, prefix+"officeId"),
	}
}
