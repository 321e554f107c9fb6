package catalog

import (
	"context"

	"github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/schema"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

// officeWithManagerDefinition は営業所と施設管理者の同時登録フォーム。
// office.* と manager.* の名前空間で 2 エンティティ分の入力を 1 画面に束ね、
// 確定はアプリケーション層の複合登録へ委譲する（どちらかが失敗したら両方登録しない）。
func (c *Catalog) officeWithManagerDefinition() *workflow.Definition {
	fields := officeFields("office.")
	// 所属営業所は同時登録される営業所に自動で紐づくため、フォームには出さない。
	for _, f := range accountFields("manager.", admindomain.RoleFacilityManager, true) {
		if f.Name == "manager.officeId" {
			continue
		}
		fields = append(fields, f)
	}

	return &workflow.Definition{
		Entity:     "office-with-manager",
		Create:     schema.New("office-with-manager", fields),
		References: []workflow.Reference{c.merchantOptions()},
		Submit: func(ctx context.Context, mode workflow.Mode, _ string, values map[string]any) error {
			if mode != workflow.ModeCreate {
				return unexpectedMode(mode)
			}
			cmd := application.RegisterOfficeWithManagerCommand{
				Office:  officeCommand("office.", values),
				Manager: accountCommand("manager.", admindomain.RoleFacilityManager, values),
			}
			_, _, err := c.Offices.RegisterWithManager(ctx, cmd)
			return conflictOnDuplicateEmail(err, "manager.email")
		},
		ListPath:      "/admin/offices",
		CreateMessage: "営業所と施設管理者を登録しました",
	}
}
