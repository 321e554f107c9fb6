package catalog

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

type fakeMerchantService struct {
	application.MerchantService
	created []application.UpsertMerchantCommand
	err     error
}

func (f *fakeMerchantService) List(_ context.Context, _ application.MerchantFilter, _ application.Paging) ([]admindomain.Merchant, error) {
	return []admindomain.Merchant{{ID: "m-1", Name: "株式会社たまのみ"}}, nil
}

func (f *fakeMerchantService) Create(_ context.Context, cmd application.UpsertMerchantCommand) (*admindomain.Merchant, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, cmd)
	return &admindomain.Merchant{ID: "m-new", Name: cmd.Name}, nil
}

type fakeShopService struct {
	application.ShopService
	created []application.UpsertShopCommand
}

func (f *fakeShopService) List(_ context.Context, _ application.ShopFilter, _ application.Paging) ([]admindomain.Shop, error) {
	return []admindomain.Shop{{ID: "s-1", Name: "たまのみ酒場 渋谷店"}}, nil
}

func (f *fakeShopService) Create(_ context.Context, cmd application.UpsertShopCommand) (*admindomain.Shop, error) {
	f.created = append(f.created, cmd)
	return &admindomain.Shop{ID: "s-new", Name: cmd.Name}, nil
}

type fakeOfficeService struct {
	application.OfficeService
	registered []application.RegisterOfficeWithManagerCommand
	err        error
}

func (f *fakeOfficeService) List(_ context.Context, _ application.OfficeFilter, _ application.Paging) ([]admindomain.Office, error) {
	return nil, nil
}

func (f *fakeOfficeService) RegisterWithManager(_ context.Context, cmd application.RegisterOfficeWithManagerCommand) (*admindomain.Office, *admindomain.Account, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.registered = append(f.registered, cmd)
	return &admindomain.Office{ID: "o-new"}, &admindomain.Account{ID: "a-new"}, nil
}

type memoryStore struct {
	sessions map[string]workflow.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]workflow.Session)}
}

func (s *memoryStore) Insert(_ context.Context, session *workflow.Session) error {
	s.sessions[session.ID] = *session
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*workflow.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	copied := session
	return &copied, nil
}

func (s *memoryStore) Update(_ context.Context, session *workflow.Session) error {
	s.sessions[session.ID] = *session
	return nil
}

func testEngine(t *testing.T, catalog *Catalog) *workflow.Orchestrator {
	t.Helper()
	logger := log.New(os.Stdout, "[catalog-test] ", log.LstdFlags)
	return workflow.New(logger, newMemoryStore(), catalog.Definitions()...)
}

func fill(t *testing.T, o *workflow.Orchestrator, id string, values map[string]any) {
	t.Helper()
	for field, value := range values {
		_, err := o.UpdateField(context.Background(), id, field, value)
		require.NoError(t, err, "field %s", field)
	}
}

func TestMerchantCreateSubmitsFullCommand(t *testing.T) {
	merchants := &fakeMerchantService{}
	o := testEngine(t, &Catalog{Merchants: merchants})

	session, err := o.Start(context.Background(), "merchant", workflow.ModeCreate, "")
	require.NoError(t, err)
	fill(t, o, session.ID, map[string]any{
		"name":         "株式会社たまのみ",
		"nameKana":     "カブシキガイシャタマノミ",
		"accountEmail": "info@tamanomi.jp",
		"phone":        "03-1234-5678",
		"postalCode":   "150-0001",
		"prefecture":   "東京都",
		"city":         "渋谷区",
		"street":       "神宮前1-2-3",
		"websiteURL":   "https://tamanomi.jp",
		"description":  "飲食店向けクーポンプラットフォーム",
	})

	session, _, err = o.Submit(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.StateConfirming, session.State)

	_, result, err := o.Confirm(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.ResultSuccess, result.Kind)

	require.Len(t, merchants.created, 1)
	cmd := merchants.created[0]
	assert.Equal(t, "株式会社たまのみ", cmd.Name)
	assert.Equal(t, "カブシキガイシャタマノミ", cmd.NameKana)
	assert.Equal(t, "info@tamanomi.jp", cmd.AccountEmail)
	assert.Equal(t, "03-1234-5678", cmd.Phone)
	assert.Equal(t, "150-0001", cmd.PostalCode)
	assert.Equal(t, "東京都", cmd.Prefecture)
	assert.Equal(t, "https://tamanomi.jp", cmd.WebsiteURL)
}

func TestMerchantDuplicateEmailBecomesConflictOnEmailField(t *testing.T) {
	merchants := &fakeMerchantService{err: admindomain.ErrDuplicateEmail}
	o := testEngine(t, &Catalog{Merchants: merchants})

	session, err := o.Start(context.Background(), "merchant", workflow.ModeCreate, "")
	require.NoError(t, err)
	fill(t, o, session.ID, map[string]any{
		"name":         "株式会社たまのみ",
		"accountEmail": "info@tamanomi.jp",
	})
	_, _, err = o.Submit(context.Background(), session.ID)
	require.NoError(t, err)

	session, result, err := o.Confirm(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, workflow.ResultConflict, result.Kind)
	assert.Equal(t, "accountEmail", result.Field)
	assert.Equal(t, "このメールアドレスは既に登録されています", session.Errors["accountEmail"])
	assert.Equal(t, "株式会社たまのみ", session.Values["name"])
}

func TestShopGenreRequiredBlocksSubmit(t *testing.T) {
	shops := &fakeShopService{}
	o := testEngine(t, &Catalog{Shops: shops, Merchants: &fakeMerchantService{}})

	session, err := o.Start(context.Background(), "shop", workflow.ModeCreate, "")
	require.NoError(t, err)
	fill(t, o, session.ID, map[string]any{
		"merchantId": "m-1",
		"name":       "たまのみ酒場 渋谷店",
	})

	session, _, err = o.Submit(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateReady, session.State)
	assert.Contains(t, session.Errors, "genre")
	assert.Empty(t, shops.created, "ジャンル未選択のまま店舗は作成されない")
}

func TestShopSubmitCarriesUsageDaysAndHours(t *testing.T) {
	shops := &fakeShopService{}
	o := testEngine(t, &Catalog{Shops: shops, Merchants: &fakeMerchantService{}})

	session, err := o.Start(context.Background(), "shop", workflow.ModeCreate, "")
	require.NoError(t, err)
	fill(t, o, session.ID, map[string]any{
		"merchantId":              "m-1",
		"name":                    "たまのみ酒場 渋谷店",
		"genre":                   "居酒屋",
		"couponUsageDays":         []string{"金", "月"},
		"operatingHours.月.open":  "17:00",
		"operatingHours.月.close": "23:00",
	})

	_, _, err = o.Submit(context.Background(), session.ID)
	require.NoError(t, err)
	_, result, err := o.Confirm(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.ResultSuccess, result.Kind)

	require.Len(t, shops.created, 1)
	cmd := shops.created[0]
	assert.Equal(t, "居酒屋", cmd.Genre)
	assert.Contains(t, cmd.CouponUsageDays, "月")
	assert.Contains(t, cmd.CouponUsageDays, "金")
	assert.Equal(t, application.DayHoursCommand{Open: "17:00", Close: "23:00"}, cmd.OperatingHours["月"])
}

func TestShopOperatingHoursMustBePaired(t *testing.T) {
	o := testEngine(t, &Catalog{Shops: &fakeShopService{}, Merchants: &fakeMerchantService{}})

	session, err := o.Start(context.Background(), "shop", workflow.ModeCreate, "")
	require.NoError(t, err)
	fill(t, o, session.ID, map[string]any{
		"merchantId":             "m-1",
		"name":                   "たまのみ酒場 渋谷店",
		"genre":                  "居酒屋",
		"operatingHours.火.open": "17:00",
	})

	session, _, err = o.Submit(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateReady, session.State)
	assert.Contains(t, session.Errors, "operatingHours.火.open")
}

func TestCouponUsagePeriodMustBePaired(t *testing.T) {
	o := testEngine(t, &Catalog{Shops: &fakeShopService{}})

	session, err := o.Start(context.Background(), "coupon", workflow.ModeCreate, "")
	require.NoError(t, err)
	fill(t, o, session.ID, map[string]any{
		"shopId":        "s-1",
		"title":         "生ビール1杯無料",
		"discountValue": "100",
		"usageStartAt":  "2026-09-01",
	})

	session, _, err = o.Submit(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateReady, session.State)
	assert.Equal(t, "利用開始と利用終了は両方指定してください", session.Errors["usageStartAt"])
}

func TestCouponPairErrorClearsWhenPeriodCompletes(t *testing.T) {
	o := testEngine(t, &Catalog{Shops: &fakeShopService{}})

	session, err := o.Start(context.Background(), "coupon", workflow.ModeCreate, "")
	require.NoError(t, err)

	session, err = o.UpdateField(context.Background(), session.ID, "usageStartAt", "2026-09-01")
	require.NoError(t, err)
	require.Equal(t, "利用開始と利用終了は両方指定してください", session.Errors["usageStartAt"])

	// 利用終了を入力して対が揃えば、送信を待たずにエラーが消える。
	session, err = o.UpdateField(context.Background(), session.ID, "usageEndAt", "2026-09-30")
	require.NoError(t, err)
	assert.NotContains(t, session.Errors, "usageStartAt")
}

func TestShopHoursPairErrorClearsWhenCloseEntered(t *testing.T) {
	o := testEngine(t, &Catalog{Shops: &fakeShopService{}, Merchants: &fakeMerchantService{}})

	session, err := o.Start(context.Background(), "shop", workflow.ModeCreate, "")
	require.NoError(t, err)

	session, err = o.UpdateField(context.Background(), session.ID, "operatingHours.火.open", "17:00")
	require.NoError(t, err)
	require.Contains(t, session.Errors, "operatingHours.火.open")

	session, err = o.UpdateField(context.Background(), session.ID, "operatingHours.火.close", "23:00")
	require.NoError(t, err)
	assert.NotContains(t, session.Errors, "operatingHours.火.open")
}

func TestOfficeWithManagerSubmitsCompositeCommand(t *testing.T) {
	offices := &fakeOfficeService{}
	o := testEngine(t, &Catalog{Offices: offices, Merchants: &fakeMerchantService{}})

	session, err := o.Start(context.Background(), "office-with-manager", workflow.ModeCreate, "")
	require.NoError(t, err)
	fill(t, o, session.ID, map[string]any{
		"office.merchantId": "m-1",
		"office.name":       "渋谷営業所",
		"manager.name":      "山田太郎",
		"manager.email":     "yamada@tamanomi.jp",
		"manager.password":  "secret-password",
	})

	_, _, err = o.Submit(context.Background(), session.ID)
	require.NoError(t, err)
	_, result, err := o.Confirm(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.ResultSuccess, result.Kind)

	require.Len(t, offices.registered, 1)
	cmd := offices.registered[0]
	assert.Equal(t, "渋谷営業所", cmd.Office.Name)
	assert.Equal(t, "m-1", cmd.Office.MerchantID)
	assert.Equal(t, "山田太郎", cmd.Manager.Name)
	assert.Equal(t, "facility_manager", cmd.Manager.Role)
}

func TestOfficeWithManagerDuplicateEmailMapsToManagerField(t *testing.T) {
	offices := &fakeOfficeService{err: admindomain.ErrDuplicateEmail}
	o := testEngine(t, &Catalog{Offices: offices, Merchants: &fakeMerchantService{}})

	session, err := o.Start(context.Background(), "office-with-manager", workflow.ModeCreate, "")
	require.NoError(t, err)
	fill(t, o, session.ID, map[string]any{
		"office.merchantId": "m-1",
		"office.name":       "渋谷営業所",
		"manager.name":      "山田太郎",
		"manager.email":     "yamada@tamanomi.jp",
		"manager.password":  "secret-password",
	})

	_, _, err = o.Submit(context.Background(), session.ID)
	require.NoError(t, err)
	session, result, err := o.Confirm(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, workflow.ResultConflict, result.Kind)
	assert.Equal(t, "manager.email", result.Field)
	assert.Contains(t, session.Errors, "manager.email")
}

func TestAccountEditPasswordOptional(t *testing.T) {
	catalog := &Catalog{}
	var def *workflow.Definition
	for _, d := range catalog.Definitions() {
		if d.Entity == "admin" {
			def = d
			break
		}
	}
	require.NotNil(t, def)

	createField, ok := def.Create.Lookup("password")
	require.True(t, ok)
	assert.True(t, createField.Required)

	editField, ok := def.Edit.Lookup("password")
	require.True(t, ok)
	assert.False(t, editField.Required)
}

func TestFacilityManagerRequiresOffice(t *testing.T) {
	catalog := &Catalog{}
	for _, def := range catalog.Definitions() {
		switch def.Entity {
		case "facility-manager":
			_, ok := def.Create.Lookup("officeId")
			assert.True(t, ok, "施設管理者フォームには所属営業所がある")
		case "admin", "staff", "user":
			_, ok := def.Create.Lookup("officeId")
			assert.False(t, ok, "%sフォームに所属営業所は出ない", def.Entity)
		}
	}
}
