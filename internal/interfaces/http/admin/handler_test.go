package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminapp "github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/catalog"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
	"github.com/tamanomi/tamanomi-services/api/internal/interfaces/http/common"
)

type fakeMerchantService struct {
	adminapp.MerchantService
	created []adminapp.UpsertMerchantCommand
	err     error
}

func (f *fakeMerchantService) List(_ context.Context, _ adminapp.MerchantFilter, _ adminapp.Paging) ([]admindomain.Merchant, error) {
	return []admindomain.Merchant{{ID: "m-1", Name: "株式会社たまのみ"}}, nil
}

func (f *fakeMerchantService) Create(_ context.Context, cmd adminapp.UpsertMerchantCommand) (*admindomain.Merchant, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, cmd)
	return &admindomain.Merchant{ID: "m-new", Name: cmd.Name}, nil
}

type statusCall struct {
	ID     string
	Status string
}

type fakeShopService struct {
	adminapp.ShopService
	created       []adminapp.UpsertShopCommand
	createErr     error
	statusCalls   []statusCall
	statusErr     error
	detailMissing bool
}

func (f *fakeShopService) Create(_ context.Context, cmd adminapp.UpsertShopCommand) (*admindomain.Shop, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, cmd)
	return &admindomain.Shop{ID: "s-new", MerchantID: cmd.MerchantID, Name: cmd.Name, Genre: cmd.Genre, Status: admindomain.ShopStatusActive}, nil
}

func (f *fakeShopService) UpdateStatus(_ context.Context, id string, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statusCalls = append(f.statusCalls, statusCall{ID: id, Status: status})
	return nil
}

func (f *fakeShopService) Detail(_ context.Context, id string) (*admindomain.Shop, error) {
	if f.detailMissing {
		return nil, admindomain.ErrNotFound
	}
	return &admindomain.Shop{ID: id, Name: "たまのみ酒場 渋谷店", Genre: "居酒屋", Status: admindomain.ShopStatusActive}, nil
}

type memoryFormStore struct {
	sessions map[string]workflow.Session
}

func newMemoryFormStore() *memoryFormStore {
	return &memoryFormStore{sessions: make(map[string]workflow.Session)}
}

func (s *memoryFormStore) Insert(_ context.Context, session *workflow.Session) error {
	s.sessions[session.ID] = *session
	return nil
}

func (s *memoryFormStore) Get(_ context.Context, id string) (*workflow.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, admindomain.ErrNotFound
	}
	copied := session
	return &copied, nil
}

func (s *memoryFormStore) Update(_ context.Context, session *workflow.Session) error {
	s.sessions[session.ID] = *session
	return nil
}

func newTestRouter(t *testing.T, cfg Config) *chi.Mux {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stdout, "[admin-test] ", log.LstdFlags)
	}
	handler := NewHandler(cfg)
	router := chi.NewRouter()
	router.Route("/admin", handler.Register)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestMerchantCreateAcceptsFullBody(t *testing.T) {
	merchants := &fakeMerchantService{}
	router := newTestRouter(t, Config{MerchantService: merchants})

	recorder := doJSON(t, router, http.MethodPost, "/admin/merchants", map[string]any{
		"name":         "株式会社たまのみ",
		"nameKana":     "カブシキガイシャタマノミ",
		"accountEmail": "info@tamanomi.jp",
		"phone":        "0312345678",
		"postalCode":   "1500001",
		"prefecture":   "東京都",
		"city":         "渋谷区",
		"street":       "神宮前1-2-3",
		"websiteURL":   "https://tamanomi.jp",
		"description":  "飲食店向けクーポンプラットフォーム",
	})

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	require.Len(t, merchants.created, 1)
	cmd := merchants.created[0]
	assert.Equal(t, "株式会社たまのみ", cmd.Name)
	assert.Equal(t, "info@tamanomi.jp", cmd.AccountEmail)
	assert.Equal(t, "東京都", cmd.Prefecture)
}

func TestMerchantCreateDuplicateEmailReturns409FieldError(t *testing.T) {
	merchants := &fakeMerchantService{err: admindomain.ErrDuplicateEmail}
	router := newTestRouter(t, Config{MerchantService: merchants})

	recorder := doJSON(t, router, http.MethodPost, "/admin/merchants", map[string]any{
		"name":         "株式会社たまのみ",
		"accountEmail": "info@tamanomi.jp",
	})

	require.Equal(t, http.StatusConflict, recorder.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "accountEmail", body["field"])
	assert.Equal(t, "このメールアドレスは既に登録されています", body["message"])
}

func TestShopCreateWithoutGenreIsRejected(t *testing.T) {
	shops := &fakeShopService{createErr: errors.New("ジャンルを選択してください")}
	router := newTestRouter(t, Config{ShopService: shops})

	recorder := doJSON(t, router, http.MethodPost, "/admin/shops", map[string]any{
		"merchantId": "m-1",
		"name":       "たまのみ酒場 渋谷店",
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ジャンルを選択してください")
	assert.Empty(t, shops.created)
}

func TestShopCreateCarriesUsageDaysAndHours(t *testing.T) {
	shops := &fakeShopService{}
	router := newTestRouter(t, Config{ShopService: shops})

	recorder := doJSON(t, router, http.MethodPost, "/admin/shops", map[string]any{
		"merchantId":      "m-1",
		"name":            "たまのみ酒場 渋谷店",
		"genre":           "居酒屋",
		"couponUsageDays": []string{"月", "金"},
		"operatingHours": map[string]any{
			"月": map[string]string{"open": "17:00", "close": "23:00"},
		},
	})

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	require.Len(t, shops.created, 1)
	cmd := shops.created[0]
	assert.Contains(t, cmd.CouponUsageDays, "月")
	assert.Equal(t, adminapp.DayHoursCommand{Open: "17:00", Close: "23:00"}, cmd.OperatingHours["月"])
}

func TestShopStatusPatchIssuesSingleTerminate(t *testing.T) {
	shops := &fakeShopService{}
	router := newTestRouter(t, Config{ShopService: shops})

	recorder := doJSON(t, router, http.MethodPatch, "/admin/shops/s-1/status", map[string]string{
		"status": "terminated",
	})

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	require.Len(t, shops.statusCalls, 1, "ステータス更新はちょうど1回だけ発行される")
	assert.Equal(t, statusCall{ID: "s-1", Status: "terminated"}, shops.statusCalls[0])
}

func TestShopStatusPatchRejectsUnknownStatus(t *testing.T) {
	shops := &fakeShopService{}
	router := newTestRouter(t, Config{ShopService: shops})

	recorder := doJSON(t, router, http.MethodPatch, "/admin/shops/s-1/status", map[string]string{
		"status": "closed",
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, shops.statusCalls)
}

func TestShopStatusPatchLogsOperator(t *testing.T) {
	shops := &fakeShopService{}
	var logs bytes.Buffer
	handler := NewHandler(Config{ShopService: shops, Logger: log.New(&logs, "[admin-test] ", log.LstdFlags)})
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := common.ContextWithUser(r.Context(), common.AuthenticatedUser{
				ID: "a-1", Email: "staff@tamanomi.jp", Role: "admin",
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Route("/admin", handler.Register)

	recorder := doJSON(t, router, http.MethodPatch, "/admin/shops/s-1/status", map[string]string{
		"status": "suspended",
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Len(t, shops.statusCalls, 1)
	assert.Contains(t, logs.String(), "operator=staff@tamanomi.jp")
}

func TestTaxonomyListsFixedTables(t *testing.T) {
	router := newTestRouter(t, Config{})

	recorder := doJSON(t, router, http.MethodGet, "/admin/taxonomy", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []string{"月", "火", "水", "木", "金", "土", "日"}, body["weekdays"])
	assert.Contains(t, body["genres"], "居酒屋")
	assert.Contains(t, body["shopStatuses"], "terminated")
}

func TestFormSessionRoundTrip(t *testing.T) {
	merchants := &fakeMerchantService{}
	forms := workflow.New(
		log.New(os.Stdout, "[admin-test] ", log.LstdFlags),
		newMemoryFormStore(),
		(&catalog.Catalog{Merchants: merchants}).Definitions()...,
	)
	router := newTestRouter(t, Config{MerchantService: merchants, Forms: forms})

	// セッション開始
	recorder := doJSON(t, router, http.MethodPost, "/admin/forms/merchant/sessions", map[string]string{"mode": "create"})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var started formSessionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &started))
	require.NotEmpty(t, started.ID)
	assert.Equal(t, "ready", started.State)

	// フィールド入力
	recorder = doJSON(t, router, http.MethodPatch, "/admin/forms/sessions/"+started.ID+"/fields", map[string]any{
		"field": "name",
		"value": "株式会社たまのみ",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = doJSON(t, router, http.MethodPatch, "/admin/forms/sessions/"+started.ID+"/fields", map[string]any{
		"field": "accountEmail",
		"value": "info@tamanomi.jp",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	// 送信 → 確認ステップへ
	recorder = doJSON(t, router, http.MethodPost, "/admin/forms/sessions/"+started.ID+"/submit", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var submitted formSessionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &submitted))
	assert.Equal(t, "confirming", submitted.State)

	// 確定 → 作成が走りトースト付きリダイレクト先が返る
	recorder = doJSON(t, router, http.MethodPost, "/admin/forms/sessions/"+started.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var confirmed formConfirmResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &confirmed))
	assert.Equal(t, workflow.ResultSuccess, confirmed.Result.Kind)
	assert.Contains(t, confirmed.Result.RedirectTo, "/admin/merchants?toast=")
	require.Len(t, merchants.created, 1)
	assert.Equal(t, "株式会社たまのみ", merchants.created[0].Name)
}

func TestFormSubmitWithMissingRequiredFieldsStaysReady(t *testing.T) {
	merchants := &fakeMerchantService{}
	forms := workflow.New(
		log.New(os.Stdout, "[admin-test] ", log.LstdFlags),
		newMemoryFormStore(),
		(&catalog.Catalog{Merchants: merchants}).Definitions()...,
	)
	router := newTestRouter(t, Config{MerchantService: merchants, Forms: forms})

	recorder := doJSON(t, router, http.MethodPost, "/admin/forms/merchant/sessions", map[string]string{"mode": "create"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var started formSessionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &started))

	recorder = doJSON(t, router, http.MethodPost, "/admin/forms/sessions/"+started.ID+"/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	var submitted formConfirmResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &submitted))

	assert.Equal(t, "ready", submitted.Session.State)
	assert.Contains(t, submitted.Session.Errors, "name")
	assert.Equal(t, "name", submitted.Session.FirstErrorField)
	require.NotNil(t, submitted.Result)
	assert.Equal(t, workflow.ResultValidationFailure, submitted.Result.Kind)
	assert.Contains(t, submitted.Result.Errors, "name")
	assert.Empty(t, merchants.created)
}

func TestFormUnknownEntityIs404(t *testing.T) {
	forms := workflow.New(
		log.New(os.Stdout, "[admin-test] ", log.LstdFlags),
		newMemoryFormStore(),
	)
	router := newTestRouter(t, Config{Forms: forms})

	recorder := doJSON(t, router, http.MethodPost, "/admin/forms/banquet/sessions", map[string]string{"mode": "create"})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestFormConfirmConflictReturns409(t *testing.T) {
	merchants := &fakeMerchantService{err: admindomain.ErrDuplicateEmail}
	forms := workflow.New(
		log.New(os.Stdout, "[admin-test] ", log.LstdFlags),
		newMemoryFormStore(),
		(&catalog.Catalog{Merchants: merchants}).Definitions()...,
	)
	router := newTestRouter(t, Config{MerchantService: merchants, Forms: forms})

	recorder := doJSON(t, router, http.MethodPost, "/admin/forms/merchant/sessions", map[string]string{"mode": "create"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var started formSessionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &started))

	for field, value := range map[string]string{"name": "株式会社たまのみ", "accountEmail": "info@tamanomi.jp"} {
		recorder = doJSON(t, router, http.MethodPatch, "/admin/forms/sessions/"+started.ID+"/fields", map[string]any{
			"field": field,
			"value": value,
		})
		require.Equal(t, http.StatusOK, recorder.Code)
	}
	recorder = doJSON(t, router, http.MethodPost, "/admin/forms/sessions/"+started.ID+"/submit", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/admin/forms/sessions/"+started.ID+"/confirm", nil)
	require.Equal(t, http.StatusConflict, recorder.Code)
	var confirmed formConfirmResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &confirmed))
	assert.Equal(t, workflow.ResultConflict, confirmed.Result.Kind)
	assert.Equal(t, "accountEmail", confirmed.Result.Field)
	assert.Equal(t, "株式会社たまのみ", confirmed.Session.Values["name"])
}
