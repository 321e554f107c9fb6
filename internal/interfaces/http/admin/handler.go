package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
	"github.com/tamanomi/tamanomi-services/api/internal/gateway/address"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger          *log.Logger
	merchantService adminapp.MerchantService
	officeService   adminapp.OfficeService
	shopService     adminapp.ShopService
	couponService   adminapp.CouponService
	accountService  adminapp.AccountService
	forms           *workflow.Orchestrator
	addressClient   *address.Client
}

// Config provides dependencies for Handler.
type Config struct {
	Logger          *log.Logger
	MerchantService adminapp.MerchantService
	OfficeService   adminapp.OfficeService
	ShopService     adminapp.ShopService
	CouponService   adminapp.CouponService
	AccountService  adminapp.AccountService
	Forms           *workflow.Orchestrator
	AddressClient   *address.Client
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:          cfg.Logger,
		merchantService: cfg.MerchantService,
		officeService:   cfg.OfficeService,
		shopService:     cfg.ShopService,
		couponService:   cfg.CouponService,
		accountService:  cfg.AccountService,
		forms:           cfg.Forms,
		addressClient:   cfg.AddressClient,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/merchants", h.merchantListHandler())
	r.Get("/merchants/{id}", h.merchantDetailHandler())
	r.Post("/merchants", h.merchantCreateHandler())
	r.Put("/merchants/{id}", h.merchantUpdateHandler())
	r.Delete("/merchants/{id}", h.merchantDeleteHandler())

	r.Get("/offices", h.officeListHandler())
	r.Get("/offices/{id}", h.officeDetailHandler())
	r.Post("/offices", h.officeCreateHandler())
	r.Put("/offices/{id}", h.officeUpdateHandler())
	r.Delete("/offices/{id}", h.officeDeleteHandler())
	r.Post("/offices/with-manager", h.officeWithManagerHandler())

	r.Get("/shops", h.shopListHandler())
	r.Get("/shops/{id}", h.shopDetailHandler())
	r.Post("/shops", h.shopCreateHandler())
	r.Put("/shops/{id}", h.shopUpdateHandler())
	r.Patch("/shops/{id}/status", h.shopStatusHandler())
	r.Delete("/shops/{id}", h.shopDeleteHandler())

	r.Get("/coupons", h.couponListHandler())
	r.Get("/coupons/{id}", h.couponDetailHandler())
	r.Post("/coupons", h.couponCreateHandler())
	r.Put("/coupons/{id}", h.couponUpdateHandler())
	r.Delete("/coupons/{id}", h.couponDeleteHandler())

	// ロール別アカウント。パスごとに対象ロールを固定してマウントする。
	h.registerAccountRoutes(r, "/admins", admindomain.RoleAdmin)
	h.registerAccountRoutes(r, "/staffs", admindomain.RoleStaff)
	h.registerAccountRoutes(r, "/users", admindomain.RoleUser)
	h.registerAccountRoutes(r, "/facility-managers", admindomain.RoleFacilityManager)

	// フォームセッション。登録・編集画面の状態遷移はすべてここを通る。
	r.Post("/forms/{entity}/sessions", h.formStartHandler())
	r.Get("/forms/sessions/{id}", h.formGetHandler())
	r.Patch("/forms/sessions/{id}/fields", h.formUpdateFieldHandler())
	r.Post("/forms/sessions/{id}/submit", h.formSubmitHandler())
	r.Post("/forms/sessions/{id}/back", h.formBackHandler())
	r.Post("/forms/sessions/{id}/confirm", h.formConfirmHandler())

	r.Get("/address", h.addressLookupHandler())
	r.Get("/taxonomy", h.taxonomyHandler())
}

// registerAccountRoutes は1ロール分のアカウント CRUD を prefix 配下にマウントする。
func (h *Handler) registerAccountRoutes(r chi.Router, prefix string, role admindomain.AccountRole) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.accountListHandler(role))
		r.Get("/{id}", h.accountDetailHandler(role))
		r.Post("/", h.accountCreateHandler(role))
		r.Put("/{id}", h.accountUpdateHandler(role))
		r.Delete("/{id}", h.accountDeleteHandler(role))
	})
}
