package admin

import (
	"time"

	adminapp "github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

type addressPayload struct {
	PostalCode string `json:"postalCode"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Street     string `json:"street"`
	Building   string `json:"building,omitempty"`
}

type merchantUpsertRequest struct {
	Name         string `json:"name"`
	NameKana     string `json:"nameKana"`
	AccountEmail string `json:"accountEmail"`
	Phone        string `json:"phone"`
	PostalCode   string `json:"postalCode"`
	Prefecture   string `json:"prefecture"`
	City         string `json:"city"`
	Street       string `json:"street"`
	Building     string `json:"building"`
	WebsiteURL   string `json:"websiteURL"`
	Description  string `json:"description"`
}

type merchantResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	NameKana     string         `json:"nameKana,omitempty"`
	AccountEmail string         `json:"accountEmail"`
	Phone        string         `json:"phone,omitempty"`
	Address      addressPayload `json:"address"`
	WebsiteURL   string         `json:"websiteURL,omitempty"`
	Description  string         `json:"description,omitempty"`
	ShopCount    int            `json:"shopCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type emergencyContactPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type officeUpsertRequest struct {
	MerchantID       string                  `json:"merchantId"`
	Name             string                  `json:"name"`
	NameKana         string                  `json:"nameKana"`
	Phone            string                  `json:"phone"`
	PostalCode       string                  `json:"postalCode"`
	Prefecture       string                  `json:"prefecture"`
	City             string                  `json:"city"`
	Street           string                  `json:"street"`
	Building         string                  `json:"building"`
	EmergencyContact emergencyContactPayload `json:"emergencyContact"`
}

type officeResponse struct {
	ID               string                  `json:"id"`
	MerchantID       string                  `json:"merchantId"`
	Name             string                  `json:"name"`
	NameKana         string                  `json:"nameKana,omitempty"`
	Phone            string                  `json:"phone,omitempty"`
	Address          addressPayload          `json:"address"`
	EmergencyContact emergencyContactPayload `json:"emergencyContact"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

type dayHoursPayload struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type shopUpsertRequest struct {
	MerchantID      string                     `json:"merchantId"`
	Name            string                     `json:"name"`
	NameKana        string                     `json:"nameKana"`
	Genre           string                     `json:"genre"`
	Scenes          []string                   `json:"scenes"`
	Phone           string                     `json:"phone"`
	PostalCode      string                     `json:"postalCode"`
	Prefecture      string                     `json:"prefecture"`
	City            string                     `json:"city"`
	Street          string                     `json:"street"`
	Building        string                     `json:"building"`
	Status          string                     `json:"status"`
	CouponUsageDays []string                   `json:"couponUsageDays"`
	OperatingHours  map[string]dayHoursPayload `json:"operatingHours"`
	WebsiteURL      string                     `json:"websiteURL"`
	Description     string                     `json:"description"`
}

type shopResponse struct {
	ID              string                     `json:"id"`
	MerchantID      string                     `json:"merchantId"`
	Name            string                     `json:"name"`
	NameKana        string                     `json:"nameKana,omitempty"`
	Genre           string                     `json:"genre"`
	Scenes          []string                   `json:"scenes,omitempty"`
	Phone           string                     `json:"phone,omitempty"`
	Address         addressPayload             `json:"address"`
	Status          string                     `json:"status"`
	CouponUsageDays []string                   `json:"couponUsageDays,omitempty"`
	OperatingHours  map[string]dayHoursPayload `json:"operatingHours,omitempty"`
	WebsiteURL      string                     `json:"websiteURL,omitempty"`
	Description     string                     `json:"description,omitempty"`
	CreatedAt       time.Time                  `json:"createdAt"`
	UpdatedAt       time.Time                  `json:"updatedAt"`
}

type shopStatusRequest struct {
	Status string `json:"status"`
}

type couponUpsertRequest struct {
	ShopID        string `json:"shopId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DiscountType  string `json:"discountType"`
	DiscountValue int    `json:"discountValue"`
	UsageStartAt  string `json:"usageStartAt"`
	UsageEndAt    string `json:"usageEndAt"`
	PerUserLimit  *int   `json:"perUserLimit"`
	Published     bool   `json:"published"`
}

type couponResponse struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shopId"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	DiscountType  string    `json:"discountType"`
	DiscountValue int       `json:"discountValue"`
	UsageStartAt  string    `json:"usageStartAt,omitempty"`
	UsageEndAt    string    `json:"usageEndAt,omitempty"`
	PerUserLimit  *int      `json:"perUserLimit,omitempty"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type accountUpsertRequest struct {
	Name     string `json:"name"`
	NameKana string `json:"nameKana"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	OfficeID string `json:"officeId"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	NameKana  string    `json:"nameKana,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	OfficeID  string    `json:"officeId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type officeWithManagerRequest struct {
	Office  officeUpsertRequest  `json:"office"`
	Manager accountUpsertRequest `json:"manager"`
}

type officeWithManagerResponse struct {
	Office  officeResponse  `json:"office"`
	Manager accountResponse `json:"manager"`
}

type formStartRequest struct {
	Mode     string `json:"mode"`
	EntityID string `json:"entityId"`
}

type formFieldRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type formSessionResponse struct {
	ID              string                       `json:"id"`
	Entity          string                       `json:"entity"`
	Mode            string                       `json:"mode"`
	EntityID        string                       `json:"entityId,omitempty"`
	State           string                       `json:"state"`
	Values          map[string]any               `json:"values"`
	Touched         []string                     `json:"touched"`
	Errors          map[string]string            `json:"errors"`
	Notices         []string                     `json:"notices,omitempty"`
	References      map[string][]workflow.Option `json:"references,omitempty"`
	FirstErrorField string                       `json:"firstErrorField,omitempty"`
}

type formConfirmResponse struct {
	Session formSessionResponse `json:"session"`
	Result  *workflow.Result    `json:"result"`
}

func addressToPayload(address admindomain.Address) addressPayload {
	return addressPayload{
		PostalCode: address.PostalCode.String(),
		Prefecture: address.Prefecture,
		City:       address.City,
		Street:     address.Street,
		Building:   address.Building,
	}
}

func merchantToResponse(merchant admindomain.Merchant) merchantResponse {
	return merchantResponse{
		ID:           merchant.ID,
		Name:         merchant.Name,
		NameKana:     merchant.NameKana.String(),
		AccountEmail: merchant.AccountEmail.String(),
		Phone:        merchant.Phone.String(),
		Address:      addressToPayload(merchant.Address),
		WebsiteURL:   merchant.WebsiteURL.String(),
		Description:  merchant.Description,
		ShopCount:    merchant.ShopCount,
		CreatedAt:    merchant.CreatedAt,
		UpdatedAt:    merchant.UpdatedAt,
	}
}

func officeToResponse(office admindomain.Office) officeResponse {
	return officeResponse{
		ID:         office.ID,
		MerchantID: office.MerchantID,
		Name:       office.Name,
		NameKana:   office.NameKana.String(),
		Phone:      office.Phone.String(),
		Address:    addressToPayload(office.Address),
		EmergencyContact: emergencyContactPayload{
			Name:  office.EmergencyContact.Name,
			Phone: office.EmergencyContact.Phone.String(),
		},
		CreatedAt: office.CreatedAt,
		UpdatedAt: office.UpdatedAt,
	}
}

func shopToResponse(shop admindomain.Shop) shopResponse {
	var hours map[string]dayHoursPayload
	if len(shop.OperatingHours) > 0 {
		hours = make(map[string]dayHoursPayload, len(shop.OperatingHours))
		for day, h := range shop.OperatingHours {
			hours[day] = dayHoursPayload{Open: h.Open, Close: h.Close}
		}
	}
	return shopResponse{
		ID:              shop.ID,
		MerchantID:      shop.MerchantID,
		Name:            shop.Name,
		NameKana:        shop.NameKana.String(),
		Genre:           shop.Genre,
		Scenes:          shop.Scenes,
		Phone:           shop.Phone.String(),
		Address:         addressToPayload(shop.Address),
		Status:          shop.Status.String(),
		CouponUsageDays: shop.CouponUsageDays,
		OperatingHours:  hours,
		WebsiteURL:      shop.WebsiteURL.String(),
		Description:     shop.Description,
		CreatedAt:       shop.CreatedAt,
		UpdatedAt:       shop.UpdatedAt,
	}
}

func couponToResponse(coupon admindomain.Coupon) couponResponse {
	return couponResponse{
		ID:            coupon.ID,
		ShopID:        coupon.ShopID,
		Title:         coupon.Title,
		Description:   coupon.Description,
		DiscountType:  coupon.DiscountType.String(),
		DiscountValue: coupon.DiscountValue,
		UsageStartAt:  coupon.UsageStartAt,
		UsageEndAt:    coupon.UsageEndAt,
		PerUserLimit:  coupon.PerUserLimit,
		Published:     coupon.Published,
		CreatedAt:     coupon.CreatedAt,
		UpdatedAt:     coupon.UpdatedAt,
	}
}

func accountToResponse(account admindomain.Account) accountResponse {
	return accountResponse{
		ID:        account.ID,
		Role:      account.Role.String(),
		Name:      account.Name,
		NameKana:  account.NameKana.String(),
		Email:     account.Email.String(),
		Phone:     account.Phone.String(),
		OfficeID:  account.OfficeID,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

func sessionToResponse(session *workflow.Session) formSessionResponse {
	touched := make([]string, 0, len(session.Touched))
	for name, ok := range session.Touched {
		if ok {
			touched = append(touched, name)
		}
	}
	errs := session.Errors
	if errs == nil {
		errs = map[string]string{}
	}
	return formSessionResponse{
		ID:              session.ID,
		Entity:          session.Entity,
		Mode:            string(session.Mode),
		EntityID:        session.EntityID,
		State:           string(session.State),
		Values:          session.Values,
		Touched:         touched,
		Errors:          errs,
		Notices:         session.Notices,
		References:      session.References,
		FirstErrorField: session.FirstErrorField,
	}
}

func merchantUpsertToCommand(req merchantUpsertRequest) adminapp.UpsertMerchantCommand {
	return adminapp.UpsertMerchantCommand{
		Name:         req.Name,
		NameKana:     req.NameKana,
		AccountEmail: req.AccountEmail,
		Phone:        req.Phone,
		PostalCode:   req.PostalCode,
		Prefecture:   req.Prefecture,
		City:         req.City,
		Street:       req.Street,
		Building:     req.Building,
		WebsiteURL:   req.WebsiteURL,
		Description:  req.Description,
	}
}

func officeUpsertToCommand(req officeUpsertRequest) adminapp.UpsertOfficeCommand {
	return adminapp.UpsertOfficeCommand{
		MerchantID:     req.MerchantID,
		Name:           req.Name,
		NameKana:       req.NameKana,
		Phone:          req.Phone,
		PostalCode:     req.PostalCode,
		Prefecture:     req.Prefecture,
		City:           req.City,
		Street:         req.Street,
		Building:       req.Building,
		EmergencyName:  req.EmergencyContact.Name,
		EmergencyPhone: req.EmergencyContact.Phone,
	}
}

func shopUpsertToCommand(req shopUpsertRequest) adminapp.UpsertShopCommand {
	var hours map[string]adminapp.DayHoursCommand
	if len(req.OperatingHours) > 0 {
		hours = make(map[string]adminapp.DayHoursCommand, len(req.OperatingHours))
		for day, h := range req.OperatingHours {
			hours[day] = adminapp.DayHoursCommand{Open: h.Open, Close: h.Close}
		}
	}
	return adminapp.UpsertShopCommand{
		MerchantID:      req.MerchantID,
		Name:            req.Name,
		NameKana:        req.NameKana,
		Genre:           req.Genre,
		Scenes:          req.Scenes,
		Phone:           req.Phone,
		PostalCode:      req.PostalCode,
		Prefecture:      req.Prefecture,
		City:            req.City,
		Street:          req.Street,
		Building:        req.Building,
		Status:          req.Status,
		CouponUsageDays: req.CouponUsageDays,
		OperatingHours:  hours,
		WebsiteURL:      req.WebsiteURL,
		Description:     req.Description,
	}
}

func couponUpsertToCommand(req couponUpsertRequest) adminapp.UpsertCouponCommand {
	return adminapp.UpsertCouponCommand{
		ShopID:        req.ShopID,
		Title:         req.Title,
		Description:   req.Description,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		UsageStartAt:  req.UsageStartAt,
		UsageEndAt:    req.UsageEndAt,
		PerUserLimit:  req.PerUserLimit,
		Published:     req.Published,
	}
}

func accountUpsertToCommand(role admindomain.AccountRole, req accountUpsertRequest) adminapp.UpsertAccountCommand {
	return adminapp.UpsertAccountCommand{
		Role:     role.String(),
		Name:     req.Name,
		NameKana: req.NameKana,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		OfficeID: req.OfficeID,
	}
}
