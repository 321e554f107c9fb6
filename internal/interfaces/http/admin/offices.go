package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	adminapp "github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/interfaces/http/common"
)

func (h *Handler) officeListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		queryValues := r.URL.Query()
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), common.DefaultSearchLimit)
		filter := adminapp.OfficeFilter{
			MerchantID: strings.TrimSpace(queryValues.Get("merchantId")),
			Keyword:    strings.TrimSpace(queryValues.Get("keyword")),
		}
		paging := adminapp.Paging{Limit: common.ClampLimit(limit)}

		offices, err := h.officeService.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("営業所一覧の取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "営業所一覧の取得に失敗しました")
			return
		}

		items := make([]officeResponse, 0, len(offices))
		for _, office := range offices {
			items = append(items, officeToResponse(office))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) officeDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		office, err := h.officeService.Detail(ctx, id)
		if err != nil {
			h.writeFetchError(w, err, "営業所詳細の取得に失敗 id="+id)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, officeToResponse(*office))
	}
}

func (h *Handler) officeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req officeUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		office, err := h.officeService.Create(ctx, officeUpsertToCommand(req))
		if err != nil {
			h.writeUpsertError(w, err, "email")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, officeToResponse(*office))
	}
}

func (h *Handler) officeUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		var req officeUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		office, err := h.officeService.Update(ctx, id, officeUpsertToCommand(req))
		if err != nil {
			h.writeUpsertError(w, err, "email")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, officeToResponse(*office))
	}
}

func (h *Handler) officeDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.officeService.Delete(ctx, id); err != nil {
			h.writeFetchError(w, err, "営業所の削除に失敗 id="+id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// officeWithManagerHandler は営業所と施設管理者の同時登録。
// どちらかの作成が失敗した場合は両方とも登録されない。
func (h *Handler) officeWithManagerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req officeWithManagerRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		cmd := adminapp.RegisterOfficeWithManagerCommand{
			Office:  officeUpsertToCommand(req.Office),
			Manager: accountUpsertToCommand(admindomain.RoleFacilityManager, req.Manager),
		}
		office, manager, err := h.officeService.RegisterWithManager(ctx, cmd)
		if err != nil {
			h.writeUpsertError(w, err, "manager.email")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, officeWithManagerResponse{
			Office:  officeToResponse(*office),
			Manager: accountToResponse(*manager),
		})
	}
}
