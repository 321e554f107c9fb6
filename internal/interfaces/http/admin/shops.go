package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	adminapp "github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	"github.com/tamanomi/tamanomi-services/api/internal/interfaces/http/common"
)

func (h *Handler) shopListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		queryValues := r.URL.Query()
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), common.DefaultSearchLimit)
		filter := adminapp.ShopFilter{
			MerchantID: strings.TrimSpace(queryValues.Get("merchantId")),
			Genre:      strings.TrimSpace(queryValues.Get("genre")),
			Status:     strings.TrimSpace(queryValues.Get("status")),
			Keyword:    strings.TrimSpace(queryValues.Get("keyword")),
		}
		paging := adminapp.Paging{Limit: common.ClampLimit(limit)}

		shops, err := h.shopService.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("店舗一覧の取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "店舗一覧の取得に失敗しました")
			return
		}

		items := make([]shopResponse, 0, len(shops))
		for _, shop := range shops {
			items = append(items, shopToResponse(shop))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) shopDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		shop, err := h.shopService.Detail(ctx, id)
		if err != nil {
			h.writeFetchError(w, err, "店舗詳細の取得に失敗 id="+id)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, shopToResponse(*shop))
	}
}

func (h *Handler) shopCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shopUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		shop, err := h.shopService.Create(ctx, shopUpsertToCommand(req))
		if err != nil {
			h.writeUpsertError(w, err, "")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, shopToResponse(*shop))
	}
}

func (h *Handler) shopUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		var req shopUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		shop, err := h.shopService.Update(ctx, id, shopUpsertToCommand(req))
		if err != nil {
			h.writeUpsertError(w, err, "")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, shopToResponse(*shop))
	}
}

// shopStatusHandler は一覧画面のステータスセレクタからの部分更新。
// ステータス以外のフィールドは変更しない。
func (h *Handler) shopStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		var req shopStatusRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		if _, err := common.NormalizeShopStatus(req.Status); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.shopService.UpdateStatus(ctx, id, req.Status); err != nil {
			h.writeFetchError(w, err, "店舗ステータス更新に失敗 id="+id)
			return
		}
		// 誰がどのステータスに変えたかは問い合わせ対応で追うので操作者を残す。
		if user, ok := common.UserFromContext(r.Context()); ok {
			h.logger.Printf("店舗ステータス更新 id=%s status=%s operator=%s", id, strings.TrimSpace(req.Status), user.Email)
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"id": id, "status": strings.TrimSpace(req.Status)})
	}
}

func (h *Handler) shopDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.shopService.Delete(ctx, id); err != nil {
			h.writeFetchError(w, err, "店舗の削除に失敗 id="+id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
