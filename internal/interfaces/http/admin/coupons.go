package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	adminapp "github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	"github.com/tamanomi/tamanomi-services/api/internal/interfaces/http/common"
)

func (h *Handler) couponListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		queryValues := r.URL.Query()
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), common.DefaultSearchLimit)
		filter := adminapp.CouponFilter{
			ShopID:  strings.TrimSpace(queryValues.Get("shopId")),
			Keyword: strings.TrimSpace(queryValues.Get("keyword")),
		}
		switch strings.TrimSpace(queryValues.Get("published")) {
		case "true":
			published := true
			filter.Published = &published
		case "false":
			published := false
			filter.Published = &published
		}
		paging := adminapp.Paging{Limit: common.ClampLimit(limit)}

		coupons, err := h.couponService.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("クーポン一覧の取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "クーポン一覧の取得に失敗しました")
			return
		}

		items := make([]couponResponse, 0, len(coupons))
		for _, coupon := range coupons {
			items = append(items, couponToResponse(coupon))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) couponDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		coupon, err := h.couponService.Detail(ctx, id)
		if err != nil {
			h.writeFetchError(w, err, "クーポン詳細の取得に失敗 id="+id)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, couponToResponse(*coupon))
	}
}

func (h *Handler) couponCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req couponUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		coupon, err := h.couponService.Create(ctx, couponUpsertToCommand(req))
		if err != nil {
			h.writeUpsertError(w, err, "")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, couponToResponse(*coupon))
	}
}

func (h *Handler) couponUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		var req couponUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		coupon, err := h.couponService.Update(ctx, id, couponUpsertToCommand(req))
		if err != nil {
			h.writeUpsertError(w, err, "")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, couponToResponse(*coupon))
	}
}

func (h *Handler) couponDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.couponService.Delete(ctx, id); err != nil {
			h.writeFetchError(w, err, "クーポンの削除に失敗 id="+id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
