package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	adminapp "github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	"github.com/tamanomi/tamanomi-services/api/internal/interfaces/http/common"
)

func (h *Handler) merchantListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		queryValues := r.URL.Query()
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), common.DefaultSearchLimit)
		filter := adminapp.MerchantFilter{
			Prefecture: strings.TrimSpace(queryValues.Get("prefecture")),
			Keyword:    strings.TrimSpace(queryValues.Get("keyword")),
		}
		paging := adminapp.Paging{Limit: common.ClampLimit(limit)}

		merchants, err := h.merchantService.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("事業者一覧の取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "事業者一覧の取得に失敗しました")
			return
		}

		items := make([]merchantResponse, 0, len(merchants))
		for _, merchant := range merchants {
			items = append(items, merchantToResponse(merchant))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) merchantDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		merchant, err := h.merchantService.Detail(ctx, id)
		if err != nil {
			h.writeFetchError(w, err, "事業者詳細の取得に失敗 id="+id)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, merchantToResponse(*merchant))
	}
}

func (h *Handler) merchantCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req merchantUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		merchant, err := h.merchantService.Create(ctx, merchantUpsertToCommand(req))
		if err != nil {
			h.writeUpsertError(w, err, "accountEmail")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, merchantToResponse(*merchant))
	}
}

func (h *Handler) merchantUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		var req merchantUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		merchant, err := h.merchantService.Update(ctx, id, merchantUpsertToCommand(req))
		if err != nil {
			h.writeUpsertError(w, err, "accountEmail")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, merchantToResponse(*merchant))
	}
}

func (h *Handler) merchantDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.merchantService.Delete(ctx, id); err != nil {
			h.writeFetchError(w, err, "事業者の削除に失敗 id="+id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
