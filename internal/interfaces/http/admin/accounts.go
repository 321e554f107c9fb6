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

func (h *Handler) accountListHandler(role admindomain.AccountRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		queryValues := r.URL.Query()
		limit, _ := common.ParsePositiveInt(queryValues.Get("limit"), common.DefaultSearchLimit)
		filter := adminapp.AccountFilter{
			Role:    role,
			Keyword: strings.TrimSpace(queryValues.Get("keyword")),
		}
		paging := adminapp.Paging{Limit: common.ClampLimit(limit)}

		accounts, err := h.accountService.List(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("アカウント一覧の取得に失敗 role=%s: %v", role, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アカウント一覧の取得に失敗しました")
			return
		}

		items := make([]accountResponse, 0, len(accounts))
		for _, account := range accounts {
			items = append(items, accountToResponse(account))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) accountDetailHandler(role admindomain.AccountRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		account, err := h.accountService.Detail(ctx, id)
		if err != nil {
			h.writeFetchError(w, err, "アカウント詳細の取得に失敗 id="+id)
			return
		}
		// 別ロールの ID を直接叩かれた場合は存在しない扱いにする。
		if account.Role != role {
			common.WriteError(h.logger, w, http.StatusNotFound, "対象が見つかりません")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, accountToResponse(*account))
	}
}

func (h *Handler) accountCreateHandler(role admindomain.AccountRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accountUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		account, err := h.accountService.Create(ctx, accountUpsertToCommand(role, req))
		if err != nil {
			h.writeUpsertError(w, err, "email")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, accountToResponse(*account))
	}
}

func (h *Handler) accountUpdateHandler(role admindomain.AccountRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		var req accountUpsertRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		account, err := h.accountService.Update(ctx, id, accountUpsertToCommand(role, req))
		if err != nil {
			h.writeUpsertError(w, err, "email")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, accountToResponse(*account))
	}
}

func (h *Handler) accountDeleteHandler(role admindomain.AccountRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.accountService.Delete(ctx, id); err != nil {
			h.writeFetchError(w, err, "アカウントの削除に失敗 id="+id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
