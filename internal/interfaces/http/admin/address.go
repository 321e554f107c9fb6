package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tamanomi/tamanomi-services/api/internal/gateway/address"
	"github.com/tamanomi/tamanomi-services/api/internal/interfaces/http/common"
)

// addressLookupHandler は郵便番号から住所候補を引く。外部 API の失敗は
// 手入力で続行できるよう、エラー本文を返すだけでフォーム自体は止めない。
func (h *Handler) addressLookupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postalCode := strings.TrimSpace(r.URL.Query().Get("postalCode"))
		if postalCode == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "郵便番号を指定してください")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		results, err := h.addressClient.Lookup(ctx, postalCode)
		if err != nil {
			if errors.Is(err, address.ErrNotFound) {
				common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
				return
			}
			h.logger.Printf("住所検索に失敗 postalCode=%s: %v", postalCode, err)
			common.WriteError(h.logger, w, http.StatusBadGateway, "住所検索に失敗しました。住所を直接入力してください")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": results})
	}
}

// taxonomyHandler は画面の選択肢をまとめて返す。値はすべて固定表。
func (h *Handler) taxonomyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"weekdays":      common.Weekdays,
			"genres":        common.AllowedGenres,
			"scenes":        common.AllowedScenes,
			"shopStatuses":  common.AllowedShopStatuses,
			"accountRoles":  common.AllowedAccountRoles,
			"discountTypes": common.AllowedDiscounts,
		})
	}
}
