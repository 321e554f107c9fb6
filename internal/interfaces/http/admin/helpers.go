package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/interfaces/http/common"
)

// decodeBody はサイズ上限付きでリクエストボディを読み取る。
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(dst); err != nil {
		common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
		return false
	}
	return true
}

// pathID は {id} パラメータを取り出す。空なら 400 を書いて false を返す。
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		common.WriteError(h.logger, w, http.StatusBadRequest, "IDが指定されていません")
		return "", false
	}
	return id, true
}

// writeUpsertError は作成・更新系の失敗を HTTP ステータスへ写す。
// メール重複は 409 のフィールドエラー形式、見つからないは 404、その他は 400。
func (h *Handler) writeUpsertError(w http.ResponseWriter, err error, emailField string) {
	switch {
	case errors.Is(err, admindomain.ErrDuplicateEmail):
		common.WriteFieldConflict(h.logger, w, emailField, admindomain.ErrDuplicateEmail.Error())
	case errors.Is(err, admindomain.ErrNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "対象が見つかりません")
	default:
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	}
}

// writeFetchError は取得系の失敗を 404/500 へ写す。
func (h *Handler) writeFetchError(w http.ResponseWriter, err error, logPrefix string) {
	if errors.Is(err, admindomain.ErrNotFound) {
		common.WriteError(h.logger, w, http.StatusNotFound, "対象が見つかりません")
		return
	}
	h.logger.Printf("%s: %v", logPrefix, err)
	common.WriteError(h.logger, w, http.StatusInternalServerError, "情報の取得に失敗しました")
}
