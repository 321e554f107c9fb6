package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
	"github.com/tamanomi/tamanomi-services/api/internal/interfaces/http/common"
)

// formStartHandler は登録・編集フォームのセッションを開始する。
// 編集モードは対象エンティティと参照リストを並行読み込みしてから返す。
func (h *Handler) formStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := strings.TrimSpace(chi.URLParam(r, "entity"))
		if entity == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "エンティティが指定されていません")
			return
		}

		var req formStartRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		mode := workflow.Mode(strings.TrimSpace(req.Mode))
		if mode == "" {
			mode = workflow.ModeCreate
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		session, err := h.forms.Start(ctx, entity, mode, strings.TrimSpace(req.EntityID))
		if err != nil {
			if errors.Is(err, workflow.ErrUnknownEntity) {
				common.WriteError(h.logger, w, http.StatusNotFound, "未対応のフォームです: "+entity)
				return
			}
			h.logger.Printf("フォームセッション開始に失敗 entity=%s mode=%s: %v", entity, mode, err)
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, sessionToResponse(session))
	}
}

func (h *Handler) formGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := h.forms.Get(ctx, id)
		if err != nil {
			h.writeFormError(w, err, "フォームセッションの取得に失敗 id="+id)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, sessionToResponse(session))
	}
}

// formUpdateFieldHandler は1フィールド分の入力反映とそのフィールドの検証を行う。
func (h *Handler) formUpdateFieldHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		var req formFieldRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		field := strings.TrimSpace(req.Field)
		if field == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "フィールド名が指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := h.forms.UpdateField(ctx, id, field, req.Value)
		if err != nil {
			h.writeFormError(w, err, "フォームフィールド更新に失敗 id="+id+" field="+field)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, sessionToResponse(session))
	}
}

// formSubmitHandler は全フィールド検証を行い、問題なければ確認ステップへ進める。
// 検証エラー時は validationFailure の結果を 422 で返す。
func (h *Handler) formSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, result, err := h.forms.Submit(ctx, id)
		if err != nil {
			h.writeFormError(w, err, "フォーム送信に失敗 id="+id)
			return
		}
		if result != nil {
			common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, formConfirmResponse{
				Session: sessionToResponse(session),
				Result:  result,
			})
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, sessionToResponse(session))
	}
}

// formBackHandler は確認ステップの「修正する」。入力値を保ったままフォームへ戻す。
func (h *Handler) formBackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := h.forms.Back(ctx, id)
		if err != nil {
			h.writeFormError(w, err, "確認ステップからの差し戻しに失敗 id="+id)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, sessionToResponse(session))
	}
}

// formConfirmHandler は確認ステップの「確定する」。ここで初めて永続化が走る。
func (h *Handler) formConfirmHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		session, result, err := h.forms.Confirm(ctx, id)
		if err != nil {
			h.writeFormError(w, err, "フォーム確定に失敗 id="+id)
			return
		}

		status := http.StatusOK
		if result.Kind == workflow.ResultConflict {
			status = http.StatusConflict
		}
		common.WriteJSON(h.logger, w, status, formConfirmResponse{
			Session: sessionToResponse(session),
			Result:  result,
		})
	}
}

// writeFormError はフォームエンジンのエラーを HTTP ステータスへ写す。
func (h *Handler) writeFormError(w http.ResponseWriter, err error, logPrefix string) {
	switch {
	case errors.Is(err, admindomain.ErrNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "フォームセッションが見つかりません")
	case errors.Is(err, workflow.ErrUnknownEntity):
		common.WriteError(h.logger, w, http.StatusNotFound, "未対応のフォームです")
	case errors.Is(err, workflow.ErrUnknownField):
		common.WriteError(h.logger, w, http.StatusBadRequest, "未知のフィールドです")
	case errors.Is(err, workflow.ErrBadState):
		common.WriteError(h.logger, w, http.StatusConflict, "この操作は現在の状態では実行できません")
	default:
		h.logger.Printf("%s: %v", logPrefix, err)
		common.WriteError(h.logger, w, http.StatusInternalServerError, "フォーム処理に失敗しました")
	}
}
