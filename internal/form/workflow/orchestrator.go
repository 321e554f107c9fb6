package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tamanomi/tamanomi-services/api/internal/form/schema"
)

// Definition parametrizes the engine for one entity: schema pair, initial-data
// loader, reference lists, and the submitter that performs the deferred
// create/update. 各エンティティごとの個別オーケストレータは持たない。
type Definition struct {
	Entity string
	Create *schema.Schema
	Edit   *schema.Schema
	// Load returns the initial value map for edit mode. 失敗はそのセッション開始にとって致命的。
	Load func(ctx context.Context, entityID string) (map[string]any, error)
	// References lists auxiliary lookup loaders. Optional failures downgrade to notices.
	References []Reference
	// Submit performs the actual remote operation once the confirm step approves.
	Submit func(ctx context.Context, mode Mode, entityID string, values map[string]any) error

	ListPath      string
	CreateMessage string
	UpdateMessage string
}

// Reference is one auxiliary lookup list feeding a selector.
type Reference struct {
	Name     string
	Optional bool
	Load     func(ctx context.Context) ([]Option, error)
}

// Schema returns the variant for the session mode.
func (d *Definition) Schema(mode Mode) *schema.Schema {
	if mode == ModeEdit && d.Edit != nil {
		return d.Edit
	}
	return d.Create
}

var (
	ErrUnknownEntity = errors.New("unknown form entity")
	ErrUnknownField  = errors.New("unknown form field")
	// ErrBadState guards transitions: confirm は confirming からのみ、back も同様。
	ErrBadState = errors.New("invalid session state for this action")
)

// Orchestrator drives every form session through
// ready → confirming → done, one definition per entity.
type Orchestrator struct {
	logger *log.Logger
	store  Store
	defs   map[string]*Definition
	now    func() time.Time
	newID  func() string
}

// New constructs the orchestrator with the given entity definitions.
func New(logger *log.Logger, store Store, defs ...*Definition) *Orchestrator {
	byEntity := make(map[string]*Definition, len(defs))
	for _, def := range defs {
		byEntity[def.Entity] = def
	}
	return &Orchestrator{
		logger: logger,
		store:  store,
		defs:   byEntity,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Start opens a fresh session. Create mode seeds schema defaults; edit mode
// loads the entity (mandatory) and reference lists concurrently with
// settle-all semantics: optional reference failures become notices, not errors.
func (o *Orchestrator) Start(ctx context.Context, entity string, mode Mode, entityID string) (*Session, error) {
	def, ok := o.defs[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	if mode != ModeCreate && mode != ModeEdit {
		return nil, fmt.Errorf("不正なモードです: %s", mode)
	}
	if mode == ModeEdit && entityID == "" {
		return nil, errors.New("編集対象のIDが指定されていません")
	}
	if mode == ModeEdit && def.Load == nil {
		return nil, fmt.Errorf("%sは編集に対応していません", entity)
	}

	sch := def.Schema(mode)
	session := &Session{
		ID:         o.newID(),
		Entity:     entity,
		Mode:       mode,
		EntityID:   entityID,
		State:      StateReady,
		Values:     sch.Defaults(),
		Touched:    make(map[string]bool),
		Errors:     make(map[string]string),
		References: make(map[string][]Option),
		CreatedAt:  o.now(),
		UpdatedAt:  o.now(),
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)

	if mode == ModeEdit {
		group.Go(func() error {
			loaded, err := def.Load(groupCtx, entityID)
			if err != nil {
				return fmt.Errorf("編集対象の読み込みに失敗しました: %w", err)
			}
			mu.Lock()
			for name, value := range loaded {
				if _, ok := sch.Lookup(name); ok {
					session.Values[name] = value
				}
			}
			mu.Unlock()
			return nil
		})
	}

	for _, ref := range def.References {
		ref := ref
		group.Go(func() error {
			options, err := ref.Load(groupCtx)
			if err != nil {
				if ref.Optional {
					mu.Lock()
					session.Notices = append(session.Notices, fmt.Sprintf("%sの取得に失敗しました。再読み込みで再試行できます。", ref.Name))
					mu.Unlock()
					return nil
				}
				return fmt.Errorf("%sの取得に失敗しました: %w", ref.Name, err)
			}
			mu.Lock()
			session.References[ref.Name] = options
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := o.store.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("フォームセッションの保存に失敗しました: %w", err)
	}
	return session, nil
}

// Get loads a session by ID.
func (o *Orchestrator) Get(ctx context.Context, id string) (*Session, error) {
	return o.store.Get(ctx, id)
}

// UpdateField coerces and stores one value, marks the field touched, and
// re-validates just that field. 全フォーム再検証はしない。
func (o *Orchestrator) UpdateField(ctx context.Context, id, field string, raw any) (*Session, error) {
	session, def, err := o.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State == StateDone {
		return nil, ErrBadState
	}
	sch := def.Schema(session.Mode)
	if _, ok := sch.Lookup(field); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	session.touch(field)
	value, err := sch.Coerce(field, raw)
	if err != nil {
		// 型として解釈できない入力は値を据え置き、フィールドエラーとして返す。
		session.setError(field, err.Error())
	} else {
		session.Values[field] = value
		if msg := sch.ValidateField(field, session.Values); msg != "" {
			session.setError(field, msg)
		} else {
			session.clearError(field)
		}
		// ペアの相手側に付いたクロスエラーは、この編集で整合した時点で消す。
		// 相手が未操作ならエラー付与もしない（touched 単位の検証を守る）。
		for _, partner := range sch.CrossPartners(field) {
			if !session.Touched[partner] {
				continue
			}
			if msg := sch.ValidateField(partner, session.Values); msg != "" {
				session.setError(partner, msg)
			} else {
				session.clearError(partner)
			}
		}
	}

	session.FirstErrorField = sch.FirstErrorField(session.Errors)
	session.UpdatedAt = o.now()
	if err := o.store.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("フォームセッションの更新に失敗しました: %w", err)
	}
	return session, nil
}

// Submit marks every field touched and runs the full custom pass followed by
// the structural pass. Errors return the session to ready with a
// validation-failure result; a clean pass advances to the confirm step
// with a nil result.
func (o *Orchestrator) Submit(ctx context.Context, id string) (*Session, *Result, error) {
	session, def, err := o.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.State != StateReady && session.State != StateConfirming {
		return nil, nil, ErrBadState
	}
	sch := def.Schema(session.Mode)

	session.touchAll()
	errs := sch.Validate(session.Values)
	for field, msg := range sch.Structural(session.Values) {
		if _, taken := errs[field]; !taken {
			errs[field] = msg
		}
	}

	var result *Result
	if len(errs) > 0 {
		session.State = StateReady
		session.Errors = errs
		session.FirstErrorField = sch.FirstErrorField(errs)
		result = &Result{
			Kind:            ResultValidationFailure,
			Errors:          errs,
			FirstErrorField: session.FirstErrorField,
		}
	} else {
		session.State = StateConfirming
		session.Errors = make(map[string]string)
		session.FirstErrorField = ""
	}

	session.UpdatedAt = o.now()
	if err := o.store.Update(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("フォームセッションの更新に失敗しました: %w", err)
	}
	return session, result, nil
}

// Back is the confirm step's 修正する action: return to the form with values intact.
func (o *Orchestrator) Back(ctx context.Context, id string) (*Session, error) {
	session, _, err := o.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State != StateConfirming {
		return nil, ErrBadState
	}
	session.State = StateReady
	session.UpdatedAt = o.now()
	if err := o.store.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("フォームセッションの更新に失敗しました: %w", err)
	}
	return session, nil
}

// Confirm performs the deferred remote submission. Success finishes the
// session with a toast-carrying redirect; a conflict maps the server message
// onto its field and returns to ready; anything else keeps the session ready
// with all entered values intact.
func (o *Orchestrator) Confirm(ctx context.Context, id string) (*Session, *Result, error) {
	session, def, err := o.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.State != StateConfirming {
		return nil, nil, ErrBadState
	}

	submitErr := def.Submit(ctx, session.Mode, session.EntityID, session.Values)
	result := &Result{}
	switch {
	case submitErr == nil:
		message := def.CreateMessage
		if session.Mode == ModeEdit {
			message = def.UpdateMessage
		}
		session.State = StateDone
		result.Kind = ResultSuccess
		result.ToastMessage = message
		result.RedirectTo = def.ListPath + "?toast=" + url.QueryEscape(message)
	default:
		var conflict *ConflictError
		if errors.As(submitErr, &conflict) {
			session.State = StateReady
			session.touch(conflict.Field)
			session.setError(conflict.Field, conflict.Message)
			session.FirstErrorField = conflict.Field
			result.Kind = ResultConflict
			result.Field = conflict.Field
			result.Message = conflict.Message
		} else {
			o.logger.Printf("フォーム確定に失敗 entity=%s mode=%s err=%v", session.Entity, session.Mode, submitErr)
			session.State = StateReady
			result.Kind = ResultUnknownError
			result.Message = "登録処理に失敗しました。時間をおいて再度お試しください。"
		}
	}

	session.UpdatedAt = o.now()
	if err := o.store.Update(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("フォームセッションの更新に失敗しました: %w", err)
	}
	return session, result, nil
}

func (o *Orchestrator) load(ctx context.Context, id string) (*Session, *Definition, error) {
	session, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	def, ok := o.defs[session.Entity]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownEntity, session.Entity)
	}
	return session, def, nil
}
