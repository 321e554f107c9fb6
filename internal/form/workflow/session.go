// Package workflow implements the entity form engine shared by every admin
// 編集フロー: 1 セッション = 1 編集セッションで、values/touched/errors を
// サーバー側に保持し、検証 → 確認 → 確定の状態遷移を司る。
package workflow

import (
	"context"
	"time"
)

// Mode distinguishes create and edit sessions.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// State is the persisted session state. Loading と Submitting は
// リクエスト内で完結する一時状態のため永続化しない。
type State string

const (
	StateReady      State = "ready"
	StateConfirming State = "confirming"
	StateDone       State = "done"
)

// Session is the server-held form state for one editing flow.
// errors のキーは必ずスキーマ上のフィールド名に対応する。
type Session struct {
	ID              string
	Entity          string
	Mode            Mode
	EntityID        string
	State           State
	Values          map[string]any
	Touched         map[string]bool
	Errors          map[string]string
	Notices         []string
	References      map[string][]Option
	FirstErrorField string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Option is one selectable row for selection modals (merchant/shop/genre pickers).
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Store persists sessions between requests.
type Store interface {
	Insert(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, session *Session) error
}

// touch marks a field as interacted with; required errors stay hidden until then.
func (s *Session) touch(field string) {
	if s.Touched == nil {
		s.Touched = make(map[string]bool)
	}
	s.Touched[field] = true
}

func (s *Session) touchAll() {
	if s.Touched == nil {
		s.Touched = make(map[string]bool)
	}
	for name := range s.Values {
		s.Touched[name] = true
	}
}

func (s *Session) setError(field, message string) {
	if s.Errors == nil {
		s.Errors = make(map[string]string)
	}
	s.Errors[field] = message
}

func (s *Session) clearError(field string) {
	delete(s.Errors, field)
}
