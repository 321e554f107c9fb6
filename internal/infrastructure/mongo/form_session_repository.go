package mongo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
	"github.com/tamanomi/tamanomi-services/api/internal/form/workflow"
)

// FormSessionRepository はフォームセッションの Mongo 実装。workflow.Store を満たす。
// セッション ID はアプリケーション側で発番した UUID をそのまま _id に使う。
type FormSessionRepository struct {
	collection *mongo.Collection
}

func NewFormSessionRepository(db *mongo.Database, collection string) *FormSessionRepository {
	return &FormSessionRepository{collection: db.Collection(collection)}
}

func (r *FormSessionRepository) Insert(ctx context.Context, session *workflow.Session) error {
	_, err := r.collection.InsertOne(ctx, buildFormSessionDocument(session))
	return err
}

func (r *FormSessionRepository) Get(ctx context.Context, id string) (*workflow.Session, error) {
	var doc FormSessionDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": strings.TrimSpace(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, admindomain.ErrNotFound
		}
		return nil, err
	}
	session := mapFormSession(doc)
	return &session, nil
}

func (r *FormSessionRepository) Update(ctx context.Context, session *workflow.Session) error {
	session.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, buildFormSessionDocument(session))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

func mapFormSession(doc FormSessionDocument) workflow.Session {
	touched := make(map[string]bool, len(doc.Touched))
	for _, name := range doc.Touched {
		touched[name] = true
	}

	var references map[string][]workflow.Option
	if len(doc.References) > 0 {
		references = make(map[string][]workflow.Option, len(doc.References))
		for name, options := range doc.References {
			rows := make([]workflow.Option, 0, len(options))
			for _, option := range options {
				rows = append(rows, workflow.Option{ID: option.ID, Label: option.Label})
			}
			references[name] = rows
		}
	}

	return workflow.Session{
		ID:              doc.ID,
		Entity:          doc.Entity,
		Mode:            workflow.Mode(doc.Mode),
		EntityID:        doc.EntityID,
		State:           workflow.State(doc.State),
		Values:          doc.Values,
		Touched:         touched,
		Errors:          doc.Errors,
		Notices:         doc.Notices,
		References:      references,
		FirstErrorField: doc.FirstErrorField,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

func buildFormSessionDocument(session *workflow.Session) FormSessionDocument {
	touched := make([]string, 0, len(session.Touched))
	for name, ok := range session.Touched {
		if ok {
			touched = append(touched, name)
		}
	}
	sort.Strings(touched)

	var references map[string][]OptionDocument
	if len(session.References) > 0 {
		references = make(map[string][]OptionDocument, len(session.References))
		for name, options := range session.References {
			rows := make([]OptionDocument, 0, len(options))
			for _, option := range options {
				rows = append(rows, OptionDocument{ID: option.ID, Label: option.Label})
			}
			references[name] = rows
		}
	}

	return FormSessionDocument{
		ID:              session.ID,
		Entity:          session.Entity,
		Mode:            string(session.Mode),
		EntityID:        session.EntityID,
		State:           string(session.State),
		Values:          session.Values,
		Touched:         touched,
		Errors:          session.Errors,
		Notices:         session.Notices,
		References:      references,
		FirstErrorField: session.FirstErrorField,
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
}
