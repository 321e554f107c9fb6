package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tamanomi/tamanomi-services/api/internal/admin/application"
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
)

// AccountRepository は管理者・スタッフ・ユーザー・施設管理者を 1 コレクションで持つ Mongo 実装。
// メールアドレスの一意性は role を跨いで検査する。
type AccountRepository struct {
	collection *mongo.Collection
}

func NewAccountRepository(db *mongo.Database, collection string) *AccountRepository {
	return &AccountRepository{collection: db.Collection(collection)}
}

// Find はロール・キーワードで絞り込んだアカウント一覧を返す。
func (r *AccountRepository) Find(ctx context.Context, filter application.AccountFilter, paging application.Paging) ([]admindomain.Account, error) {
	clauses := make([]bson.M, 0)
	if filter.Role != "" {
		clauses = append(clauses, bson.M{"role": filter.Role.String()})
	}
	if filter.Keyword != "" {
		pattern := regexp.QuoteMeta(filter.Keyword)
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"name": primitive.Regex{Pattern: pattern, Options: "i"}},
			{"nameKana": primitive.Regex{Pattern: pattern, Options: "i"}},
			{"email": primitive.Regex{Pattern: pattern, Options: "i"}},
		}})
	}

	mongoFilter := bson.M{}
	if len(clauses) == 1 {
		mongoFilter = clauses[0]
	} else if len(clauses) > 1 {
		mongoFilter["$and"] = clauses
	}

	limit := paging.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	accounts := make([]admindomain.Account, 0)
	for cursor.Next(ctx) {
		var doc AccountDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		account, err := mapAccount(doc)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*admindomain.Account, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, admindomain.ErrNotFound
	}
	var doc AccountDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, admindomain.ErrNotFound
		}
		return nil, err
	}
	account, err := mapAccount(doc)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Create はメールアドレスの全ロール横断の重複チェックを行った上でアカウントを新規作成する。
func (r *AccountRepository) Create(ctx context.Context, account *admindomain.Account) error {
	if err := r.ensureEmailFree(ctx, account.Email.String(), primitive.NilObjectID); err != nil {
		return err
	}
	objectID := primitive.NewObjectID()
	payload := buildAccountDocument(account, true)
	payload["_id"] = objectID
	if _, err := r.collection.InsertOne(ctx, payload); err != nil {
		return err
	}
	account.ID = objectID.Hex()
	return nil
}

// Update は自分以外との重複を検査した上で更新する。
// PasswordHash が空の場合はフィールドごと除外し既存値を保持する。
func (r *AccountRepository) Update(ctx context.Context, account *admindomain.Account) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(account.ID))
	if err != nil {
		return admindomain.ErrNotFound
	}
	if err := r.ensureEmailFree(ctx, account.Email.String(), objectID); err != nil {
		return err
	}
	update := buildAccountDocument(account, false)
	if account.PasswordHash == "" {
		delete(update, "passwordHash")
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return admindomain.ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

// ensureEmailFree はロールを問わず同一メールアドレスの既存アカウントを検査する。
func (r *AccountRepository) ensureEmailFree(ctx context.Context, email string, excludeID primitive.ObjectID) error {
	if email == "" {
		return nil
	}
	filter := bson.M{"email": email}
	if excludeID != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return admindomain.ErrDuplicateEmail
	}
	return nil
}

func mapAccount(doc AccountDocument) (admindomain.Account, error) {
	role, err := admindomain.NewAccountRole(doc.Role)
	if err != nil {
		return admindomain.Account{}, err
	}
	kana, err := admindomain.NewKana(doc.NameKana)
	if err != nil {
		return admindomain.Account{}, err
	}
	email, err := admindomain.NewEmail(doc.Email)
	if err != nil {
		return admindomain.Account{}, err
	}
	phone, err := admindomain.NewPhone(doc.Phone)
	if err != nil {
		return admindomain.Account{}, err
	}

	account := admindomain.Account{
		ID:           doc.ID.Hex(),
		Role:         role,
		Name:         doc.Name,
		NameKana:     kana,
		Email:        email,
		Phone:        phone,
		PasswordHash: doc.PasswordHash,
		OfficeID:     doc.OfficeID,
	}
	if doc.CreatedAt != nil {
		account.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		account.UpdatedAt = *doc.UpdatedAt
	}
	return account, nil
}

func buildAccountDocument(account *admindomain.Account, includeCreated bool) bson.M {
	payload := bson.M{
		"role":         account.Role.String(),
		"name":         account.Name,
		"nameKana":     account.NameKana.String(),
		"email":        account.Email.String(),
		"phone":        account.Phone.String(),
		"passwordHash": account.PasswordHash,
		"officeId":     account.OfficeID,
		"updatedAt":    time.Now().UTC(),
	}
	if includeCreated {
		payload["createdAt"] = time.Now().UTC()
	}
	return payload
}
