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

// MerchantRepository は事業者集約の Mongo 実装。
type MerchantRepository struct {
	collection *mongo.Collection
}

// NewMerchantRepository は MongoDB コレクションを束縛した MerchantRepository を生成する。
func NewMerchantRepository(db *mongo.Database, collection string) *MerchantRepository {
	return &MerchantRepository{collection: db.Collection(collection)}
}

// Find は曖昧検索とページングをサポートした事業者一覧を返す。選択モーダルの検索もここを使う。
func (r *MerchantRepository) Find(ctx context.Context, filter application.MerchantFilter, paging application.Paging) ([]admindomain.Merchant, error) {
	mongoFilter := bson.M{}
	clauses := make([]bson.M, 0)
	if filter.Prefecture != "" {
		clauses = append(clauses, bson.M{"address.prefecture": filter.Prefecture})
	}
	if filter.Keyword != "" {
		pattern := regexp.QuoteMeta(filter.Keyword)
		regex := primitive.Regex{Pattern: pattern, Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": regex},
			bson.M{"nameKana": regex},
			bson.M{"accountEmail": regex},
		}})
	}
	if len(clauses) == 1 {
		mongoFilter = clauses[0]
	} else if len(clauses) > 1 {
		mongoFilter["$and"] = clauses
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = paging.Limit
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	opts.SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	merchants := make([]admindomain.Merchant, 0)
	for cursor.Next(ctx) {
		var doc MerchantDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		merchant, err := mapMerchant(doc)
		if err != nil {
			return nil, err
		}
		merchants = append(merchants, merchant)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return merchants, nil
}

// FindByID は 16 進 ObjectID を受け取り単一事業者を VO 化して返す。
func (r *MerchantRepository) FindByID(ctx context.Context, id string) (*admindomain.Merchant, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, admindomain.ErrNotFound
	}
	var doc MerchantDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, admindomain.ErrNotFound
		}
		return nil, err
	}
	merchant, err := mapMerchant(doc)
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

// Create はアカウントメールアドレスの重複チェックを行った上で事業者を新規作成する。
func (r *MerchantRepository) Create(ctx context.Context, merchant *admindomain.Merchant) error {
	if err := r.ensureEmailFree(ctx, merchant.AccountEmail.String(), primitive.NilObjectID); err != nil {
		return err
	}
	objectID := primitive.NewObjectID()
	payload := buildMerchantDocument(merchant, true)
	payload["_id"] = objectID
	if _, err := r.collection.InsertOne(ctx, payload); err != nil {
		return err
	}
	merchant.ID = objectID.Hex()
	return nil
}

// Update は重複チェックの上で $set による差し替えを行う。
func (r *MerchantRepository) Update(ctx context.Context, merchant *admindomain.Merchant) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(merchant.ID))
	if err != nil {
		return admindomain.ErrNotFound
	}
	if err := r.ensureEmailFree(ctx, merchant.AccountEmail.String(), objectID); err != nil {
		return err
	}
	update := buildMerchantDocument(merchant, false)
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

// Delete は事業者を物理削除する。
func (r *MerchantRepository) Delete(ctx context.Context, id string) error {
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

// ensureEmailFree はメールアドレスの一意性を検査し、衝突時は ErrDuplicateEmail を返す。
func (r *MerchantRepository) ensureEmailFree(ctx context.Context, email string, exclude primitive.ObjectID) error {
	filter := bson.M{"accountEmail": email}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	err := r.collection.FindOne(ctx, filter).Err()
	if err == nil {
		return admindomain.ErrDuplicateEmail
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}

// mapMerchant は Mongo ドキュメントをドメインの Merchant に変換する。
func mapMerchant(doc MerchantDocument) (admindomain.Merchant, error) {
	kana, err := admindomain.NewKana(doc.NameKana)
	if err != nil {
		return admindomain.Merchant{}, err
	}
	email, err := admindomain.NewEmail(doc.AccountEmail)
	if err != nil {
		return admindomain.Merchant{}, err
	}
	phone, err := admindomain.NewPhone(doc.Phone)
	if err != nil {
		return admindomain.Merchant{}, err
	}
	address, err := mapAddress(doc.Address)
	if err != nil {
		return admindomain.Merchant{}, err
	}
	website, err := admindomain.NewURL(doc.WebsiteURL)
	if err != nil {
		return admindomain.Merchant{}, err
	}

	merchant := admindomain.Merchant{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		NameKana:     kana,
		AccountEmail: email,
		Phone:        phone,
		Address:      address,
		WebsiteURL:   website,
		Description:  doc.Description,
		ShopCount:    doc.ShopCount,
	}
	if doc.CreatedAt != nil {
		merchant.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		merchant.UpdatedAt = *doc.UpdatedAt
	}
	return merchant, nil
}

// buildMerchantDocument は Merchant の値オブジェクト群を Mongo 用 BSON に展開する。
func buildMerchantDocument(merchant *admindomain.Merchant, includeCreated bool) bson.M {
	payload := bson.M{
		"name":         merchant.Name,
		"nameKana":     merchant.NameKana.String(),
		"accountEmail": merchant.AccountEmail.String(),
		"phone":        merchant.Phone.String(),
		"address":      flattenAddress(merchant.Address),
		"websiteURL":   merchant.WebsiteURL.String(),
		"description":  merchant.Description,
		"updatedAt":    time.Now().UTC(),
	}
	if includeCreated {
		payload["shopCount"] = 0
		payload["createdAt"] = time.Now().UTC()
	}
	return payload
}

// mapAddress / flattenAddress は住所埋め込みの相互変換。
func mapAddress(doc AddressDocument) (admindomain.Address, error) {
	return admindomain.NewAddress(doc.PostalCode, doc.Prefecture, doc.City, doc.Street, doc.Building)
}

func flattenAddress(address admindomain.Address) AddressDocument {
	return AddressDocument{
		PostalCode: address.PostalCode.String(),
		Prefecture: address.Prefecture,
		City:       address.City,
		Street:     address.Street,
		Building:   address.Building,
	}
}
