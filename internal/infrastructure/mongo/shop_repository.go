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

// ShopRepository は店舗集約の Mongo 実装。
type ShopRepository struct {
	collection *mongo.Collection
	merchants  *mongo.Collection
}

// NewShopRepository は店舗・事業者コレクションを束縛した ShopRepository を生成する。
// 事業者コレクションは shopCount の整合に使う。
func NewShopRepository(db *mongo.Database, shopCollection, merchantCollection string) *ShopRepository {
	return &ShopRepository{
		collection: db.Collection(shopCollection),
		merchants:  db.Collection(merchantCollection),
	}
}

// Find は事業者・ジャンル・ステータス・キーワードで絞り込んだ店舗一覧を返す。
func (r *ShopRepository) Find(ctx context.Context, filter application.ShopFilter, paging application.Paging) ([]admindomain.Shop, error) {
	clauses := make([]bson.M, 0)
	if filter.MerchantID != "" {
		merchantID, err := primitive.ObjectIDFromHex(strings.TrimSpace(filter.MerchantID))
		if err != nil {
			return []admindomain.Shop{}, nil
		}
		clauses = append(clauses, bson.M{"merchantId": merchantID})
	}
	if filter.Genre != "" {
		clauses = append(clauses, bson.M{"genre": filter.Genre})
	}
	if filter.Status != "" {
		clauses = append(clauses, bson.M{"status": filter.Status})
	}
	if filter.Keyword != "" {
		pattern := regexp.QuoteMeta(filter.Keyword)
		regex := primitive.Regex{Pattern: pattern, Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": regex},
			bson.M{"nameKana": regex},
		}})
	}

	mongoFilter := bson.M{}
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

	shops := make([]admindomain.Shop, 0)
	for cursor.Next(ctx) {
		var doc ShopDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		shop, err := mapShop(doc)
		if err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return shops, nil
}

// FindByID は単一店舗を VO 化して返す。
func (r *ShopRepository) FindByID(ctx context.Context, id string) (*admindomain.Shop, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, admindomain.ErrNotFound
	}
	var doc ShopDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, admindomain.ErrNotFound
		}
		return nil, err
	}
	shop, err := mapShop(doc)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// Create は店舗を新規作成し、事業者の shopCount を加算する。
func (r *ShopRepository) Create(ctx context.Context, shop *admindomain.Shop) error {
	merchantID, err := primitive.ObjectIDFromHex(strings.TrimSpace(shop.MerchantID))
	if err != nil {
		return errors.New("事業者IDの形式が不正です")
	}
	objectID := primitive.NewObjectID()
	payload := buildShopDocument(shop, merchantID, true)
	payload["_id"] = objectID
	if _, err := r.collection.InsertOne(ctx, payload); err != nil {
		return err
	}
	shop.ID = objectID.Hex()
	if _, err := r.merchants.UpdateByID(ctx, merchantID, bson.M{"$inc": bson.M{"shopCount": 1}}); err != nil {
		return err
	}
	return nil
}

// Update は $set による差し替えを行う。
func (r *ShopRepository) Update(ctx context.Context, shop *admindomain.Shop) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(shop.ID))
	if err != nil {
		return admindomain.ErrNotFound
	}
	merchantID, err := primitive.ObjectIDFromHex(strings.TrimSpace(shop.MerchantID))
	if err != nil {
		return errors.New("事業者IDの形式が不正です")
	}
	update := buildShopDocument(shop, merchantID, false)
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

// UpdateStatus は一覧画面のステータス変更専用の部分更新。更新対象はステータスのみ。
func (r *ShopRepository) UpdateStatus(ctx context.Context, id string, status admindomain.ShopStatus) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return admindomain.ErrNotFound
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{
		"status":    status.String(),
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

// Delete は店舗を削除し、事業者の shopCount を減算する。
func (r *ShopRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return admindomain.ErrNotFound
	}
	var doc ShopDocument
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return admindomain.ErrNotFound
		}
		return err
	}
	if _, err := r.merchants.UpdateByID(ctx, doc.MerchantID, bson.M{"$inc": bson.M{"shopCount": -1}}); err != nil {
		return err
	}
	return nil
}

// mapShop は Mongo ドキュメントをドメインの Shop に変換する。
func mapShop(doc ShopDocument) (admindomain.Shop, error) {
	kana, err := admindomain.NewKana(doc.NameKana)
	if err != nil {
		return admindomain.Shop{}, err
	}
	phone, err := admindomain.NewPhone(doc.Phone)
	if err != nil {
		return admindomain.Shop{}, err
	}
	address, err := mapAddress(doc.Address)
	if err != nil {
		return admindomain.Shop{}, err
	}
	status, err := admindomain.NewShopStatus(doc.Status)
	if err != nil {
		return admindomain.Shop{}, err
	}
	website, err := admindomain.NewURL(doc.WebsiteURL)
	if err != nil {
		return admindomain.Shop{}, err
	}
	hours := make(map[string]admindomain.DayHours, len(doc.OperatingHours))
	for day, h := range doc.OperatingHours {
		hours[day] = admindomain.DayHours{Open: h.Open, Close: h.Close}
	}
	weekHours, err := admindomain.NewWeekHours(hours, admindomain.Weekdays)
	if err != nil {
		return admindomain.Shop{}, err
	}

	shop := admindomain.Shop{
		ID:              doc.ID.Hex(),
		MerchantID:      doc.MerchantID.Hex(),
		Name:            doc.Name,
		NameKana:        kana,
		Genre:           doc.Genre,
		Scenes:          append([]string{}, doc.Scenes...),
		Phone:           phone,
		Address:         address,
		Status:          status,
		CouponUsageDays: append([]string{}, doc.CouponUsageDays...),
		OperatingHours:  weekHours,
		WebsiteURL:      website,
		Description:     doc.Description,
	}
	if doc.CreatedAt != nil {
		shop.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		shop.UpdatedAt = *doc.UpdatedAt
	}
	return shop, nil
}

// buildShopDocument は Shop の値オブジェクト群を Mongo 用 BSON に展開する。
func buildShopDocument(shop *admindomain.Shop, merchantID primitive.ObjectID, includeCreated bool) bson.M {
	hours := make(map[string]DayHoursDocument, len(shop.OperatingHours))
	for day, h := range shop.OperatingHours {
		hours[day] = DayHoursDocument{Open: h.Open, Close: h.Close}
	}
	payload := bson.M{
		"merchantId":      merchantID,
		"name":            shop.Name,
		"nameKana":        shop.NameKana.String(),
		"genre":           shop.Genre,
		"scenes":          shop.Scenes,
		"phone":           shop.Phone.String(),
		"address":         flattenAddress(shop.Address),
		"status":          shop.Status.String(),
		"couponUsageDays": shop.CouponUsageDays,
		"operatingHours":  hours,
		"websiteURL":      shop.WebsiteURL.String(),
		"description":     shop.Description,
		"updatedAt":       time.Now().UTC(),
	}
	if includeCreated {
		payload["createdAt"] = time.Now().UTC()
	}
	return payload
}
