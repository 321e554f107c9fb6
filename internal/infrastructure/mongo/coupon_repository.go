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

// CouponRepository はクーポン集約の Mongo 実装。
type CouponRepository struct {
	collection *mongo.Collection
}

func NewCouponRepository(db *mongo.Database, collection string) *CouponRepository {
	return &CouponRepository{collection: db.Collection(collection)}
}

// Find は店舗・公開状態・キーワードで絞り込んだクーポン一覧を返す。
func (r *CouponRepository) Find(ctx context.Context, filter application.CouponFilter, paging application.Paging) ([]admindomain.Coupon, error) {
	clauses := make([]bson.M, 0)
	if filter.ShopID != "" {
		shopID, err := primitive.ObjectIDFromHex(strings.TrimSpace(filter.ShopID))
		if err != nil {
			return []admindomain.Coupon{}, nil
		}
		clauses = append(clauses, bson.M{"shopId": shopID})
	}
	if filter.Published != nil {
		clauses = append(clauses, bson.M{"published": *filter.Published})
	}
	if filter.Keyword != "" {
		pattern := regexp.QuoteMeta(filter.Keyword)
		clauses = append(clauses, bson.M{"title": primitive.Regex{Pattern: pattern, Options: "i"}})
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

	coupons := make([]admindomain.Coupon, 0)
	for cursor.Next(ctx) {
		var doc CouponDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		coupon, err := mapCoupon(doc)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (*admindomain.Coupon, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, admindomain.ErrNotFound
	}
	var doc CouponDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, admindomain.ErrNotFound
		}
		return nil, err
	}
	coupon, err := mapCoupon(doc)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *CouponRepository) Create(ctx context.Context, coupon *admindomain.Coupon) error {
	shopID, err := primitive.ObjectIDFromHex(strings.TrimSpace(coupon.ShopID))
	if err != nil {
		return errors.New("店舗IDの形式が不正です")
	}
	objectID := primitive.NewObjectID()
	payload := buildCouponDocument(coupon, shopID, true)
	payload["_id"] = objectID
	if _, err := r.collection.InsertOne(ctx, payload); err != nil {
		return err
	}
	coupon.ID = objectID.Hex()
	return nil
}

func (r *CouponRepository) Update(ctx context.Context, coupon *admindomain.Coupon) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(coupon.ID))
	if err != nil {
		return admindomain.ErrNotFound
	}
	shopID, err := primitive.ObjectIDFromHex(strings.TrimSpace(coupon.ShopID))
	if err != nil {
		return errors.New("店舗IDの形式が不正です")
	}
	update := buildCouponDocument(coupon, shopID, false)
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
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

func mapCoupon(doc CouponDocument) (admindomain.Coupon, error) {
	discountType, err := admindomain.NewDiscountType(doc.DiscountType)
	if err != nil {
		return admindomain.Coupon{}, err
	}

	coupon := admindomain.Coupon{
		ID:            doc.ID.Hex(),
		ShopID:        doc.ShopID.Hex(),
		Title:         doc.Title,
		Description:   doc.Description,
		DiscountType:  discountType,
		DiscountValue: doc.DiscountValue,
		UsageStartAt:  doc.UsageStartAt,
		UsageEndAt:    doc.UsageEndAt,
		PerUserLimit:  doc.PerUserLimit,
		Published:     doc.Published,
	}
	if doc.CreatedAt != nil {
		coupon.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		coupon.UpdatedAt = *doc.UpdatedAt
	}
	return coupon, nil
}

func buildCouponDocument(coupon *admindomain.Coupon, shopID primitive.ObjectID, includeCreated bool) bson.M {
	payload := bson.M{
		"shopId":        shopID,
		"title":         coupon.Title,
		"description":   coupon.Description,
		"discountType":  coupon.DiscountType.String(),
		"discountValue": coupon.DiscountValue,
		"usageStartAt":  coupon.UsageStartAt,
		"usageEndAt":    coupon.UsageEndAt,
		"perUserLimit":  coupon.PerUserLimit,
		"published":     coupon.Published,
		"updatedAt":     time.Now().UTC(),
	}
	if includeCreated {
		payload["createdAt"] = time.Now().UTC()
	}
	return payload
}
