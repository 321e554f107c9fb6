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

// OfficeRepository は営業所集約の Mongo 実装。
type OfficeRepository struct {
	collection *mongo.Collection
}

func NewOfficeRepository(db *mongo.Database, collection string) *OfficeRepository {
	return &OfficeRepository{collection: db.Collection(collection)}
}

// Find は事業者とキーワードで絞り込んだ営業所一覧を返す。
func (r *OfficeRepository) Find(ctx context.Context, filter application.OfficeFilter, paging application.Paging) ([]admindomain.Office, error) {
	clauses := make([]bson.M, 0)
	if filter.MerchantID != "" {
		merchantID, err := primitive.ObjectIDFromHex(strings.TrimSpace(filter.MerchantID))
		if err != nil {
			return []admindomain.Office{}, nil
		}
		clauses = append(clauses, bson.M{"merchantId": merchantID})
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

	limit := paging.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	offices := make([]admindomain.Office, 0)
	for cursor.Next(ctx) {
		var doc OfficeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		office, err := mapOffice(doc)
		if err != nil {
			return nil, err
		}
		offices = append(offices, office)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return offices, nil
}

func (r *OfficeRepository) FindByID(ctx context.Context, id string) (*admindomain.Office, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, admindomain.ErrNotFound
	}
	var doc OfficeDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, admindomain.ErrNotFound
		}
		return nil, err
	}
	office, err := mapOffice(doc)
	if err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *OfficeRepository) Create(ctx context.Context, office *admindomain.Office) error {
	merchantID, err := primitive.ObjectIDFromHex(strings.TrimSpace(office.MerchantID))
	if err != nil {
		return errors.New("事業者IDの形式が不正です")
	}
	objectID := primitive.NewObjectID()
	payload := buildOfficeDocument(office, merchantID, true)
	payload["_id"] = objectID
	if _, err := r.collection.InsertOne(ctx, payload); err != nil {
		return err
	}
	office.ID = objectID.Hex()
	return nil
}

func (r *OfficeRepository) Update(ctx context.Context, office *admindomain.Office) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(office.ID))
	if err != nil {
		return admindomain.ErrNotFound
	}
	merchantID, err := primitive.ObjectIDFromHex(strings.TrimSpace(office.MerchantID))
	if err != nil {
		return errors.New("事業者IDの形式が不正です")
	}
	update := buildOfficeDocument(office, merchantID, false)
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return admindomain.ErrNotFound
	}
	return nil
}

func (r *OfficeRepository) Delete(ctx context.Context, id string) error {
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

// mapOffice は Mongo ドキュメントをドメインの Office に変換する。
// 緊急連絡先のようなネストも編集フォームへそのまま往復できる形で写す。
func mapOffice(doc OfficeDocument) (admindomain.Office, error) {
	kana, err := admindomain.NewKana(doc.NameKana)
	if err != nil {
		return admindomain.Office{}, err
	}
	phone, err := admindomain.NewPhone(doc.Phone)
	if err != nil {
		return admindomain.Office{}, err
	}
	address, err := mapAddress(doc.Address)
	if err != nil {
		return admindomain.Office{}, err
	}
	emergency, err := admindomain.NewEmergencyContact(doc.EmergencyContact.Name, doc.EmergencyContact.Phone)
	if err != nil {
		return admindomain.Office{}, err
	}

	office := admindomain.Office{
		ID:               doc.ID.Hex(),
		MerchantID:       doc.MerchantID.Hex(),
		Name:             doc.Name,
		NameKana:         kana,
		Phone:            phone,
		Address:          address,
		EmergencyContact: emergency,
	}
	if doc.CreatedAt != nil {
		office.CreatedAt = *doc.CreatedAt
	}
	if doc.UpdatedAt != nil {
		office.UpdatedAt = *doc.UpdatedAt
	}
	return office, nil
}

func buildOfficeDocument(office *admindomain.Office, merchantID primitive.ObjectID, includeCreated bool) bson.M {
	payload := bson.M{
		"merchantId": merchantID,
		"name":       office.Name,
		"nameKana":   office.NameKana.String(),
		"phone":      office.Phone.String(),
		"address":    flattenAddress(office.Address),
		"emergencyContact": EmergencyContactDocument{
			Name:  office.EmergencyContact.Name,
			Phone: office.EmergencyContact.Phone.String(),
		},
		"updatedAt": time.Now().UTC(),
	}
	if includeCreated {
		payload["createdAt"] = time.Now().UTC()
	}
	return payload
}
