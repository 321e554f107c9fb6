package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type seedOptions struct {
	envName          string
	merchantCount    int
	shopsPerMerchant int
	couponsPerShop   int
	staffCount       int
	dropCollections  bool
	randomSeed       int64
	password         string
}

type collections struct {
	merchants    string
	offices      string
	shops        string
	coupons      string
	accounts     string
	formSessions string
}

type addressDocument struct {
	PostalCode string `bson:"postalCode,omitempty"`
	Prefecture string `bson:"prefecture,omitempty"`
	City       string `bson:"city,omitempty"`
	Street     string `bson:"street,omitempty"`
	Building   string `bson:"building,omitempty"`
}

type merchantDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	NameKana     string             `bson:"nameKana,omitempty"`
	AccountEmail string             `bson:"accountEmail"`
	Phone        string             `bson:"phone,omitempty"`
	Address      addressDocument    `bson:"address,omitempty"`
	WebsiteURL   string             `bson:"websiteURL,omitempty"`
	Description  string             `bson:"description,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type officeDocument struct {
	ID               primitive.ObjectID       `bson:"_id"`
	MerchantID       primitive.ObjectID       `bson:"merchantId"`
	Name             string                   `bson:"name"`
	NameKana         string                   `bson:"nameKana,omitempty"`
	Phone            string                   `bson:"phone,omitempty"`
	Address          addressDocument          `bson:"address,omitempty"`
	EmergencyContact emergencyContactDocument `bson:"emergencyContact,omitempty"`
	CreatedAt        time.Time                `bson:"createdAt"`
	UpdatedAt        time.Time                `bson:"updatedAt"`
}

type emergencyContactDocument struct {
	Name  string `bson:"name,omitempty"`
	Phone string `bson:"phone,omitempty"`
}

type shopDocument struct {
	ID              primitive.ObjectID          `bson:"_id"`
	MerchantID      primitive.ObjectID          `bson:"merchantId"`
	Name            string                      `bson:"name"`
	Genre           string                      `bson:"genre"`
	Scenes          []string                    `bson:"scenes,omitempty"`
	Phone           string                      `bson:"phone,omitempty"`
	Address         addressDocument             `bson:"address,omitempty"`
	Status          string                      `bson:"status"`
	CouponUsageDays []string                    `bson:"couponUsageDays,omitempty"`
	OperatingHours  map[string]dayHoursDocument `bson:"operatingHours,omitempty"`
	CreatedAt       time.Time                   `bson:"createdAt"`
	UpdatedAt       time.Time                   `bson:"updatedAt"`
}

type dayHoursDocument struct {
	Open  string `bson:"open"`
	Close string `bson:"close"`
}

type couponDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	ShopID        primitive.ObjectID `bson:"shopId"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description,omitempty"`
	DiscountType  string             `bson:"discountType"`
	DiscountValue int                `bson:"discountValue"`
	UsageStartAt  string             `bson:"usageStartAt,omitempty"`
	UsageEndAt    string             `bson:"usageEndAt,omitempty"`
	PerUserLimit  *int               `bson:"perUserLimit,omitempty"`
	Published     bool               `bson:"published"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

type accountDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Role         string             `bson:"role"`
	Name         string             `bson:"name"`
	NameKana     string             `bson:"nameKana,omitempty"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone,omitempty"`
	PasswordHash string             `bson:"passwordHash,omitempty"`
	OfficeID     string             `bson:"officeId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

var (
	weekdays    = []string{"月", "火", "水", "木", "金", "土", "日"}
	genres      = []string{"居酒屋", "バー", "ダイニング", "カフェ", "ラーメン", "焼肉", "イタリアン", "和食"}
	scenes      = []string{"一人飲み", "サク飲み", "デート", "宴会", "女子会", "仕事帰り"}
	prefectures = []string{"東京都", "大阪府", "福岡県", "北海道", "愛知県"}
	cities      = []string{"新宿区", "渋谷区", "中央区", "博多区", "中区"}
)

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg := collections{
		merchants:    envOrDefault("MERCHANT_COLLECTION", "merchants"),
		offices:      envOrDefault("OFFICE_COLLECTION", "offices"),
		shops:        envOrDefault("SHOP_COLLECTION", "shops"),
		coupons:      envOrDefault("COUPON_COLLECTION", "coupons"),
		accounts:     envOrDefault("ACCOUNT_COLLECTION", "accounts"),
		formSessions: envOrDefault("FORM_SESSION_COLLECTION", "form_sessions"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "tamanomi")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		dropAll(ctx, db, cfg)
		log.Printf("既存コレクションを削除しました")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(opts.password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("パスワードハッシュの生成に失敗しました: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	now := time.Now().UTC()

	merchantDocs := generateMerchants(rng, opts.merchantCount, now)
	if err := insertMany(ctx, db.Collection(cfg.merchants), toAnySlice(merchantDocs)); err != nil {
		log.Fatalf("事業者データの挿入に失敗しました: %v", err)
	}

	officeDocs := generateOffices(rng, merchantDocs, now)
	if err := insertMany(ctx, db.Collection(cfg.offices), toAnySlice(officeDocs)); err != nil {
		log.Fatalf("営業所データの挿入に失敗しました: %v", err)
	}

	shopDocs := generateShops(rng, merchantDocs, opts.shopsPerMerchant, now)
	if err := insertMany(ctx, db.Collection(cfg.shops), toAnySlice(shopDocs)); err != nil {
		log.Fatalf("店舗データの挿入に失敗しました: %v", err)
	}

	couponDocs := generateCoupons(rng, shopDocs, opts.couponsPerShop, now)
	if len(couponDocs) > 0 {
		if err := insertMany(ctx, db.Collection(cfg.coupons), toAnySlice(couponDocs)); err != nil {
			log.Fatalf("クーポンデータの挿入に失敗しました: %v", err)
		}
	}

	accountDocs := generateAccounts(rng, officeDocs, opts.staffCount, string(passwordHash), now)
	if err := insertMany(ctx, db.Collection(cfg.accounts), toAnySlice(accountDocs)); err != nil {
		log.Fatalf("アカウントデータの挿入に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: merchants=%d offices=%d shops=%d coupons=%d accounts=%d",
		len(merchantDocs), len(officeDocs), len(shopDocs), len(couponDocs), len(accountDocs))
	log.Printf("Mongo: %s / %s (env=%s) 初期パスワード=%q", mongoURI, dbName, opts.envName, opts.password)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env ディレクトリ内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.merchantCount, "merchants", 5, "生成する事業者数")
	flag.IntVar(&opts.shopsPerMerchant, "shops", 3, "事業者あたりの店舗数")
	flag.IntVar(&opts.couponsPerShop, "coupons", 2, "店舗あたりのクーポン数")
	flag.IntVar(&opts.staffCount, "staffs", 3, "生成するスタッフアカウント数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	flag.StringVar(&opts.password, "password", "tamanomi-dev", "全アカウント共通の初期パスワード")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.merchantCount <= 0 {
		log.Fatal("merchants は 1 以上を指定してください")
	}
	if opts.shopsPerMerchant < 0 {
		opts.shopsPerMerchant = 0
	}
	if opts.couponsPerShop < 0 {
		opts.couponsPerShop = 0
	}
	if opts.staffCount < 0 {
		opts.staffCount = 0
	}
	return opts
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean("env")
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			// env ファイルが無いローカル実行はデフォルト値で続行する
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropAll(ctx context.Context, db *mongo.Database, cfg collections) {
	for _, name := range []string{
		cfg.merchants, cfg.offices, cfg.shops, cfg.coupons, cfg.accounts, cfg.formSessions,
	} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	merchantIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "accountEmail", Value: 1}},
			Options: options.Index().SetName("uniq_merchant_accountEmail").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_merchant_name"),
		},
	}
	if _, err := db.Collection(cfg.merchants).Indexes().CreateMany(ctx, merchantIndexes); err != nil {
		return err
	}

	officeIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "merchantId", Value: 1}},
			Options: options.Index().SetName("idx_office_merchantId"),
		},
	}
	if _, err := db.Collection(cfg.offices).Indexes().CreateMany(ctx, officeIndexes); err != nil {
		return err
	}

	shopIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "merchantId", Value: 1}},
			Options: options.Index().SetName("idx_shop_merchantId"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_shop_status"),
		},
		{
			Keys:    bson.D{{Key: "genre", Value: 1}},
			Options: options.Index().SetName("idx_shop_genre"),
		},
	}
	if _, err := db.Collection(cfg.shops).Indexes().CreateMany(ctx, shopIndexes); err != nil {
		return err
	}

	couponIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shopId", Value: 1}},
			Options: options.Index().SetName("idx_coupon_shopId"),
		},
		{
			Keys:    bson.D{{Key: "published", Value: 1}},
			Options: options.Index().SetName("idx_coupon_published"),
		},
	}
	if _, err := db.Collection(cfg.coupons).Indexes().CreateMany(ctx, couponIndexes); err != nil {
		return err
	}

	accountIndexes := []mongo.IndexModel{
		{
			// メールはロール横断で一意。フォーム側の重複チェックと同じ制約を DB にも張る
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_account_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("idx_account_role"),
		},
	}
	if _, err := db.Collection(cfg.accounts).Indexes().CreateMany(ctx, accountIndexes); err != nil {
		return err
	}

	sessionIndexes := []mongo.IndexModel{
		{
			// 放置されたフォーム下書きは1日で掃除する
			Keys:    bson.D{{Key: "updatedAt", Value: 1}},
			Options: options.Index().SetName("ttl_form_session").SetExpireAfterSeconds(24 * 60 * 60),
		},
	}
	if _, err := db.Collection(cfg.formSessions).Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return err
	}

	return nil
}

func generateMerchants(rng *rand.Rand, count int, now time.Time) []merchantDocument {
	docs := make([]merchantDocument, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("株式会社たまのみフーズ%d", i+1)
		docs = append(docs, merchantDocument{
			ID:           primitive.NewObjectID(),
			Name:         name,
			NameKana:     "カブシキガイシャタマノミフーズ",
			AccountEmail: fmt.Sprintf("merchant%d@example.com", i+1),
			Phone:        randomPhone(rng),
			Address:      randomAddress(rng),
			WebsiteURL:   fmt.Sprintf("https://example.com/merchants/%d", i+1),
			Description:  "シードデータの事業者です。",
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return docs
}

func generateOffices(rng *rand.Rand, merchants []merchantDocument, now time.Time) []officeDocument {
	docs := make([]officeDocument, 0, len(merchants))
	for i, merchant := range merchants {
		docs = append(docs, officeDocument{
			ID:         primitive.NewObjectID(),
			MerchantID: merchant.ID,
			Name:       fmt.Sprintf("%s 本社営業所", merchant.Name),
			NameKana:   "ホンシャエイギョウショ",
			Phone:      randomPhone(rng),
			Address:    randomAddress(rng),
			EmergencyContact: emergencyContactDocument{
				Name:  fmt.Sprintf("緊急担当%d", i+1),
				Phone: randomPhone(rng),
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return docs
}

func generateShops(rng *rand.Rand, merchants []merchantDocument, perMerchant int, now time.Time) []shopDocument {
	docs := make([]shopDocument, 0, len(merchants)*perMerchant)
	for _, merchant := range merchants {
		for i := 0; i < perMerchant; i++ {
			genre := genres[rng.Intn(len(genres))]
			docs = append(docs, shopDocument{
				ID:              primitive.NewObjectID(),
				MerchantID:      merchant.ID,
				Name:            fmt.Sprintf("%s %s %d号店", merchant.Name, genre, i+1),
				Genre:           genre,
				Scenes:          pickSome(rng, scenes, 2),
				Phone:           randomPhone(rng),
				Address:         randomAddress(rng),
				Status:          "active",
				CouponUsageDays: pickSome(rng, weekdays, 4),
				OperatingHours:  randomHours(rng),
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}
	}
	return docs
}

func generateCoupons(rng *rand.Rand, shops []shopDocument, perShop int, now time.Time) []couponDocument {
	docs := make([]couponDocument, 0, len(shops)*perShop)
	for _, shop := range shops {
		for i := 0; i < perShop; i++ {
			discountType := "percent"
			discountValue := 5 + rng.Intn(4)*5
			if rng.Intn(2) == 0 {
				discountType = "amount"
				discountValue = 100 + rng.Intn(5)*100
			}
			limit := 1 + rng.Intn(3)
			docs = append(docs, couponDocument{
				ID:            primitive.NewObjectID(),
				ShopID:        shop.ID,
				Title:         fmt.Sprintf("%s 限定クーポン%d", shop.Genre, i+1),
				Description:   "シードデータのクーポンです。",
				DiscountType:  discountType,
				DiscountValue: discountValue,
				UsageStartAt:  now.Format("2006-01-02"),
				UsageEndAt:    now.AddDate(0, 1, 0).Format("2006-01-02"),
				PerUserLimit:  &limit,
				Published:     rng.Intn(3) != 0,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		}
	}
	return docs
}

func generateAccounts(rng *rand.Rand, offices []officeDocument, staffCount int, passwordHash string, now time.Time) []accountDocument {
	docs := []accountDocument{
		{
			ID:           primitive.NewObjectID(),
			Role:         "admin",
			Name:         "運営管理者",
			NameKana:     "ウンエイカンリシャ",
			Email:        "admin@example.com",
			Phone:        randomPhone(rng),
			PasswordHash: passwordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	for i := 0; i < staffCount; i++ {
		docs = append(docs, accountDocument{
			ID:           primitive.NewObjectID(),
			Role:         "staff",
			Name:         fmt.Sprintf("スタッフ%d", i+1),
			NameKana:     "スタッフ",
			Email:        fmt.Sprintf("staff%d@example.com", i+1),
			Phone:        randomPhone(rng),
			PasswordHash: passwordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	// 営業所ごとに施設管理者を1人ずつ割り当てる
	for i, office := range offices {
		docs = append(docs, accountDocument{
			ID:           primitive.NewObjectID(),
			Role:         "facility_manager",
			Name:         fmt.Sprintf("施設管理者%d", i+1),
			NameKana:     "シセツカンリシャ",
			Email:        fmt.Sprintf("manager%d@example.com", i+1),
			Phone:        randomPhone(rng),
			PasswordHash: passwordHash,
			OfficeID:     office.ID.Hex(),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	return docs
}

func randomAddress(rng *rand.Rand) addressDocument {
	return addressDocument{
		PostalCode: fmt.Sprintf("%07d", rng.Intn(10000000)),
		Prefecture: prefectures[rng.Intn(len(prefectures))],
		City:       cities[rng.Intn(len(cities))],
		Street:     fmt.Sprintf("%d-%d-%d", 1+rng.Intn(5), 1+rng.Intn(20), 1+rng.Intn(10)),
	}
}

func randomPhone(rng *rand.Rand) string {
	return fmt.Sprintf("0%d0%08d", 1+rng.Intn(8), rng.Intn(100000000))
}

func randomHours(rng *rand.Rand) map[string]dayHoursDocument {
	hours := make(map[string]dayHoursDocument)
	for _, day := range weekdays {
		if day == "日" && rng.Intn(3) == 0 {
			continue
		}
		open := 10 + rng.Intn(4)
		hours[day] = dayHoursDocument{
			Open:  fmt.Sprintf("%02d:00", open),
			Close: fmt.Sprintf("%02d:00", open+8+rng.Intn(4)),
		}
	}
	return hours
}

func pickSome(rng *rand.Rand, items []string, max int) []string {
	count := 1 + rng.Intn(max)
	picked := make([]string, 0, count)
	used := make(map[int]struct{}, count)
	for len(picked) < count {
		idx := rng.Intn(len(items))
		if _, ok := used[idx]; ok {
			continue
		}
		used[idx] = struct{}{}
		picked = append(picked, items[idx])
	}
	// 固定表の順序に並べ直す
	ordered := make([]string, 0, len(picked))
	for _, item := range items {
		for _, p := range picked {
			if p == item {
				ordered = append(ordered, item)
				break
			}
		}
	}
	return ordered
}

func insertMany(ctx context.Context, collection *mongo.Collection, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := collection.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](docs []T) []any {
	result := make([]any, len(docs))
	for i, doc := range docs {
		result[i] = doc
	}
	return result
}
