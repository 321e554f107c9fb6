package application

import (
	"context"
	"errors"
	"strings"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
)

type shopService struct {
	repo ShopRepository
}

func NewShopService(repo ShopRepository) ShopService {
	return &shopService{repo: repo}
}

func (s *shopService) List(ctx context.Context, filter ShopFilter, paging Paging) ([]admindomain.Shop, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *shopService) Detail(ctx context.Context, id string) (*admindomain.Shop, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *shopService) Create(ctx context.Context, cmd UpsertShopCommand) (*admindomain.Shop, error) {
	shop, err := buildShopFromCommand("", cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *shopService) Update(ctx context.Context, id string, cmd UpsertShopCommand) (*admindomain.Shop, error) {
	shop, err := buildShopFromCommand(id, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// UpdateStatus は一覧画面のステータスセレクタ専用の部分更新。
func (s *shopService) UpdateStatus(ctx context.Context, id string, status string) error {
	parsed, err := admindomain.NewShopStatus(status)
	if err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, parsed)
}

func (s *shopService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func buildShopFromCommand(id string, cmd UpsertShopCommand) (*admindomain.Shop, error) {
	merchantID := strings.TrimSpace(cmd.MerchantID)
	if merchantID == "" {
		return nil, errors.New("事業者を選択してください")
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errors.New("店舗名は必須です")
	}
	genre, err := admindomain.NormalizeGenre(cmd.Genre)
	if err != nil {
		return nil, err
	}
	if genre == "" {
		return nil, errors.New("ジャンルを選択してください")
	}
	scenes, err := admindomain.NormalizeScenes(cmd.Scenes)
	if err != nil {
		return nil, err
	}
	usageDays, err := admindomain.NormalizeWeekdays(cmd.CouponUsageDays)
	if err != nil {
		return nil, err
	}
	kana, err := admindomain.NewKana(cmd.NameKana)
	if err != nil {
		return nil, err
	}
	phone, err := admindomain.NewPhone(cmd.Phone)
	if err != nil {
		return nil, err
	}
	address, err := admindomain.NewAddress(cmd.PostalCode, cmd.Prefecture, cmd.City, cmd.Street, cmd.Building)
	if err != nil {
		return nil, err
	}
	website, err := admindomain.NewURL(cmd.WebsiteURL)
	if err != nil {
		return nil, err
	}

	status := admindomain.ShopStatusActive
	if strings.TrimSpace(cmd.Status) != "" {
		status, err = admindomain.NewShopStatus(cmd.Status)
		if err != nil {
			return nil, err
		}
	}

	hours := make(map[string]admindomain.DayHours, len(cmd.OperatingHours))
	for day, h := range cmd.OperatingHours {
		hours[day] = admindomain.DayHours{Open: h.Open, Close: h.Close}
	}
	weekHours, err := admindomain.NewWeekHours(hours, admindomain.Weekdays)
	if err != nil {
		return nil, err
	}

	return &admindomain.Shop{
		ID:              id,
		MerchantID:      merchantID,
		Name:            name,
		NameKana:        kana,
		Genre:           genre,
		Scenes:          scenes,
		Phone:           phone,
		Address:         address,
		Status:          status,
		CouponUsageDays: usageDays,
		OperatingHours:  weekHours,
		WebsiteURL:      website,
		Description:     strings.TrimSpace(cmd.Description),
	}, nil
}
