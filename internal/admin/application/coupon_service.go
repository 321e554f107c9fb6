package application

import (
	"context"
	"errors"
	"strings"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
)

type couponService struct {
	repo CouponRepository
}

func NewCouponService(repo CouponRepository) CouponService {
	return &couponService{repo: repo}
}

func (s *couponService) List(ctx context.Context, filter CouponFilter, paging Paging) ([]admindomain.Coupon, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *couponService) Detail(ctx context.Context, id string) (*admindomain.Coupon, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *couponService) Create(ctx context.Context, cmd UpsertCouponCommand) (*admindomain.Coupon, error) {
	coupon, err := buildCouponFromCommand("", cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) Update(ctx context.Context, id string, cmd UpsertCouponCommand) (*admindomain.Coupon, error) {
	coupon, err := buildCouponFromCommand(id, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func buildCouponFromCommand(id string, cmd UpsertCouponCommand) (*admindomain.Coupon, error) {
	shopID := strings.TrimSpace(cmd.ShopID)
	if shopID == "" {
		return nil, errors.New("店舗を選択してください")
	}
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, errors.New("クーポン名は必須です")
	}
	discountType, err := admindomain.NewDiscountType(cmd.DiscountType)
	if err != nil {
		return nil, err
	}
	if cmd.DiscountValue <= 0 {
		return nil, errors.New("割引値は1以上で入力してください")
	}
	if discountType == admindomain.DiscountPercent && cmd.DiscountValue > 100 {
		return nil, errors.New("割引率は100以下で入力してください")
	}
	if err := admindomain.ValidateUsagePeriod(cmd.UsageStartAt, cmd.UsageEndAt); err != nil {
		return nil, errors.New("利用開始と利用終了は両方指定してください")
	}
	if cmd.PerUserLimit != nil && *cmd.PerUserLimit <= 0 {
		return nil, errors.New("1人あたりの利用回数は1以上で入力してください")
	}

	return &admindomain.Coupon{
		ID:            id,
		ShopID:        shopID,
		Title:         title,
		Description:   strings.TrimSpace(cmd.Description),
		DiscountType:  discountType,
		DiscountValue: cmd.DiscountValue,
		UsageStartAt:  strings.TrimSpace(cmd.UsageStartAt),
		UsageEndAt:    strings.TrimSpace(cmd.UsageEndAt),
		PerUserLimit:  cmd.PerUserLimit,
		Published:     cmd.Published,
	}, nil
}
