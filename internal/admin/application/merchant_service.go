package application

import (
	"context"
	"errors"
	"strings"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
)

// merchantService implements MerchantService.
type merchantService struct {
	repo MerchantRepository
}

func NewMerchantService(repo MerchantRepository) MerchantService {
	return &merchantService{repo: repo}
}

func (s *merchantService) List(ctx context.Context, filter MerchantFilter, paging Paging) ([]admindomain.Merchant, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *merchantService) Detail(ctx context.Context, id string) (*admindomain.Merchant, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *merchantService) Create(ctx context.Context, cmd UpsertMerchantCommand) (*admindomain.Merchant, error) {
	merchant, err := buildMerchantFromCommand("", cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, merchant); err != nil {
		return nil, err
	}
	return merchant, nil
}

func (s *merchantService) Update(ctx context.Context, id string, cmd UpsertMerchantCommand) (*admindomain.Merchant, error) {
	merchant, err := buildMerchantFromCommand(id, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, merchant); err != nil {
		return nil, err
	}
	return merchant, nil
}

func (s *merchantService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func buildMerchantFromCommand(id string, cmd UpsertMerchantCommand) (*admindomain.Merchant, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errors.New("事業者名は必須です")
	}
	kana, err := admindomain.NewKana(cmd.NameKana)
	if err != nil {
		return nil, err
	}
	email, err := admindomain.NewEmail(cmd.AccountEmail)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, errors.New("アカウントメールアドレスは必須です")
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

	return &admindomain.Merchant{
		ID:           id,
		Name:         name,
		NameKana:     kana,
		AccountEmail: email,
		Phone:        phone,
		Address:      address,
		WebsiteURL:   website,
		Description:  strings.TrimSpace(cmd.Description),
	}, nil
}
