package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
)

type accountService struct {
	repo AccountRepository
}

func NewAccountService(repo AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) List(ctx context.Context, filter AccountFilter, paging Paging) ([]admindomain.Account, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *accountService) Detail(ctx context.Context, id string) (*admindomain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// Create はパスワード必須。ハッシュ化してから保存する。
func (s *accountService) Create(ctx context.Context, cmd UpsertAccountCommand) (*admindomain.Account, error) {
	account, err := buildAccountFromCommand("", cmd)
	if err != nil {
		return nil, err
	}
	password := strings.TrimSpace(cmd.Password)
	if password == "" {
		return nil, errors.New("パスワードは必須です")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = hash
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Update はパスワード未入力なら既存ハッシュを維持する（編集スキーマの緩和に対応）。
func (s *accountService) Update(ctx context.Context, id string, cmd UpsertAccountCommand) (*admindomain.Account, error) {
	account, err := buildAccountFromCommand(id, cmd)
	if err != nil {
		return nil, err
	}
	if password := strings.TrimSpace(cmd.Password); password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func buildAccountFromCommand(id string, cmd UpsertAccountCommand) (*admindomain.Account, error) {
	role, err := admindomain.NewAccountRole(cmd.Role)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errors.New("氏名は必須です")
	}
	kana, err := admindomain.NewKana(cmd.NameKana)
	if err != nil {
		return nil, err
	}
	email, err := admindomain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, errors.New("メールアドレスは必須です")
	}
	phone, err := admindomain.NewPhone(cmd.Phone)
	if err != nil {
		return nil, err
	}

	return &admindomain.Account{
		ID:       id,
		Role:     role,
		Name:     name,
		NameKana: kana,
		Email:    email,
		Phone:    phone,
		OfficeID: strings.TrimSpace(cmd.OfficeID),
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}
	return string(hash), nil
}
