package application

import (
	"context"
	"errors"
	"log"
	"strings"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
)

type officeService struct {
	repo     OfficeRepository
	accounts AccountService
	logger   *log.Logger
}

// NewOfficeService wires the office repository plus the account service used
// by the composite office + facility-manager registration.
func NewOfficeService(repo OfficeRepository, accounts AccountService, logger *log.Logger) OfficeService {
	return &officeService{repo: repo, accounts: accounts, logger: logger}
}

func (s *officeService) List(ctx context.Context, filter OfficeFilter, paging Paging) ([]admindomain.Office, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *officeService) Detail(ctx context.Context, id string) (*admindomain.Office, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *officeService) Create(ctx context.Context, cmd UpsertOfficeCommand) (*admindomain.Office, error) {
	office, err := buildOfficeFromCommand("", cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}

func (s *officeService) Update(ctx context.Context, id string, cmd UpsertOfficeCommand) (*admindomain.Office, error) {
	office, err := buildOfficeFromCommand(id, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}

func (s *officeService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// RegisterWithManager は営業所と施設管理者を1回の操作で登録する。
// 両方成功か両方不成立かをこの層が保証する。アカウント作成に失敗した場合は
// 作成済み営業所を取り消す。
func (s *officeService) RegisterWithManager(ctx context.Context, cmd RegisterOfficeWithManagerCommand) (*admindomain.Office, *admindomain.Account, error) {
	office, err := buildOfficeFromCommand("", cmd.Office)
	if err != nil {
		return nil, nil, err
	}

	managerCmd := cmd.Manager
	managerCmd.Role = admindomain.RoleFacilityManager.String()

	if err := s.repo.Create(ctx, office); err != nil {
		return nil, nil, err
	}

	managerCmd.OfficeID = office.ID
	manager, err := s.accounts.Create(ctx, managerCmd)
	if err != nil {
		if rollbackErr := s.repo.Delete(ctx, office.ID); rollbackErr != nil && s.logger != nil {
			s.logger.Printf("営業所の取り消しに失敗 officeId=%s err=%v", office.ID, rollbackErr)
		}
		return nil, nil, err
	}
	return office, manager, nil
}

func buildOfficeFromCommand(id string, cmd UpsertOfficeCommand) (*admindomain.Office, error) {
	merchantID := strings.TrimSpace(cmd.MerchantID)
	if merchantID == "" {
		return nil, errors.New("事業者を選択してください")
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errors.New("営業所名は必須です")
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
	emergency, err := admindomain.NewEmergencyContact(strings.TrimSpace(cmd.EmergencyName), cmd.EmergencyPhone)
	if err != nil {
		return nil, err
	}

	return &admindomain.Office{
		ID:               id,
		MerchantID:       merchantID,
		Name:             name,
		NameKana:         kana,
		Phone:            phone,
		Address:          address,
		EmergencyContact: emergency,
	}, nil
}
