package application

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
)

type stubOfficeRepository struct {
	created   *admindomain.Office
	deletedID string
	createErr error
}

func (r *stubOfficeRepository) Find(_ context.Context, _ OfficeFilter, _ Paging) ([]admindomain.Office, error) {
	return nil, nil
}

func (r *stubOfficeRepository) FindByID(_ context.Context, _ string) (*admindomain.Office, error) {
	return nil, admindomain.ErrNotFound
}

func (r *stubOfficeRepository) Create(_ context.Context, office *admindomain.Office) error {
	if r.createErr != nil {
		return r.createErr
	}
	office.ID = "office-1"
	r.created = office
	return nil
}

func (r *stubOfficeRepository) Update(_ context.Context, _ *admindomain.Office) error {
	return nil
}

func (r *stubOfficeRepository) Delete(_ context.Context, id string) error {
	r.deletedID = id
	return nil
}

type stubAccountCreator struct {
	AccountService
	created   *UpsertAccountCommand
	createErr error
}

func (s *stubAccountCreator) Create(_ context.Context, cmd UpsertAccountCommand) (*admindomain.Account, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &cmd
	role, err := admindomain.NewAccountRole(cmd.Role)
	if err != nil {
		return nil, err
	}
	return &admindomain.Account{ID: "acc-1", Role: role, Name: cmd.Name, OfficeID: cmd.OfficeID}, nil
}

func validOfficeCommand() UpsertOfficeCommand {
	return UpsertOfficeCommand{
		MerchantID:     "merchant-1",
		Name:           "新宿営業所",
		NameKana:       "シンジュクエイギョウショ",
		Phone:          "0312345678",
		PostalCode:     "1600022",
		Prefecture:     "東京都",
		City:           "新宿区",
		Street:         "新宿1-1-1",
		EmergencyName:  "佐藤 次郎",
		EmergencyPhone: "09012345678",
	}
}

func newTestOfficeService(repo OfficeRepository, accounts AccountService) OfficeService {
	return NewOfficeService(repo, accounts, log.New(os.Stdout, "[test] ", log.LstdFlags))
}

func TestOfficeCreateRequiresMerchant(t *testing.T) {
	repo := &stubOfficeRepository{}
	service := newTestOfficeService(repo, &stubAccountCreator{})

	cmd := validOfficeCommand()
	cmd.MerchantID = ""

	_, err := service.Create(context.Background(), cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "事業者")
	assert.Nil(t, repo.created)
}

func TestRegisterWithManagerLinksManagerToNewOffice(t *testing.T) {
	repo := &stubOfficeRepository{}
	accounts := &stubAccountCreator{}
	service := newTestOfficeService(repo, accounts)

	office, manager, err := service.RegisterWithManager(context.Background(), RegisterOfficeWithManagerCommand{
		Office: validOfficeCommand(),
		Manager: UpsertAccountCommand{
			Name:     "山本 三郎",
			NameKana: "ヤマモト サブロウ",
			Email:    "saburo@example.com",
			Password: "secret-password",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, accounts.created)

	assert.Equal(t, "office-1", office.ID)
	assert.Equal(t, admindomain.RoleFacilityManager.String(), accounts.created.Role)
	assert.Equal(t, "office-1", accounts.created.OfficeID)
	assert.Equal(t, "office-1", manager.OfficeID)
	assert.Empty(t, repo.deletedID)
}

func TestRegisterWithManagerRollsBackOfficeOnAccountFailure(t *testing.T) {
	repo := &stubOfficeRepository{}
	accounts := &stubAccountCreator{createErr: admindomain.ErrDuplicateEmail}
	service := newTestOfficeService(repo, accounts)

	_, _, err := service.RegisterWithManager(context.Background(), RegisterOfficeWithManagerCommand{
		Office: validOfficeCommand(),
		Manager: UpsertAccountCommand{
			Name:     "山本 三郎",
			Email:    "saburo@example.com",
			Password: "secret-password",
		},
	})
	require.ErrorIs(t, err, admindomain.ErrDuplicateEmail)
	assert.Equal(t, "office-1", repo.deletedID)
}

func TestRegisterWithManagerSkipsOfficeWhenOfficeInvalid(t *testing.T) {
	repo := &stubOfficeRepository{}
	accounts := &stubAccountCreator{}
	service := newTestOfficeService(repo, accounts)

	cmd := validOfficeCommand()
	cmd.Name = ""

	_, _, err := service.RegisterWithManager(context.Background(), RegisterOfficeWithManagerCommand{
		Office:  cmd,
		Manager: UpsertAccountCommand{Name: "山本 三郎", Email: "saburo@example.com", Password: "x"},
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, admindomain.ErrDuplicateEmail))
	assert.Nil(t, repo.created)
	assert.Nil(t, accounts.created)
}
