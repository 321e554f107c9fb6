package domain

import (
	"fmt"
	"strings"
	"time"
)

// Account は管理者・スタッフ・一般ユーザー・施設管理者を Role で区別する共通集約。
// メールアドレスは Role を跨いで一意。
type Account struct {
	ID           string
	Role         AccountRole
	Name         string
	NameKana     Kana
	Email        Email
	Phone        Phone
	PasswordHash string
	OfficeID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AccountRole string

const (
	RoleAdmin           AccountRole = "admin"
	RoleStaff           AccountRole = "staff"
	RoleUser            AccountRole = "user"
	RoleFacilityManager AccountRole = "facility_manager"
)

func NewAccountRole(value string) (AccountRole, error) {
	switch AccountRole(strings.TrimSpace(value)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleUser:
		return RoleUser, nil
	case RoleFacilityManager:
		return RoleFacilityManager, nil
	}
	return "", fmt.Errorf("invalid account role: %s", value)
}

func (r AccountRole) String() string {
	return string(r)
}
