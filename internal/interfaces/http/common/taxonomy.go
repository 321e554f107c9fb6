package common

import (
	admindomain "github.com/tamanomi/tamanomi-services/api/internal/admin/domain"
)

// 語彙表の実体は domain 側にある。HTTP 層のハンドラとレスポンス組み立てが
// 参照しやすいよう、ここでは同名で再公開するだけに留める。
var (
	Weekdays            = admindomain.Weekdays
	AllowedGenres       = admindomain.AllowedGenres
	AllowedScenes       = admindomain.AllowedScenes
	AllowedShopStatuses = admindomain.AllowedShopStatuses
	AllowedAccountRoles = admindomain.AllowedAccountRoles
	AllowedDiscounts    = admindomain.AllowedDiscounts

	IsWeekday      = admindomain.IsWeekday
	IsGenre        = admindomain.IsGenre
	IsShopStatus   = admindomain.IsShopStatus
	IsAccountRole  = admindomain.IsAccountRole
	IsDiscountType = admindomain.IsDiscountType

	NormalizeWeekdays   = admindomain.NormalizeWeekdays
	NormalizeScenes     = admindomain.NormalizeScenes
	NormalizeGenre      = admindomain.NormalizeGenre
	NormalizeShopStatus = admindomain.NormalizeShopStatus
)
