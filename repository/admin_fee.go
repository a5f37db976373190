package repository

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/utils"
)

// DefaultAdminFee adalah fallback terakhir saat resolusi admin fee gagal.
const DefaultAdminFee int64 = 1000

const adminFeeSettingKey = "admin_fee"

type GormAdminFeeResolver struct {
	DB *gorm.DB
}

func NewAdminFeeResolver(db *gorm.DB) *GormAdminFeeResolver {
	return &GormAdminFeeResolver{DB: db}
}

// GetAdminFee: fee khusus toko kalau special_admin_fee_enabled, kalau
// tidak setting global admin_fee, dan DefaultAdminFee saat apa pun gagal.
// Error tidak pernah dipropagasi; checkout tidak boleh gagal gara-gara
// lookup fee.
func (r *GormAdminFeeResolver) GetAdminFee(ctx context.Context, tokoID uint) int64 {
	var toko models.Toko
	if err := r.DB.WithContext(ctx).First(&toko, tokoID).Error; err != nil {
		utils.ErrorLogger.Printf("admin fee: gagal ambil toko %d, pakai default: %v", tokoID, err)
		return DefaultAdminFee
	}

	if toko.SpecialAdminFeeEnabled {
		return toko.AdminFee
	}

	var setting models.Setting
	if err := r.DB.WithContext(ctx).
		Where("setting_key = ?", adminFeeSettingKey).
		First(&setting).Error; err != nil {
		utils.ErrorLogger.Printf("admin fee: gagal ambil setting global, pakai default: %v", err)
		return DefaultAdminFee
	}

	fee, err := strconv.ParseInt(setting.Value, 10, 64)
	if err != nil || fee < 0 {
		utils.ErrorLogger.Printf("admin fee: nilai setting tidak valid (%q), pakai default", setting.Value)
		return DefaultAdminFee
	}
	return fee
}
