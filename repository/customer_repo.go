package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/utils"
)

var ErrMissingCustomerFields = errors.New("repository: nama atau nomor HP kosong")

type GormCustomerDirectory struct {
	DB *gorm.DB
}

func NewCustomerDirectory(db *gorm.DB) *GormCustomerDirectory {
	return &GormCustomerDirectory{DB: db}
}

// SearchByPhone mencari pelanggan dengan nomor ternormalisasi +62; kalau
// miss, dicoba sekali lagi dengan format lama 08xx untuk baris historis
// yang belum dimigrasi.
func (d *GormCustomerDirectory) SearchByPhone(ctx context.Context, tokoID uint, phone string) (*models.Pelanggan, error) {
	normalized := utils.NormalizePhone(phone)

	var pelanggan models.Pelanggan
	err := d.DB.WithContext(ctx).
		Where("toko_id = ? AND no_hp = ?", tokoID, normalized).
		First(&pelanggan).Error
	if err == nil {
		return &pelanggan, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	legacy := utils.LegacyPhone(normalized)
	if legacy == normalized {
		return nil, nil
	}
	err = d.DB.WithContext(ctx).
		Where("toko_id = ? AND no_hp = ?", tokoID, legacy).
		First(&pelanggan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pelanggan, nil
}

// FindOrCreate mengembalikan ID pelanggan untuk (toko, nomor HP),
// membuat baris baru bila belum ada dan meng-update nama bila berbeda.
func (d *GormCustomerDirectory) FindOrCreate(ctx context.Context, tokoID uint, nama, phone string) (uint, error) {
	if nama == "" || phone == "" {
		return 0, ErrMissingCustomerFields
	}

	normalized := utils.NormalizePhone(phone)

	existing, err := d.SearchByPhone(ctx, tokoID, phone)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		if existing.Nama != nama {
			if err := d.DB.WithContext(ctx).
				Model(&models.Pelanggan{}).
				Where("id = ?", existing.ID).
				Update("nama", nama).Error; err != nil {
				return 0, err
			}
		}
		return existing.ID, nil
	}

	pelanggan := models.Pelanggan{
		TokoID: tokoID,
		Nama:   nama,
		NoHp:   normalized,
	}
	if err := d.DB.WithContext(ctx).Create(&pelanggan).Error; err != nil {
		return 0, err
	}
	return pelanggan.ID, nil
}
