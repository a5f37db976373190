package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/models"
)

type GormMenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{DB: db}
}

func (r *GormMenuRepository) GetToko(ctx context.Context, tokoID uint) (*models.Toko, error) {
	var toko models.Toko
	if err := r.DB.WithContext(ctx).First(&toko, tokoID).Error; err != nil {
		return nil, err
	}
	return &toko, nil
}

func (r *GormMenuRepository) GetKategori(ctx context.Context, tokoID uint) ([]models.Kategori, error) {
	var kategori []models.Kategori
	err := r.DB.WithContext(ctx).
		Where("toko_id = ?", tokoID).
		Order("nama asc").
		Find(&kategori).Error
	return kategori, err
}

// GetMenuWithVariasi mengembalikan menu beserta variasi, urut kategori
// lalu nama menu (urutan tampilan di aplikasi pelanggan).
func (r *GormMenuRepository) GetMenuWithVariasi(ctx context.Context, tokoID uint) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.DB.WithContext(ctx).
		Preload("Variasi").
		Preload("Kategori").
		Joins("JOIN kategori ON kategori.id = menu.kategori_id").
		Where("menu.toko_id = ?", tokoID).
		Order("kategori.nama asc, menu.nama asc").
		Find(&menus).Error
	return menus, err
}
