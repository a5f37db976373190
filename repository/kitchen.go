package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/utils"
)

type GormKitchenModeFlag struct {
	DB *gorm.DB
}

func NewKitchenModeFlag(db *gorm.DB) *GormKitchenModeFlag {
	return &GormKitchenModeFlag{DB: db}
}

// IsEnabled membaca flag kitchen mode toko; error dianggap disabled
// karena pembuatan kitchen queue memang best-effort.
func (f *GormKitchenModeFlag) IsEnabled(ctx context.Context, tokoID uint) bool {
	var toko models.Toko
	if err := f.DB.WithContext(ctx).First(&toko, tokoID).Error; err != nil {
		utils.ErrorLogger.Printf("kitchen mode: gagal ambil toko %d: %v", tokoID, err)
		return false
	}
	return toko.KitchenModeEnabled
}

type GormKitchenQueueRepository struct {
	DB *gorm.DB
}

func NewKitchenQueueRepository(db *gorm.DB) *GormKitchenQueueRepository {
	return &GormKitchenQueueRepository{DB: db}
}

// CreateForOrder membuat mirror kitchen queue dari baris pesanan.
// Angka di queue adalah salinan snapshot dari pesanan_online_detail,
// bukan sumber kebenaran untuk billing.
func (r *GormKitchenQueueRepository) CreateForOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		queue := models.KitchenQueue{
			TokoID:    order.TokoID,
			OrderID:   order.ID,
			Status:    "queued",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&queue).Error; err != nil {
			return err
		}

		for _, item := range items {
			queueItem := models.KitchenQueueItem{
				QueueID:     queue.ID,
				MenuID:      item.MenuID,
				MenuName:    item.MenuName,
				VariasiName: item.VariasiName,
				Quantity:    item.Quantity,
				Notes:       item.Notes,
				Status:      "pending",
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Create(&queueItem).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
