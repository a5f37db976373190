package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/models"
)

type GormOrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{DB: db}
}

// CreateOrder menyimpan pesanan dan seluruh barisnya dalam satu
// transaksi. Kalau salah satu insert gagal, semuanya di-rollback supaya
// tidak ada pesanan setengah jadi.
func (r *GormOrderRepository) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

func (r *GormOrderRepository) GetOrderByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersBySessionToken mengembalikan semua pesanan dalam satu session,
// urut waktu dibuat. Items ikut dimuat; kalau kosong, pemanggil
// (rekonsiliasi) melakukan fetch sekunder lewat GetOrderItems.
func (r *GormOrderRepository) GetOrdersBySessionToken(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("session_token = ?", token).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.DB.WithContext(ctx).
		Where("pesanan_online_id = ?", orderID).
		Order("created_at asc").
		Find(&items).Error
	return items, err
}

// UpdateOrderStatus dipakai kasir: pending -> paid (dengan link
// transaksi) atau transisi status lain. Item pesanan tidak pernah
// diubah lewat jalur ini.
func (r *GormOrderRepository) UpdateOrderStatus(ctx context.Context, orderID uint, status string, transaksiID *uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, err
	}

	order.Status = status
	if status == models.OrderStatusPaid {
		now := time.Now()
		order.PaidAt = &now
	}
	if transaksiID != nil {
		order.TransaksiID = transaksiID
	}

	if err := r.DB.WithContext(ctx).Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) CountPendingOrders(ctx context.Context, tokoID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("toko_id = ? AND status = ?", tokoID, models.OrderStatusPending).
		Count(&count).Error
	return count, err
}
