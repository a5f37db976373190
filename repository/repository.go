// Package repository membungkus akses persistence di balik interface
// sempit; controllers dan services hanya bergantung pada interface ini,
// bukan pada gorm langsung.
package repository

import (
	"context"

	"github.com/prasetyawidi/meja-app/models"
)

// MenuRepository menyediakan data toko, kategori, dan menu beserta variasi.
type MenuRepository interface {
	GetToko(ctx context.Context, tokoID uint) (*models.Toko, error)
	GetKategori(ctx context.Context, tokoID uint) ([]models.Kategori, error)
	GetMenuWithVariasi(ctx context.Context, tokoID uint) ([]models.Menu, error)
}

// AdminFeeResolver menentukan admin fee per toko: fee khusus toko kalau
// diaktifkan, kalau tidak setting global, dan fallback hard-coded saat
// resolusi gagal. Tidak pernah mengembalikan error ke pemanggil.
type AdminFeeResolver interface {
	GetAdminFee(ctx context.Context, tokoID uint) int64
}

// CustomerDirectory adalah direktori pelanggan per toko dengan dedup
// berdasarkan nomor HP ternormalisasi.
type CustomerDirectory interface {
	FindOrCreate(ctx context.Context, tokoID uint, nama, phone string) (uint, error)
	SearchByPhone(ctx context.Context, tokoID uint, phone string) (*models.Pelanggan, error)
}

// OrderRepository menangani pesanan online dan barisnya.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrderByID(ctx context.Context, orderID uint) (*models.Order, error)
	GetOrdersBySessionToken(ctx context.Context, token string) ([]models.Order, error)
	GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status string, transaksiID *uint) (*models.Order, error)
	CountPendingOrders(ctx context.Context, tokoID uint) (int64, error)
}

// SessionRepository menangani lifecycle customer session.
type SessionRepository interface {
	CreateSession(ctx context.Context, tokoID uint, tableNumber string, customerName, customerPhone *string) (*models.CustomerSession, error)
	FindActiveSession(ctx context.Context, tokoID uint, tableNumber string) (*models.CustomerSession, error)
	GetSessionByToken(ctx context.Context, token string) (*models.CustomerSession, error)
	GetSessionAnyStatus(ctx context.Context, token string) (*models.CustomerSession, error)
	UpdateSessionCustomerData(ctx context.Context, token, name, phone string) error
	TouchActivity(ctx context.Context, token string) error
	CloseSession(ctx context.Context, token string) error
}

// KitchenModeFlag menentukan apakah toko memakai kitchen queue.
type KitchenModeFlag interface {
	IsEnabled(ctx context.Context, tokoID uint) bool
}

// KitchenQueueRepository membuat mirror pesanan untuk layar dapur.
type KitchenQueueRepository interface {
	CreateForOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
}
