package models

import "time"

// KitchenQueue adalah mirror best-effort dari satu pesanan untuk layar
// dapur. Tidak otoritatif untuk billing; angka di sini salinan snapshot
// dari pesanan_online_detail.
type KitchenQueue struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	TokoID    uint               `gorm:"not null;index" json:"toko_id"`
	OrderID   uint               `gorm:"column:pesanan_online_id;not null;index" json:"pesanan_online_id"`
	Status    string             `gorm:"type:varchar(20);not null;default:'queued'" json:"status"`
	Items     []KitchenQueueItem `gorm:"foreignKey:QueueID" json:"items"`
	CreatedAt time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time          `gorm:"not null" json:"updated_at"`
}

func (KitchenQueue) TableName() string {
	return "kitchen_queue"
}

type KitchenQueueItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	QueueID     uint      `gorm:"column:kitchen_queue_id;not null;index" json:"kitchen_queue_id"`
	MenuID      uint      `gorm:"not null" json:"menu_id"`
	MenuName    string    `gorm:"type:varchar(255);not null" json:"menu_name"`
	VariasiName *string   `gorm:"type:varchar(100)" json:"variasi_name,omitempty"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Notes       string    `gorm:"type:text" json:"notes"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (KitchenQueueItem) TableName() string {
	return "kitchen_queue_items"
}
