package models

import "time"

const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

// CustomerSession adalah sesi pemesanan bersama untuk satu meja fisik,
// menampung beberapa pesanan sampai bill ditutup.
//
// Keunikan satu sesi aktif per (toko, meja) dijaga di repository lewat
// lookup-before-create di dalam transaksi; index komposit di bawah
// mempercepat lookup tersebut. Lihat DESIGN.md untuk catatan mengenai
// partial unique index di database yang mendukungnya.
type CustomerSession struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	SessionToken   string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"session_token"`
	TokoID         uint       `gorm:"not null;index:idx_toko_table_status" json:"toko_id"`
	TableNumber    string     `gorm:"type:varchar(20);not null;index:idx_toko_table_status" json:"table_number"`
	CustomerName   *string    `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone  *string    `gorm:"type:varchar(30)" json:"customer_phone"`
	Status         string     `gorm:"type:varchar(20);not null;default:'active';index:idx_toko_table_status" json:"status"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	LastActivityAt time.Time  `gorm:"not null" json:"last_activity_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
}

func (CustomerSession) TableName() string {
	return "customer_sessions"
}
