package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

// Order adalah satu pesanan online (tabel pesanan_online).
// Item bersifat immutable setelah dibuat; setelah itu pesanan hanya
// berubah status atau di-link ke transaksi kasir.
type Order struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TokoID        uint   `gorm:"not null;index" json:"toko_id"`
	TableNumber   string `gorm:"type:varchar(20)" json:"table_number"`
	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone string `gorm:"type:varchar(30);not null" json:"customer_phone"`
	PelangganID   *uint  `gorm:"index" json:"pelanggan_id,omitempty"`
	OrderNotes    string `gorm:"type:text" json:"order_notes"`
	Status        string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// Subtotal SEBELUM diskon global; dua-duanya disimpan supaya
	// rekonsiliasi belakangan bisa menghitung ulang pipeline harga.
	Subtotal                 int64 `gorm:"not null;default:0" json:"subtotal"`
	GlobalDiscountAmount     int64 `gorm:"not null;default:0" json:"global_discount_amount"`
	GlobalDiscountPercentage int64 `gorm:"not null;default:0" json:"global_discount_percentage"`
	AdminFee                 int64 `gorm:"not null;default:0" json:"admin_fee"`

	// total_amount adalah field primer; total adalah nama kolom lama yang
	// masih terisi di baris historis. Jangan baca keduanya langsung,
	// selalu lewat ResolvedTotal().
	TotalAmount *int64 `gorm:"column:total_amount" json:"total_amount,omitempty"`
	Total       *int64 `gorm:"column:total" json:"total,omitempty"`

	SessionID    *uint   `gorm:"index" json:"session_id,omitempty"`
	SessionToken *string `gorm:"type:varchar(100);index" json:"session_token,omitempty"`

	TransaksiID *uint      `json:"transaksi_id,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`

	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string {
	return "pesanan_online"
}

// ResolvedTotal adalah satu-satunya titik fallback untuk total pesanan:
// total_amount dulu, lalu kolom lama total, terakhir 0.
func (o *Order) ResolvedTotal() int64 {
	if o.TotalAmount != nil {
		return *o.TotalAmount
	}
	if o.Total != nil {
		return *o.Total
	}
	return 0
}

// ResolvedAdminFee mengembalikan admin fee; jika tidak tersimpan eksplisit,
// diturunkan dari total - (subtotal - diskon global).
func (o *Order) ResolvedAdminFee() int64 {
	if o.AdminFee != 0 {
		return o.AdminFee
	}
	derived := o.ResolvedTotal() - (o.Subtotal - o.GlobalDiscountAmount)
	if derived < 0 {
		return 0
	}
	return derived
}
