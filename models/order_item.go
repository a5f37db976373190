package models

import "time"

// OrderItem adalah satu baris pesanan (tabel pesanan_online_detail).
// Semua field harga adalah snapshot saat pesanan dibuat dan tidak
// mengikuti perubahan menu setelahnya.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"column:pesanan_online_id;not null;index" json:"pesanan_online_id"`
	Order       Order   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID      uint    `gorm:"not null" json:"menu_id"`
	VariasiID   *uint   `json:"variasi_id,omitempty"`
	MenuName    string  `gorm:"type:varchar(255);not null" json:"menu_name"`
	VariasiName *string `gorm:"type:varchar(100)" json:"variasi_name,omitempty"`
	Quantity    int     `gorm:"not null" json:"quantity"`

	// unit_price = harga final per unit setelah diskon item.
	// harga_asli = harga sebelum diskon (base + variasi).
	UnitPrice          int64 `gorm:"column:unit_price;not null" json:"unit_price"`
	HargaAsli          int64 `gorm:"column:harga_asli;not null" json:"harga_asli"`
	DiscountPercentage int64 `gorm:"not null;default:0" json:"discount_percentage"`
	TotalDiscount      int64 `gorm:"not null;default:0" json:"total_discount"`

	// total_price adalah field primer; price adalah kolom lama.
	// Baca lewat ResolvedLineTotal().
	TotalPrice *int64 `gorm:"column:total_price" json:"total_price,omitempty"`
	Price      *int64 `gorm:"column:price" json:"price,omitempty"`

	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "pesanan_online_detail"
}

// ResolvedLineTotal adalah titik fallback tunggal untuk total baris:
// total_price dulu, lalu kolom lama price, terakhir qty x unit_price.
func (i *OrderItem) ResolvedLineTotal() int64 {
	if i.TotalPrice != nil {
		return *i.TotalPrice
	}
	if i.Price != nil {
		return *i.Price
	}
	return int64(i.Quantity) * i.UnitPrice
}
