package models

import "time"

// Toko merepresentasikan satu restoran/warung.
type Toko struct {
	ID                       uint      `gorm:"primaryKey" json:"id"`
	Nama                     string    `gorm:"type:varchar(255);not null" json:"nama"`
	WhatsappNumber           string    `gorm:"type:varchar(30)" json:"whatsapp_number"`
	GmapsLink                string    `gorm:"type:text" json:"gmaps_link"`
	GlobalDiscountEnabled    bool      `gorm:"not null;default:false" json:"global_discount_enabled"`
	GlobalDiscountPercentage int64     `gorm:"not null;default:0" json:"global_discount_percentage"`
	SpecialAdminFeeEnabled   bool      `gorm:"not null;default:false" json:"special_admin_fee_enabled"`
	AdminFee                 int64     `gorm:"not null;default:0" json:"admin_fee"`
	KitchenModeEnabled       bool      `gorm:"not null;default:false" json:"kitchen_mode_enabled"`
	CreatedAt                time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt                time.Time `gorm:"not null" json:"updated_at"`
}

func (Toko) TableName() string {
	return "toko"
}

// GlobalDiscount adalah pengaturan diskon global milik satu toko,
// diterapkan sekali pada subtotal cart (bukan per baris).
type GlobalDiscount struct {
	Enabled    bool  `json:"enabled"`
	Percentage int64 `json:"percentage"`
}

func (t *Toko) GlobalDiscount() GlobalDiscount {
	return GlobalDiscount{
		Enabled:    t.GlobalDiscountEnabled,
		Percentage: t.GlobalDiscountPercentage,
	}
}
