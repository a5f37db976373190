package models

import "time"

type Menu struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	TokoID             uint          `gorm:"not null;index" json:"toko_id"`
	KategoriID         uint          `gorm:"not null" json:"kategori_id"`
	Kategori           Kategori      `gorm:"foreignKey:KategoriID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"kategori"`
	Nama               string        `gorm:"type:varchar(255);not null" json:"nama"`
	Harga              int64         `gorm:"not null" json:"harga"`
	Deskripsi          string        `gorm:"type:text" json:"deskripsi"`
	IsAvailable        bool          `gorm:"not null;default:true" json:"is_available"`
	DiscountPercentage int64         `gorm:"not null;default:0" json:"discount_percentage"`
	Variasi            []MenuVariasi `gorm:"foreignKey:MenuID" json:"variasi"`
	CreatedAt          time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"not null" json:"updated_at"`
}

func (Menu) TableName() string {
	return "menu"
}

// MenuVariasi adalah varian dari satu menu dengan selisih harga.
type MenuVariasi struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MenuID        uint      `gorm:"not null;index" json:"menu_id"`
	Nama          string    `gorm:"type:varchar(100);not null" json:"nama"`
	HargaTambahan int64     `gorm:"not null;default:0" json:"harga_tambahan"`
	IsDefault     bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (MenuVariasi) TableName() string {
	return "menu_variasi"
}
