package models

import "time"

type Kategori struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokoID    uint      `gorm:"not null;index" json:"toko_id"`
	Toko      Toko      `gorm:"foreignKey:TokoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Nama      string    `gorm:"type:varchar(100);not null" json:"nama"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Kategori) TableName() string {
	return "kategori"
}
