package models

import "time"

// Pelanggan adalah direktori pelanggan ringan per toko,
// dedup berdasarkan nomor HP yang sudah dinormalisasi ke +62.
type Pelanggan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokoID    uint      `gorm:"not null;uniqueIndex:idx_toko_no_hp" json:"toko_id"`
	Nama      string    `gorm:"type:varchar(255);not null" json:"nama"`
	NoHp      string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_toko_no_hp" json:"no_hp"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Pelanggan) TableName() string {
	return "pelanggan"
}
