package models

import "time"

// Setting adalah key-value pengaturan global (mis. admin_fee default).
type Setting struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SettingKey string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"setting_key"`
	Value      string    `gorm:"type:varchar(255);not null" json:"value"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
