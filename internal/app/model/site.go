package model

import (
	"time"

	"gorm.io/gorm"
)

// Site 현장(사업장) 정보
type Site struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	Region    string         `gorm:"type:varchar(50)" json:"region"`   // 시/도
	Address   string         `gorm:"type:varchar(255)" json:"address"` // 상세 주소
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Site) TableName() string {
	return "sites"
}
