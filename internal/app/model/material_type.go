package model

import (
	"time"

	"gorm.io/gorm"
)

// MaterialCategory 고철 분류
type MaterialCategory string

const (
	CategoryFerrous    MaterialCategory = "ferrous"     // 철스크랩
	CategoryNonFerrous MaterialCategory = "non_ferrous" // 비철스크랩
	CategoryWaste      MaterialCategory = "waste"       // 일반 폐기물
)

// MaterialType 고철/폐기물 품목 정보
type MaterialType struct {
	ID          uint             `gorm:"primarykey" json:"id"`                     // 고유 ID
	Name        string           `gorm:"type:varchar(100);not null" json:"name"`   // 품목명 (중량고철, 경량고철, 동스크랩 등)
	Category    MaterialCategory `gorm:"type:varchar(20);not null" json:"category"` // 분류
	Unit        string           `gorm:"type:varchar(10);default:ton" json:"unit"` // 단위
	Description string           `gorm:"type:text" json:"description,omitempty"`   // 추가 설명
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`

	SymbolMap *SymbolMap `gorm:"foreignKey:MaterialTypeID" json:"symbol_map,omitempty"`
}

func (MaterialType) TableName() string {
	return "material_types"
}

// SymbolMap 품목과 외부 시장 심볼의 연결 (정적 참조 데이터)
type SymbolMap struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	MaterialTypeID uint      `gorm:"uniqueIndex;not null" json:"material_type_id"`
	Symbol         string    `gorm:"type:varchar(30);not null" json:"symbol"` // 예: LME-CU, LME-AL, KS-SCRAP-HV
	Source         string    `gorm:"type:varchar(50);not null" json:"source"` // 예: LME, KOMIS
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (SymbolMap) TableName() string {
	return "symbol_maps"
}
