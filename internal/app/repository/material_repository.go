package repository

import (
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/pkg/logger"
	"gorm.io/gorm"
)

// MaterialRepository 품목/심볼 매핑 저장소 인터페이스
type MaterialRepository interface {
	Create(material *model.MaterialType) error
	FindAll() ([]model.MaterialType, error)
	FindByID(id uint) (*model.MaterialType, error)
	Update(material *model.MaterialType) error
	Delete(id uint) error

	FindSymbolMap(materialTypeID uint) (*model.SymbolMap, error)
	FindAllSymbolMaps() ([]model.SymbolMap, error)
	UpsertSymbolMap(symbolMap *model.SymbolMap) error
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository 품목 저장소 생성
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

// Create 품목 생성
func (r *materialRepository) Create(material *model.MaterialType) error {
	if err := r.db.Create(material).Error; err != nil {
		logger.Error("Failed to create material type", err)
		return err
	}
	return nil
}

// FindAll 모든 품목 조회 (심볼 매핑 포함)
func (r *materialRepository) FindAll() ([]model.MaterialType, error) {
	var materials []model.MaterialType
	if err := r.db.Preload("SymbolMap").Order("category, name").Find(&materials).Error; err != nil {
		logger.Error("Failed to find all material types", err)
		return nil, err
	}
	return materials, nil
}

// FindByID ID로 품목 조회
func (r *materialRepository) FindByID(id uint) (*model.MaterialType, error) {
	var material model.MaterialType
	if err := r.db.Preload("SymbolMap").First(&material, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Error("Failed to find material type by ID", err)
		return nil, err
	}
	return &material, nil
}

// Update 품목 수정
func (r *materialRepository) Update(material *model.MaterialType) error {
	if err := r.db.Save(material).Error; err != nil {
		logger.Error("Failed to update material type", err)
		return err
	}
	return nil
}

// Delete 품목 삭제 (소프트 삭제)
func (r *materialRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.MaterialType{}, id).Error; err != nil {
		logger.Error("Failed to delete material type", err)
		return err
	}
	return nil
}

// FindSymbolMap 품목의 심볼 매핑 조회. 매핑이 없으면 (nil, nil)
func (r *materialRepository) FindSymbolMap(materialTypeID uint) (*model.SymbolMap, error) {
	var symbolMap model.SymbolMap
	if err := r.db.Where("material_type_id = ?", materialTypeID).First(&symbolMap).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Error("Failed to find symbol map", err)
		return nil, err
	}
	return &symbolMap, nil
}

// FindAllSymbolMaps 모든 심볼 매핑 조회
func (r *materialRepository) FindAllSymbolMaps() ([]model.SymbolMap, error) {
	var symbolMaps []model.SymbolMap
	if err := r.db.Order("symbol").Find(&symbolMaps).Error; err != nil {
		logger.Error("Failed to find symbol maps", err)
		return nil, err
	}
	return symbolMaps, nil
}

// UpsertSymbolMap 품목당 하나의 심볼 매핑을 생성 또는 갱신
func (r *materialRepository) UpsertSymbolMap(symbolMap *model.SymbolMap) error {
	existing, err := r.FindSymbolMap(symbolMap.MaterialTypeID)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.Symbol = symbolMap.Symbol
		existing.Source = symbolMap.Source
		*symbolMap = *existing
		if err := r.db.Save(existing).Error; err != nil {
			logger.Error("Failed to update symbol map", err)
			return err
		}
		return nil
	}

	if err := r.db.Create(symbolMap).Error; err != nil {
		logger.Error("Failed to create symbol map", err)
		return err
	}
	return nil
}
