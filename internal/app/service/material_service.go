package service

import (
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/repository"
	"github.com/jmpark/gocheol-backend/pkg/logger"
)

// MaterialService 품목 관리 서비스 인터페이스
type MaterialService interface {
	ListMaterials() ([]model.MaterialType, error)
	GetMaterialByID(id uint) (*model.MaterialType, error)
	CreateMaterial(material *model.MaterialType) error
	UpdateMaterial(material *model.MaterialType) error
	UpsertSymbolMap(materialTypeID uint, symbol, source string) (*model.SymbolMap, error)
}

type materialService struct {
	materialRepo repository.MaterialRepository
}

// NewMaterialService 품목 관리 서비스 생성
func NewMaterialService(materialRepo repository.MaterialRepository) MaterialService {
	return &materialService{materialRepo: materialRepo}
}

func (s *materialService) ListMaterials() ([]model.MaterialType, error) {
	return s.materialRepo.FindAll()
}

func (s *materialService) GetMaterialByID(id uint) (*model.MaterialType, error) {
	material, err := s.materialRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}
	return material, nil
}

func (s *materialService) CreateMaterial(material *model.MaterialType) error {
	if material.Unit == "" {
		material.Unit = "ton"
	}
	if err := s.materialRepo.Create(material); err != nil {
		logger.Error("Failed to create material type", err)
		return err
	}
	return nil
}

func (s *materialService) UpdateMaterial(material *model.MaterialType) error {
	if err := s.materialRepo.Update(material); err != nil {
		logger.Error("Failed to update material type", err)
		return err
	}
	return nil
}

// UpsertSymbolMap 품목의 시장 심볼 매핑을 생성 또는 교체한다
func (s *materialService) UpsertSymbolMap(materialTypeID uint, symbol, source string) (*model.SymbolMap, error) {
	material, err := s.materialRepo.FindByID(materialTypeID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}

	symbolMap := &model.SymbolMap{
		MaterialTypeID: materialTypeID,
		Symbol:         symbol,
		Source:         source,
	}
	if err := s.materialRepo.UpsertSymbolMap(symbolMap); err != nil {
		return nil, err
	}
	return symbolMap, nil
}
