package repository

import (
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/pkg/logger"
	"gorm.io/gorm"
)

// CoefficientRepository 단가 계수 저장소 인터페이스
// (site_id, material_type_id)당 한 행 — 갱신은 덮어쓰기, 이력 없음
type CoefficientRepository interface {
	FindExact(siteID *uint, materialTypeID uint) (*model.PricingCoefficient, error)
	FindBySite(siteID *uint) ([]model.PricingCoefficient, error)
	Save(coefficient *model.PricingCoefficient) error
	WithTx(tx *gorm.DB) CoefficientRepository
}

type coefficientRepository struct {
	db *gorm.DB
}

// NewCoefficientRepository 계수 저장소 생성
func NewCoefficientRepository(db *gorm.DB) CoefficientRepository {
	return &coefficientRepository{db: db}
}

// WithTx 트랜잭션 핸들 위에서 동작하는 저장소를 반환한다
func (r *coefficientRepository) WithTx(tx *gorm.DB) CoefficientRepository {
	return &coefficientRepository{db: tx}
}

// FindExact 현장/품목이 정확히 일치하는 계수 행 조회 (siteID nil = 전사 기본 행). 없으면 (nil, nil)
func (r *coefficientRepository) FindExact(siteID *uint, materialTypeID uint) (*model.PricingCoefficient, error) {
	var coefficient model.PricingCoefficient
	query := scopeSite(r.db.Where("material_type_id = ?", materialTypeID), siteID)
	if err := query.First(&coefficient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Error("Failed to find pricing coefficient", err)
		return nil, err
	}
	return &coefficient, nil
}

// FindBySite 특정 현장 범위의 모든 계수 행 조회
func (r *coefficientRepository) FindBySite(siteID *uint) ([]model.PricingCoefficient, error) {
	var coefficients []model.PricingCoefficient
	query := scopeSite(r.db.Model(&model.PricingCoefficient{}), siteID)
	if err := query.Find(&coefficients).Error; err != nil {
		logger.Error("Failed to find pricing coefficients by site", err)
		return nil, err
	}
	return coefficients, nil
}

// Save 계수 행 생성 또는 덮어쓰기
func (r *coefficientRepository) Save(coefficient *model.PricingCoefficient) error {
	if err := r.db.Save(coefficient).Error; err != nil {
		logger.Error("Failed to save pricing coefficient", err)
		return err
	}
	return nil
}
