package repository

import (
	"time"

	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/pkg/logger"
	"gorm.io/gorm"
)

// DecisionRepository 승인 단가 원장 저장소 인터페이스
type DecisionRepository interface {
	FindByKey(siteID *uint, materialTypeID uint, effectiveDate time.Time) (*model.PricingDecision, error)
	FindLatestOnOrBefore(siteID *uint, materialTypeID uint, date time.Time) (*model.PricingDecision, error)
	FindByDateRange(siteID *uint, materialTypeID uint, startDate, endDate time.Time) ([]model.PricingDecision, error)
	List(siteID *uint, startDate, endDate time.Time) ([]model.PricingDecision, error)
	Save(decision *model.PricingDecision) error
	WithTx(tx *gorm.DB) DecisionRepository
}

type decisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository 승인 단가 저장소 생성
func NewDecisionRepository(db *gorm.DB) DecisionRepository {
	return &decisionRepository{db: db}
}

// WithTx 트랜잭션 핸들 위에서 동작하는 저장소를 반환한다
func (r *decisionRepository) WithTx(tx *gorm.DB) DecisionRepository {
	return &decisionRepository{db: tx}
}

// Save 결정 행 생성 또는 덮어쓰기
func (r *decisionRepository) Save(decision *model.PricingDecision) error {
	if err := r.db.Save(decision).Error; err != nil {
		logger.Error("Failed to save pricing decision", err)
		return err
	}
	return nil
}

// FindByKey (현장, 품목, 적용일)로 결정 행 조회. 없으면 (nil, nil)
func (r *decisionRepository) FindByKey(siteID *uint, materialTypeID uint, effectiveDate time.Time) (*model.PricingDecision, error) {
	startOfDay, endOfDay := dayWindow(effectiveDate)

	var decision model.PricingDecision
	query := scopeSite(r.db.
		Where("material_type_id = ? AND effective_date >= ? AND effective_date < ?",
			materialTypeID, startOfDay, endOfDay), siteID)
	if err := query.First(&decision).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Error("Failed to find pricing decision by key", err)
		return nil, err
	}
	return &decision, nil
}

// FindLatestOnOrBefore 기준일 이전(포함)에 적용 시작된 가장 최근 결정 조회. 없으면 (nil, nil)
func (r *decisionRepository) FindLatestOnOrBefore(siteID *uint, materialTypeID uint, date time.Time) (*model.PricingDecision, error) {
	_, endOfDay := dayWindow(date)

	var decision model.PricingDecision
	query := scopeSite(r.db.
		Where("material_type_id = ? AND effective_date < ?", materialTypeID, endOfDay), siteID)
	if err := query.Order("effective_date DESC").First(&decision).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Error("Failed to find latest pricing decision", err)
		return nil, err
	}
	return &decision, nil
}

// FindByDateRange 품목의 기간별 결정 조회 (양 끝 날짜 포함, 오름차순)
func (r *decisionRepository) FindByDateRange(siteID *uint, materialTypeID uint, startDate, endDate time.Time) ([]model.PricingDecision, error) {
	start, _ := dayWindow(startDate)
	_, end := dayWindow(endDate)

	var decisions []model.PricingDecision
	query := scopeSite(r.db.
		Where("material_type_id = ? AND effective_date >= ? AND effective_date < ?",
			materialTypeID, start, end), siteID)
	if err := query.Order("effective_date ASC").Find(&decisions).Error; err != nil {
		logger.Error("Failed to find pricing decisions by date range", err)
		return nil, err
	}
	return decisions, nil
}

// List 기간 내 전체 품목의 결정 목록 (원장 조회/내보내기용)
// siteID가 nil이면 현장 필터 없이 전체를 반환한다
func (r *decisionRepository) List(siteID *uint, startDate, endDate time.Time) ([]model.PricingDecision, error) {
	start, _ := dayWindow(startDate)
	_, end := dayWindow(endDate)

	query := r.db.Where("effective_date >= ? AND effective_date < ?", start, end)
	if siteID != nil {
		query = query.Where("site_id = ?", *siteID)
	}

	var decisions []model.PricingDecision
	if err := query.Order("effective_date DESC, material_type_id").Find(&decisions).Error; err != nil {
		logger.Error("Failed to list pricing decisions", err)
		return nil, err
	}
	return decisions, nil
}
