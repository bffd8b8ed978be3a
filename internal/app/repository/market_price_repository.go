package repository

import (
	"time"

	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/pkg/logger"
	"gorm.io/gorm"
)

// MarketPriceRepository 일일 시세 저장소 인터페이스
type MarketPriceRepository interface {
	Create(price *model.MarketPriceDaily) error
	FindByDate(symbol, source string, date time.Time) (*model.MarketPriceDaily, error)
	FindLatestOnOrBefore(symbol, source string, date time.Time) (*model.MarketPriceDaily, error)
	FindByDateRange(symbol, source string, startDate, endDate time.Time) ([]model.MarketPriceDaily, error)
}

type marketPriceRepository struct {
	db *gorm.DB
}

// NewMarketPriceRepository 시세 저장소 생성
func NewMarketPriceRepository(db *gorm.DB) MarketPriceRepository {
	return &marketPriceRepository{db: db}
}

// Create 일일 시세 적재. 같은 (날짜, 심볼, 출처)의 중복 적재는 unique index가 거부한다
func (r *marketPriceRepository) Create(price *model.MarketPriceDaily) error {
	if err := r.db.Create(price).Error; err != nil {
		logger.Error("Failed to create market price", err)
		return err
	}
	return nil
}

// FindByDate 특정 심볼의 특정 날짜 시세 조회. 없으면 (nil, nil)
func (r *marketPriceRepository) FindByDate(symbol, source string, date time.Time) (*model.MarketPriceDaily, error) {
	startOfDay, endOfDay := dayWindow(date)

	var price model.MarketPriceDaily
	if err := r.db.Where("symbol = ? AND source = ? AND price_date >= ? AND price_date < ?",
		symbol, source, startOfDay, endOfDay).
		First(&price).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Error("Failed to find market price by date", err)
		return nil, err
	}
	return &price, nil
}

// FindLatestOnOrBefore 기준일 이전(포함)의 가장 최근 시세 조회. 없으면 (nil, nil)
func (r *marketPriceRepository) FindLatestOnOrBefore(symbol, source string, date time.Time) (*model.MarketPriceDaily, error) {
	_, endOfDay := dayWindow(date)

	var price model.MarketPriceDaily
	if err := r.db.Where("symbol = ? AND source = ? AND price_date < ?", symbol, source, endOfDay).
		Order("price_date DESC").
		First(&price).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Error("Failed to find latest market price", err)
		return nil, err
	}
	return &price, nil
}

// FindByDateRange 기간별 시세 조회 (양 끝 날짜 포함, 오름차순)
func (r *marketPriceRepository) FindByDateRange(symbol, source string, startDate, endDate time.Time) ([]model.MarketPriceDaily, error) {
	start, _ := dayWindow(startDate)
	_, end := dayWindow(endDate)

	var prices []model.MarketPriceDaily
	if err := r.db.Where("symbol = ? AND source = ? AND price_date >= ? AND price_date < ?",
		symbol, source, start, end).
		Order("price_date ASC").
		Find(&prices).Error; err != nil {
		logger.Error("Failed to find market prices by date range", err)
		return nil, err
	}
	return prices, nil
}
