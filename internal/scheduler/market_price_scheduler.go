package scheduler

import (
	"github.com/jmpark/gocheol-backend/internal/app/service"
	"github.com/jmpark/gocheol-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// MarketPriceScheduler 시세 자동 적재 스케줄러
type MarketPriceScheduler struct {
	cron          *cron.Cron
	marketService service.MarketService
	cronSpec      string
}

// NewMarketPriceScheduler 시세 스케줄러 생성
// cronSpec 예: "30 9 * * *" = 매일 9시 30분 (LME 전일 종가 반영 시각)
func NewMarketPriceScheduler(marketService service.MarketService, cronSpec string) *MarketPriceScheduler {
	return &MarketPriceScheduler{
		cron:          cron.New(),
		marketService: marketService,
		cronSpec:      cronSpec,
	}
}

// Start 스케줄러 시작
func (s *MarketPriceScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		logger.Info("Starting scheduled market price update", nil)

		inserted, err := s.marketService.UpdatePricesFromExternalAPI()
		if err != nil {
			logger.Error("Failed to update market prices from scheduler", err)
			return
		}

		logger.Info("Successfully updated market prices from scheduler", map[string]interface{}{
			"inserted": inserted,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for market price update", err)
		return err
	}

	s.cron.Start()
	logger.Info("Market price scheduler started", map[string]interface{}{
		"cron": s.cronSpec,
	})

	return nil
}

// Stop 스케줄러 중지
func (s *MarketPriceScheduler) Stop() {
	logger.Info("Stopping market price scheduler...", nil)
	s.cron.Stop()
	logger.Info("Market price scheduler stopped", nil)
}
