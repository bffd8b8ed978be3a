package model

import (
	"time"
)

// MarketPriceDaily 심볼별 일일 시세 스냅샷
// 외부 수집 작업이 하루 한 번 적재하며, 적재 후에는 수정하지 않는다
type MarketPriceDaily struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PriceDate time.Time `gorm:"index:idx_market_daily,unique;not null" json:"price_date"`                // 기준일
	Symbol    string    `gorm:"type:varchar(30);index:idx_market_daily,unique;not null" json:"symbol"`   // 시장 심볼
	Source    string    `gorm:"type:varchar(50);index:idx_market_daily,unique;not null" json:"source"`   // 시세 출처
	USDPerTon float64   `gorm:"not null" json:"usd_per_ton"`                                             // 달러 시세 (USD/톤)
	FxUSDKRW  float64   `gorm:"not null" json:"fx_usdkrw"`                                               // 적용 환율
	KRWPerTon float64   `gorm:"not null" json:"krw_per_ton"`                                             // 원화 환산 시세 (원/톤)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MarketPriceDaily) TableName() string {
	return "market_prices_daily"
}

// TickerItem 시세판 API 응답 아이템
type TickerItem struct {
	Symbol    string   `json:"symbol"`
	Source    string   `json:"source"`
	USDPerTon float64  `json:"usd_per_ton"`
	FxUSDKRW  float64  `json:"fx_usdkrw"`
	KRWPerTon float64  `json:"krw_per_ton"`
	DeltaPct  *float64 `json:"delta_pct"` // 전일 대비 변동률, 전일 시세가 없거나 0이면 null
	UpdatedAt string   `json:"updated_at"`
}
