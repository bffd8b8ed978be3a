package model

import (
	"time"
)

// PricingCoefficient 품목별 매입 단가 정책 (계수% + 고정비)
// site_id가 NULL이면 전사 기본값. (site_id, material_type_id)당 한 행만 유지하며
// 이력은 남기지 않는다 — 이력은 PricingDecision에만 쌓인다
type PricingCoefficient struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	SiteID             *uint     `gorm:"index" json:"site_id"` // NULL = 전사 기본
	MaterialTypeID     uint      `gorm:"index;not null" json:"material_type_id"`
	CoefficientPct     float64   `gorm:"not null;default:60" json:"coefficient_pct"`      // 시세 적용 계수 (%)
	FixedCostKRWPerTon float64   `gorm:"not null;default:0" json:"fixed_cost_krw_per_ton"` // 톤당 고정 공제액 (원)
	UpdatedBy          string    `gorm:"type:varchar(100)" json:"updated_by,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (PricingCoefficient) TableName() string {
	return "pricing_coefficients"
}

// PricingDecision 승인 단가 원장
// (site_id, material_type_id, effective_date)로 upsert되며, 이후 effective_date의
// 결정이 쌓이면 과거 행은 수정하지 않는다
type PricingDecision struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	SiteID             *uint      `gorm:"index" json:"site_id"` // NULL = 전사 공통
	MaterialTypeID     uint       `gorm:"index;not null" json:"material_type_id"`
	EffectiveDate      time.Time  `gorm:"index;not null" json:"effective_date"` // 적용 시작일
	ReferenceDate      time.Time  `json:"reference_date"`                       // 시세 기준일
	Symbol             string     `gorm:"type:varchar(30)" json:"symbol"`
	Source             string     `gorm:"type:varchar(50)" json:"source"`
	LmeKRWPerTon       float64    `json:"lme_krw_per_ton"`
	CoefficientPct     float64    `json:"coefficient_pct"`
	FixedCostKRWPerTon float64    `json:"fixed_cost_krw_per_ton"`
	SuggestedKRWPerTon float64    `json:"suggested_krw_per_ton"`
	ApprovedKRWPerTon  float64    `json:"approved_krw_per_ton"`
	Note               string     `gorm:"type:text" json:"note,omitempty"`
	AttachmentURL      string     `gorm:"type:text" json:"attachment_url,omitempty"` // 승인 근거 문서
	ApprovedBy         string     `gorm:"type:varchar(100)" json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (PricingDecision) TableName() string {
	return "pricing_decisions"
}

// RecommendationResponse 추천 단가 API 응답
type RecommendationResponse struct {
	MaterialTypeID     uint                  `json:"material_type_id"`
	MaterialName       string                `json:"material_name"`
	Unit               string                `json:"unit"`
	SiteID             *uint                 `json:"site_id"`
	Date               string                `json:"date"`
	Symbol             *string               `json:"symbol"` // 심볼 매핑이 없으면 null
	Source             *string               `json:"source"`
	Market             MarketSnapshot        `json:"market"`
	CoefficientPct     float64               `json:"coefficient_pct"`
	FixedCostKRWPerTon float64               `json:"fixed_cost_krw_per_ton"`
	CoefficientScope   string                `json:"coefficient_scope"` // site | global | default
	SuggestedKRWPerTon float64               `json:"suggested_krw_per_ton"`
	LastDecision       *LastDecisionSnapshot `json:"last_decision,omitempty"` // 참고용, 추천 계산에는 미사용
}

// MarketSnapshot 추천 응답에 포함되는 시세 블록. 해당일 시세가 없으면 0으로 채운다
type MarketSnapshot struct {
	PriceDate string  `json:"price_date,omitempty"`
	USDPerTon float64 `json:"usd_per_ton"`
	FxUSDKRW  float64 `json:"fx_usdkrw"`
	KRWPerTon float64 `json:"krw_per_ton"`
}

// LastDecisionSnapshot 직전 승인 단가 요약
type LastDecisionSnapshot struct {
	EffectiveDate     string  `json:"effective_date"`
	ApprovedKRWPerTon float64 `json:"approved_krw_per_ton"`
	ApprovedBy        string  `json:"approved_by,omitempty"`
}

// MaterialPricingItem 품목 목록 API 응답 아이템 (심볼/계수 조인)
type MaterialPricingItem struct {
	MaterialTypeID     uint    `json:"material_type_id"`
	MaterialName       string  `json:"material_name"`
	Category           string  `json:"category"`
	Unit               string  `json:"unit"`
	Symbol             *string `json:"symbol"`
	Source             *string `json:"source"`
	CoefficientPct     float64 `json:"coefficient_pct"`
	FixedCostKRWPerTon float64 `json:"fixed_cost_krw_per_ton"`
	CoefficientScope   string  `json:"coefficient_scope"`
}

// TrendPoint 추이 API의 일 단위 포인트. 빈 날짜는 0으로 채워 연속 시계열을 보장한다
type TrendPoint struct {
	Date              string  `json:"date"`
	MarketKRWPerTon   float64 `json:"market_krw_per_ton"`
	ApprovedKRWPerTon float64 `json:"approved_krw_per_ton"`
}
