package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/repository"
	"github.com/jmpark/gocheol-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// 계수 행이 전혀 없을 때 적용되는 기본 정책
const (
	DefaultCoefficientPct     = 60.0
	DefaultFixedCostKRWPerTon = 0.0
)

// 추천 추이 조회 기간 한도 (일)
const (
	MinTrendDays = 1
	MaxTrendDays = 365
)

var (
	ErrMaterialNotFound = errors.New("품목을 찾을 수 없습니다")
	ErrSiteNotFound     = errors.New("현장을 찾을 수 없습니다")
)

// CoefficientInput 계수 upsert 입력. nil 필드는 기존 값을 유지한다
type CoefficientInput struct {
	SiteID             *uint
	MaterialTypeID     uint
	CoefficientPct     *float64
	FixedCostKRWPerTon *float64
	UpdatedBy          string
}

// ApprovalInput 단가 승인 입력
type ApprovalInput struct {
	SiteID             *uint
	MaterialTypeID     uint
	EffectiveDate      time.Time
	CoefficientPct     *float64
	FixedCostKRWPerTon *float64
	ApprovedKRWPerTon  *float64
	Note               string
	AttachmentURL      string
	ApprovedBy         string
}

// PricingService 단가 산정 서비스 인터페이스
type PricingService interface {
	ListMaterials(siteID *uint) ([]model.MaterialPricingItem, error)
	GetRecommendation(siteID *uint, materialTypeID uint, date time.Time) (*model.RecommendationResponse, error)
	UpsertCoefficient(input CoefficientInput) (*model.PricingCoefficient, error)
	Approve(input ApprovalInput) (*model.PricingDecision, error)
	GetTrend(siteID *uint, materialTypeID uint, days int, endDate time.Time) ([]model.TrendPoint, error)
	ListDecisions(siteID *uint, startDate, endDate time.Time) ([]model.PricingDecision, error)
	ExportDecisions(siteID *uint, startDate, endDate time.Time) (*excelize.File, error)
}

type pricingService struct {
	materialRepo    repository.MaterialRepository
	marketPriceRepo repository.MarketPriceRepository
	coefficientRepo repository.CoefficientRepository
	decisionRepo    repository.DecisionRepository
	siteRepo        repository.SiteRepository
	db              *gorm.DB
}

// NewPricingService 단가 산정 서비스 생성
func NewPricingService(
	materialRepo repository.MaterialRepository,
	marketPriceRepo repository.MarketPriceRepository,
	coefficientRepo repository.CoefficientRepository,
	decisionRepo repository.DecisionRepository,
	siteRepo repository.SiteRepository,
	db *gorm.DB,
) PricingService {
	return &pricingService{
		materialRepo:    materialRepo,
		marketPriceRepo: marketPriceRepo,
		coefficientRepo: coefficientRepo,
		decisionRepo:    decisionRepo,
		siteRepo:        siteRepo,
		db:              db,
	}
}

// ComputeSuggested 추천 단가 공식: round(시세 × 계수% − 고정비)
// 고정비가 환산 시세를 초과하면 음수가 나오며, 이를 보정하지 않고 그대로 반환한다
func ComputeSuggested(lmeKRWPerTon, coefficientPct, fixedCostKRWPerTon float64) float64 {
	return math.Round(lmeKRWPerTon*coefficientPct/100 - fixedCostKRWPerTon)
}

// ListMaterials 품목 목록 조회 (심볼 매핑 + 현장 적용 계수 조인)
func (s *pricingService) ListMaterials(siteID *uint) ([]model.MaterialPricingItem, error) {
	materials, err := s.materialRepo.FindAll()
	if err != nil {
		return nil, err
	}

	items := make([]model.MaterialPricingItem, 0, len(materials))
	for _, material := range materials {
		item := model.MaterialPricingItem{
			MaterialTypeID: material.ID,
			MaterialName:   material.Name,
			Category:       string(material.Category),
			Unit:           material.Unit,
		}

		if material.SymbolMap != nil {
			symbol := material.SymbolMap.Symbol
			source := material.SymbolMap.Source
			item.Symbol = &symbol
			item.Source = &source
		}

		pct, fixedCost, scope, err := s.resolveCoefficient(s.coefficientRepo, siteID, material.ID)
		if err != nil {
			return nil, err
		}
		item.CoefficientPct = pct
		item.FixedCostKRWPerTon = fixedCost
		item.CoefficientScope = scope

		items = append(items, item)
	}

	return items, nil
}

// GetRecommendation 추천 단가 계산 — 순수 조회, 부수효과 없음
// 심볼 매핑이 없으면 실패 대신 심볼/출처 null + 시세 0으로 성능 저하된 응답을 반환하고,
// 해당일 시세가 없으면 시세를 0으로 간주한다 (추천가는 -고정비로 수렴)
func (s *pricingService) GetRecommendation(siteID *uint, materialTypeID uint, date time.Time) (*model.RecommendationResponse, error) {
	material, err := s.materialRepo.FindByID(materialTypeID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}

	response := &model.RecommendationResponse{
		MaterialTypeID: material.ID,
		MaterialName:   material.Name,
		Unit:           material.Unit,
		SiteID:         siteID,
		Date:           date.Format("2006-01-02"),
	}

	var lmeKRWPerTon float64
	symbolMap, err := s.materialRepo.FindSymbolMap(materialTypeID)
	if err != nil {
		return nil, err
	}
	if symbolMap != nil {
		symbol := symbolMap.Symbol
		source := symbolMap.Source
		response.Symbol = &symbol
		response.Source = &source

		quote, err := s.marketPriceRepo.FindByDate(symbolMap.Symbol, symbolMap.Source, date)
		if err != nil {
			return nil, err
		}
		if quote != nil {
			lmeKRWPerTon = quote.KRWPerTon
			response.Market = model.MarketSnapshot{
				PriceDate: quote.PriceDate.Format("2006-01-02"),
				USDPerTon: quote.USDPerTon,
				FxUSDKRW:  quote.FxUSDKRW,
				KRWPerTon: quote.KRWPerTon,
			}
		}
	}

	pct, fixedCost, scope, err := s.resolveCoefficient(s.coefficientRepo, siteID, materialTypeID)
	if err != nil {
		return nil, err
	}
	response.CoefficientPct = pct
	response.FixedCostKRWPerTon = fixedCost
	response.CoefficientScope = scope
	response.SuggestedKRWPerTon = ComputeSuggested(lmeKRWPerTon, pct, fixedCost)

	// 직전 승인 단가는 참고 정보일 뿐 추천 계산에 쓰이지 않는다
	lastDecision, err := s.decisionRepo.FindLatestOnOrBefore(siteID, materialTypeID, date)
	if err != nil {
		return nil, err
	}
	if lastDecision != nil {
		response.LastDecision = &model.LastDecisionSnapshot{
			EffectiveDate:     lastDecision.EffectiveDate.Format("2006-01-02"),
			ApprovedKRWPerTon: lastDecision.ApprovedKRWPerTon,
			ApprovedBy:        lastDecision.ApprovedBy,
		}
	}

	return response, nil
}

// UpsertCoefficient 계수 upsert — 미지정 필드는 기존 값 유지, 최초 행은 기본값(60%, 0)
func (s *pricingService) UpsertCoefficient(input CoefficientInput) (*model.PricingCoefficient, error) {
	if err := s.validateRefs(input.SiteID, input.MaterialTypeID); err != nil {
		return nil, err
	}
	return s.upsertCoefficient(s.coefficientRepo, input)
}

// upsertCoefficient 실제 merge-upsert. 트랜잭션 스코프 저장소로도 같은 의미론으로 재사용한다
func (s *pricingService) upsertCoefficient(repo repository.CoefficientRepository, input CoefficientInput) (*model.PricingCoefficient, error) {
	existing, err := repo.FindExact(input.SiteID, input.MaterialTypeID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		coefficient := model.PricingCoefficient{
			SiteID:             input.SiteID,
			MaterialTypeID:     input.MaterialTypeID,
			CoefficientPct:     DefaultCoefficientPct,
			FixedCostKRWPerTon: DefaultFixedCostKRWPerTon,
			UpdatedBy:          input.UpdatedBy,
		}
		if input.CoefficientPct != nil {
			coefficient.CoefficientPct = *input.CoefficientPct
		}
		if input.FixedCostKRWPerTon != nil {
			coefficient.FixedCostKRWPerTon = *input.FixedCostKRWPerTon
		}
		if err := repo.Save(&coefficient); err != nil {
			return nil, err
		}
		return &coefficient, nil
	}

	if input.CoefficientPct != nil {
		existing.CoefficientPct = *input.CoefficientPct
	}
	if input.FixedCostKRWPerTon != nil {
		existing.FixedCostKRWPerTon = *input.FixedCostKRWPerTon
	}
	if input.UpdatedBy != "" {
		existing.UpdatedBy = input.UpdatedBy
	}
	if err := repo.Save(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Approve 단가 승인 — 계수 반영, 추천가 재계산, 원장 upsert를 한 트랜잭션으로 처리
// 어느 단계에서 실패해도 계수 변경까지 함께 롤백된다
func (s *pricingService) Approve(input ApprovalInput) (*model.PricingDecision, error) {
	material, err := s.materialRepo.FindByID(input.MaterialTypeID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}
	if err := s.validateSite(input.SiteID); err != nil {
		return nil, err
	}

	logger.Info("Approving pricing decision", map[string]interface{}{
		"site_id":          input.SiteID,
		"material_type_id": input.MaterialTypeID,
		"effective_date":   input.EffectiveDate.Format("2006-01-02"),
		"approved_by":      input.ApprovedBy,
	})

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during pricing approval, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"material_type_id": input.MaterialTypeID,
			})
		}
	}()

	coefficientRepo := s.coefficientRepo.WithTx(tx)
	decisionRepo := s.decisionRepo.WithTx(tx)

	// 1. 심볼/시세 해석. 매핑이나 해당일 시세가 없으면 0으로 둔다
	var (
		symbol, source string
		lmeKRWPerTon   float64
		referenceDate  = input.EffectiveDate
	)
	symbolMap, err := s.materialRepo.FindSymbolMap(input.MaterialTypeID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if symbolMap != nil {
		symbol = symbolMap.Symbol
		source = symbolMap.Source
		quote, err := s.marketPriceRepo.FindByDate(symbol, source, input.EffectiveDate)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if quote != nil {
			lmeKRWPerTon = quote.KRWPerTon
			referenceDate = quote.PriceDate
		}
	}

	// 2. 계수 덮어쓰기 — 결정에 저장되는 계수가 계산에 쓰인 값과 일치하도록 먼저 반영
	if input.CoefficientPct != nil || input.FixedCostKRWPerTon != nil {
		if _, err := s.upsertCoefficient(coefficientRepo, CoefficientInput{
			SiteID:             input.SiteID,
			MaterialTypeID:     input.MaterialTypeID,
			CoefficientPct:     input.CoefficientPct,
			FixedCostKRWPerTon: input.FixedCostKRWPerTon,
			UpdatedBy:          input.ApprovedBy,
		}); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// 3. 적용 계수 조회 (방금 쓴 값 포함) 후 추천가 재계산
	pct, fixedCost, _, err := s.resolveCoefficient(coefficientRepo, input.SiteID, input.MaterialTypeID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	suggested := ComputeSuggested(lmeKRWPerTon, pct, fixedCost)

	// 4. 승인가: 명시값이 없으면 추천가 그대로
	approved := suggested
	if input.ApprovedKRWPerTon != nil {
		approved = *input.ApprovedKRWPerTon
	}

	// 5. (현장, 품목, 적용일) 기준 upsert — 있으면 계산 필드 전체를 덮어쓴다
	now := time.Now()

	existing, err := decisionRepo.FindByKey(input.SiteID, input.MaterialTypeID, input.EffectiveDate)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var decision model.PricingDecision
	if existing != nil {
		decision = *existing
	} else {
		effective := input.EffectiveDate
		decision = model.PricingDecision{
			SiteID:         input.SiteID,
			MaterialTypeID: input.MaterialTypeID,
			EffectiveDate:  time.Date(effective.Year(), effective.Month(), effective.Day(), 0, 0, 0, 0, effective.Location()),
		}
	}

	decision.ReferenceDate = referenceDate
	decision.Symbol = symbol
	decision.Source = source
	decision.LmeKRWPerTon = lmeKRWPerTon
	decision.CoefficientPct = pct
	decision.FixedCostKRWPerTon = fixedCost
	decision.SuggestedKRWPerTon = suggested
	decision.ApprovedKRWPerTon = approved
	decision.Note = input.Note
	if input.AttachmentURL != "" {
		decision.AttachmentURL = input.AttachmentURL
	}
	decision.ApprovedBy = input.ApprovedBy
	decision.ApprovedAt = &now

	if err := decisionRepo.Save(&decision); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit pricing approval", err)
		return nil, err
	}

	return &decision, nil
}

// GetTrend 일 단위 추이 조회. 기간은 [1, 365]일로 강제하며, 양 끝 날짜를 포함해
// days+1개의 연속 포인트를 반환한다. 데이터가 없는 날짜는 0으로 채운다
func (s *pricingService) GetTrend(siteID *uint, materialTypeID uint, days int, endDate time.Time) ([]model.TrendPoint, error) {
	material, err := s.materialRepo.FindByID(materialTypeID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}

	if days < MinTrendDays {
		days = MinTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}
	startDate := endDate.AddDate(0, 0, -days)

	marketByDate := make(map[string]float64)
	symbolMap, err := s.materialRepo.FindSymbolMap(materialTypeID)
	if err != nil {
		return nil, err
	}
	if symbolMap != nil {
		quotes, err := s.marketPriceRepo.FindByDateRange(symbolMap.Symbol, symbolMap.Source, startDate, endDate)
		if err != nil {
			return nil, err
		}
		for _, quote := range quotes {
			marketByDate[quote.PriceDate.Format("2006-01-02")] = quote.KRWPerTon
		}
	}

	approvedByDate := make(map[string]float64)
	decisions, err := s.decisionRepo.FindByDateRange(siteID, materialTypeID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	for _, decision := range decisions {
		approvedByDate[decision.EffectiveDate.Format("2006-01-02")] = decision.ApprovedKRWPerTon
	}

	points := make([]model.TrendPoint, 0, days+1)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		points = append(points, model.TrendPoint{
			Date:              key,
			MarketKRWPerTon:   marketByDate[key],
			ApprovedKRWPerTon: approvedByDate[key],
		})
	}

	return points, nil
}

// ListDecisions 기간 내 승인 단가 원장 조회
func (s *pricingService) ListDecisions(siteID *uint, startDate, endDate time.Time) ([]model.PricingDecision, error) {
	return s.decisionRepo.List(siteID, startDate, endDate)
}

// ExportDecisions 승인 단가 원장을 XLSX로 내보내기
func (s *pricingService) ExportDecisions(siteID *uint, startDate, endDate time.Time) (*excelize.File, error) {
	decisions, err := s.decisionRepo.List(siteID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	materials, err := s.materialRepo.FindAll()
	if err != nil {
		return nil, err
	}
	materialNames := make(map[uint]string, len(materials))
	for _, material := range materials {
		materialNames[material.ID] = material.Name
	}

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)

	headers := []string{
		"적용일", "현장ID", "품목", "심볼", "출처",
		"시세(원/톤)", "계수(%)", "고정비(원/톤)", "추천가(원/톤)", "승인가(원/톤)",
		"승인자", "승인일시", "비고",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	for rowIdx, decision := range decisions {
		siteCell := ""
		if decision.SiteID != nil {
			siteCell = fmt.Sprintf("%d", *decision.SiteID)
		}
		approvedAt := ""
		if decision.ApprovedAt != nil {
			approvedAt = decision.ApprovedAt.Format("2006-01-02 15:04:05")
		}

		values := []interface{}{
			decision.EffectiveDate.Format("2006-01-02"),
			siteCell,
			materialNames[decision.MaterialTypeID],
			decision.Symbol,
			decision.Source,
			decision.LmeKRWPerTon,
			decision.CoefficientPct,
			decision.FixedCostKRWPerTon,
			decision.SuggestedKRWPerTon,
			decision.ApprovedKRWPerTon,
			decision.ApprovedBy,
			approvedAt,
			decision.Note,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			file.SetCellValue(sheet, cell, value)
		}
	}

	return file, nil
}

// resolveCoefficient 2단계 계수 조회: 현장 행 → 전사 행 → 기본값(60%, 0)
func (s *pricingService) resolveCoefficient(repo repository.CoefficientRepository, siteID *uint, materialTypeID uint) (pct, fixedCost float64, scope string, err error) {
	if siteID != nil {
		siteRow, err := repo.FindExact(siteID, materialTypeID)
		if err != nil {
			return 0, 0, "", err
		}
		if siteRow != nil {
			return siteRow.CoefficientPct, siteRow.FixedCostKRWPerTon, "site", nil
		}
	}

	globalRow, err := repo.FindExact(nil, materialTypeID)
	if err != nil {
		return 0, 0, "", err
	}
	if globalRow != nil {
		return globalRow.CoefficientPct, globalRow.FixedCostKRWPerTon, "global", nil
	}

	return DefaultCoefficientPct, DefaultFixedCostKRWPerTon, "default", nil
}

func (s *pricingService) validateRefs(siteID *uint, materialTypeID uint) error {
	material, err := s.materialRepo.FindByID(materialTypeID)
	if err != nil {
		return err
	}
	if material == nil {
		return ErrMaterialNotFound
	}
	return s.validateSite(siteID)
}

func (s *pricingService) validateSite(siteID *uint) error {
	if siteID == nil {
		return nil
	}
	site, err := s.siteRepo.FindByID(*siteID)
	if err != nil {
		return err
	}
	if site == nil {
		return ErrSiteNotFound
	}
	return nil
}
