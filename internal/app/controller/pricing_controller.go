package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmpark/gocheol-backend/internal/app/service"
	apperrors "github.com/jmpark/gocheol-backend/internal/errors"
	"github.com/jmpark/gocheol-backend/internal/middleware"
)

// PricingController 단가 산정 컨트롤러
type PricingController struct {
	pricingService service.PricingService
}

// NewPricingController 단가 산정 컨트롤러 생성
func NewPricingController(pricingService service.PricingService) *PricingController {
	return &PricingController{
		pricingService: pricingService,
	}
}

// UpsertCoefficientRequest 계수 upsert 요청. 생략한 필드는 기존 값을 유지한다
type UpsertCoefficientRequest struct {
	SiteID             *uint    `json:"site_id"`
	MaterialTypeID     uint     `json:"material_type_id" binding:"required"`
	CoefficientPct     *float64 `json:"coefficient_pct" binding:"omitempty,gte=0"`
	FixedCostKRWPerTon *float64 `json:"fixed_cost_krw_per_ton" binding:"omitempty,gte=0"`
}

// ApproveRequest 단가 승인 요청
type ApproveRequest struct {
	SiteID             *uint    `json:"site_id"`
	MaterialTypeID     uint     `json:"material_type_id" binding:"required"`
	EffectiveDate      string   `json:"effective_date" binding:"required"` // YYYY-MM-DD
	CoefficientPct     *float64 `json:"coefficient_pct" binding:"omitempty,gte=0"`
	FixedCostKRWPerTon *float64 `json:"fixed_cost_krw_per_ton" binding:"omitempty,gte=0"`
	ApprovedKRWPerTon  *float64 `json:"approved_krw_per_ton"`
	Note               string   `json:"note"`
	AttachmentURL      string   `json:"attachment_url"`
	ApprovedBy         string   `json:"approved_by"`
}

// GetMaterials 품목 목록 조회 (심볼/적용 계수 포함)
// @Summary 단가 품목 목록 조회
// @Description 품목별 시장 심볼과 현장 적용 계수를 함께 조회합니다
// @Tags pricing
// @Produce json
// @Param siteId query int false "현장 ID (생략 시 전사 기준)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/pricing/materials [get]
func (ctrl *PricingController) GetMaterials(c *gin.Context) {
	siteID, ok := parseSiteID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 siteId입니다")
		return
	}

	items, err := ctrl.pricingService.ListMaterials(siteID)
	if err != nil {
		apperrors.InternalError(c, "품목 목록을 가져오는데 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// GetRecommendation 추천 단가 조회
// @Summary 추천 단가 조회
// @Description 시세 × 계수% − 고정비로 추천 단가를 계산합니다. 심볼 매핑이 없으면 심볼 null + 시세 0으로 응답합니다
// @Tags pricing
// @Produce json
// @Param siteId query int false "현장 ID"
// @Param materialTypeId query int true "품목 ID"
// @Param date query string false "기준일 (YYYY-MM-DD, 기본 오늘)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/pricing/recommendation [get]
func (ctrl *PricingController) GetRecommendation(c *gin.Context) {
	siteID, ok := parseSiteID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 siteId입니다")
		return
	}

	materialTypeID, ok := parseMaterialTypeID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "materialTypeId가 필요합니다")
		return
	}

	date, ok := parseDate(c, "date")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "날짜 형식은 YYYY-MM-DD여야 합니다")
		return
	}

	recommendation, err := ctrl.pricingService.GetRecommendation(siteID, materialTypeID, date)
	if err != nil {
		if err == service.ErrMaterialNotFound {
			apperrors.NotFound(c, apperrors.MaterialNotFound, "품목을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "추천 단가를 계산하는데 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    recommendation,
	})
}

// UpsertCoefficient 계수 정책 저장 (관리자 전용)
// @Summary 단가 계수 저장
// @Description (현장, 품목) 단위 계수/고정비를 생성 또는 병합 갱신합니다
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpsertCoefficientRequest true "계수 저장 요청"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/pricing/coefficients [post]
func (ctrl *PricingController) UpsertCoefficient(c *gin.Context) {
	var req UpsertCoefficientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	coefficient, err := ctrl.pricingService.UpsertCoefficient(service.CoefficientInput{
		SiteID:             req.SiteID,
		MaterialTypeID:     req.MaterialTypeID,
		CoefficientPct:     req.CoefficientPct,
		FixedCostKRWPerTon: req.FixedCostKRWPerTon,
		UpdatedBy:          c.GetString(middleware.UserEmailKey),
	})
	if err != nil {
		switch err {
		case service.ErrMaterialNotFound:
			apperrors.NotFound(c, apperrors.MaterialNotFound, "품목을 찾을 수 없습니다")
		case service.ErrSiteNotFound:
			apperrors.NotFound(c, apperrors.SiteNotFound, "현장을 찾을 수 없습니다")
		default:
			// 동시 upsert가 unique 인덱스에 걸리면 충돌로 응답
			if info := apperrors.ParseError(err, "pricing"); info.Code == apperrors.ResourceConflict {
				apperrors.Conflict(c, info.Code, info.Message)
				return
			}
			apperrors.InternalError(c, "계수를 저장하는데 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    coefficient,
	})
}

// Approve 단가 승인 (관리자 전용)
// @Summary 단가 승인
// @Description 계수 반영, 추천가 재계산, 원장 upsert를 한 트랜잭션으로 처리합니다
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ApproveRequest true "단가 승인 요청"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/pricing/approve [post]
func (ctrl *PricingController) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "materialTypeId가 필요합니다")
		return
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "날짜 형식은 YYYY-MM-DD여야 합니다")
		return
	}

	approvedBy := req.ApprovedBy
	if approvedBy == "" {
		approvedBy = c.GetString(middleware.UserEmailKey)
	}

	decision, err := ctrl.pricingService.Approve(service.ApprovalInput{
		SiteID:             req.SiteID,
		MaterialTypeID:     req.MaterialTypeID,
		EffectiveDate:      effectiveDate,
		CoefficientPct:     req.CoefficientPct,
		FixedCostKRWPerTon: req.FixedCostKRWPerTon,
		ApprovedKRWPerTon:  req.ApprovedKRWPerTon,
		Note:               req.Note,
		AttachmentURL:      req.AttachmentURL,
		ApprovedBy:         approvedBy,
	})
	if err != nil {
		switch err {
		case service.ErrMaterialNotFound:
			apperrors.NotFound(c, apperrors.MaterialNotFound, "품목을 찾을 수 없습니다")
		case service.ErrSiteNotFound:
			apperrors.NotFound(c, apperrors.SiteNotFound, "현장을 찾을 수 없습니다")
		default:
			// 동시 승인이 unique 인덱스에 걸리면 충돌로 응답 — 재시도하면 upsert 경로를 탄다
			if info := apperrors.ParseError(err, "pricing"); info.Code == apperrors.ResourceConflict {
				apperrors.Conflict(c, info.Code, info.Message)
				return
			}
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.PricingApproveFailed, "단가 승인에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"approved_krw_per_ton": decision.ApprovedKRWPerTon,
		"data":                 decision,
	})
}

// GetTrend 단가 추이 조회
// @Summary 단가 추이 조회
// @Description 기간 내 일 단위 시세/승인가 시계열을 조회합니다. 빈 날짜는 0으로 채웁니다
// @Tags pricing
// @Produce json
// @Param siteId query int false "현장 ID"
// @Param materialTypeId query int true "품목 ID"
// @Param days query int false "조회 기간 (1~365, 기본 30)"
// @Param date query string false "기준일 (YYYY-MM-DD, 기본 오늘)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/pricing/trend [get]
func (ctrl *PricingController) GetTrend(c *gin.Context) {
	siteID, ok := parseSiteID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 siteId입니다")
		return
	}

	materialTypeID, ok := parseMaterialTypeID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "materialTypeId가 필요합니다")
		return
	}

	endDate, ok := parseDate(c, "date")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "날짜 형식은 YYYY-MM-DD여야 합니다")
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "days는 숫자여야 합니다")
			return
		}
		days = parsed
	}

	points, err := ctrl.pricingService.GetTrend(siteID, materialTypeID, days, endDate)
	if err != nil {
		if err == service.ErrMaterialNotFound {
			apperrors.NotFound(c, apperrors.MaterialNotFound, "품목을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "단가 추이를 가져오는데 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    points,
	})
}

// ListDecisions 승인 단가 원장 조회
// @Summary 승인 단가 원장 조회
// @Tags pricing
// @Produce json
// @Param siteId query int false "현장 ID (생략 시 전체)"
// @Param from query string false "시작일 (기본 30일 전)"
// @Param to query string false "종료일 (기본 오늘)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/pricing/decisions [get]
func (ctrl *PricingController) ListDecisions(c *gin.Context) {
	siteID, startDate, endDate, ok := ctrl.parseLedgerRange(c)
	if !ok {
		return
	}

	decisions, err := ctrl.pricingService.ListDecisions(siteID, startDate, endDate)
	if err != nil {
		apperrors.InternalError(c, "승인 단가 목록을 가져오는데 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    decisions,
	})
}

// ExportDecisions 승인 단가 원장 XLSX 내보내기
// @Summary 승인 단가 원장 내보내기
// @Tags pricing
// @Produce application/octet-stream
// @Param siteId query int false "현장 ID (생략 시 전체)"
// @Param from query string false "시작일 (기본 30일 전)"
// @Param to query string false "종료일 (기본 오늘)"
// @Success 200 {file} binary
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/pricing/decisions/export [get]
func (ctrl *PricingController) ExportDecisions(c *gin.Context) {
	siteID, startDate, endDate, ok := ctrl.parseLedgerRange(c)
	if !ok {
		return
	}

	file, err := ctrl.pricingService.ExportDecisions(siteID, startDate, endDate)
	if err != nil {
		apperrors.InternalError(c, "승인 단가 내보내기에 실패했습니다")
		return
	}

	filename := fmt.Sprintf("pricing-decisions-%s.xlsx", endDate.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		apperrors.InternalError(c, "파일 전송에 실패했습니다")
	}
}

func (ctrl *PricingController) parseLedgerRange(c *gin.Context) (*uint, time.Time, time.Time, bool) {
	siteID, ok := parseSiteID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 siteId입니다")
		return nil, time.Time{}, time.Time{}, false
	}

	endDate, ok := parseDate(c, "to")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "날짜 형식은 YYYY-MM-DD여야 합니다")
		return nil, time.Time{}, time.Time{}, false
	}

	startDate := endDate.AddDate(0, 0, -30)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "날짜 형식은 YYYY-MM-DD여야 합니다")
			return nil, time.Time{}, time.Time{}, false
		}
		startDate = parsed
	}

	return siteID, startDate, endDate, true
}
