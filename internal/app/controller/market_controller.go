package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmpark/gocheol-backend/internal/app/service"
	apperrors "github.com/jmpark/gocheol-backend/internal/errors"
)

// MarketController 시세 컨트롤러
type MarketController struct {
	marketService service.MarketService
}

// NewMarketController 시세 컨트롤러 생성
func NewMarketController(marketService service.MarketService) *MarketController {
	return &MarketController{
		marketService: marketService,
	}
}

// CreateDailyPriceRequest 일일 시세 등록 요청
type CreateDailyPriceRequest struct {
	PriceDate string  `json:"price_date" binding:"required"` // YYYY-MM-DD
	Symbol    string  `json:"symbol" binding:"required"`
	Source    string  `json:"source" binding:"required"`
	USDPerTon float64 `json:"usd_per_ton" binding:"required,gte=0"`
	FxUSDKRW  float64 `json:"fx_usdkrw" binding:"required,gt=0"`
}

// GetTicker 시세판 조회
// @Summary 시세판 조회
// @Description 매핑된 전 심볼의 최근 시세와 전일 대비 변동률을 조회합니다
// @Tags market
// @Produce json
// @Param date query string false "기준일 (YYYY-MM-DD, 기본 오늘)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/market/ticker [get]
func (ctrl *MarketController) GetTicker(c *gin.Context) {
	date, ok := parseDate(c, "date")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "날짜 형식은 YYYY-MM-DD여야 합니다")
		return
	}

	items, err := ctrl.marketService.GetTicker(date)
	if err != nil {
		apperrors.InternalError(c, "시세판을 가져오는데 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// CreateDailyPrice 일일 시세 수동 등록 (관리자 전용)
// @Summary 일일 시세 등록
// @Description 특정 날짜/심볼의 시세를 수동 등록합니다. 같은 키로 재등록하면 409를 반환합니다
// @Tags market
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDailyPriceRequest true "시세 등록 요청"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/market/prices [post]
func (ctrl *MarketController) CreateDailyPrice(c *gin.Context) {
	var req CreateDailyPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	priceDate, err := time.Parse("2006-01-02", req.PriceDate)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "날짜 형식은 YYYY-MM-DD여야 합니다")
		return
	}

	price, err := ctrl.marketService.CreateDailyPrice(service.DailyPriceInput{
		PriceDate: priceDate,
		Symbol:    req.Symbol,
		Source:    req.Source,
		USDPerTon: req.USDPerTon,
		FxUSDKRW:  req.FxUSDKRW,
	})
	if err != nil {
		if err == service.ErrInvalidMarketQuote {
			apperrors.BadRequest(c, apperrors.MarketInvalidQuote, "잘못된 시세 값입니다")
			return
		}
		errorInfo := apperrors.ParseError(err, "market_price")
		if errorInfo.Code == apperrors.MarketPriceDuplicate {
			apperrors.Conflict(c, errorInfo.Code, errorInfo.Message)
			return
		}
		apperrors.RespondWithError(c, http.StatusInternalServerError, errorInfo.Code, errorInfo.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    price,
	})
}

// UpdateFromExternalAPI 외부 API에서 시세 적재 (관리자 전용)
// @Summary 외부 시세 수동 적재
// @Description 외부 시세 API에서 오늘 자 시세를 즉시 적재합니다. 스케줄러와 같은 경로입니다
// @Tags market
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/market/prices/update [post]
func (ctrl *MarketController) UpdateFromExternalAPI(c *gin.Context) {
	inserted, err := ctrl.marketService.UpdatePricesFromExternalAPI()
	if err != nil {
		if err == service.ErrExternalAPIFailed {
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "외부 시세 API 호출에 실패했습니다")
			return
		}
		apperrors.InternalError(c, "시세 적재에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"inserted": inserted,
	})
}
