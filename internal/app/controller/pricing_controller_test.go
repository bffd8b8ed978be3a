package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/repository"
	"github.com/jmpark/gocheol-backend/internal/app/service"
	"github.com/jmpark/gocheol-backend/internal/db"
	"github.com/jmpark/gocheol-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPricingControllerTest(t *testing.T) (*PricingController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	materialRepo := repository.NewMaterialRepository(testDB)
	marketPriceRepo := repository.NewMarketPriceRepository(testDB)
	coefficientRepo := repository.NewCoefficientRepository(testDB)
	decisionRepo := repository.NewDecisionRepository(testDB)
	siteRepo := repository.NewSiteRepository(testDB)

	pricingService := service.NewPricingService(
		materialRepo, marketPriceRepo, coefficientRepo, decisionRepo, siteRepo, testDB,
	)
	pricingController := NewPricingController(pricingService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uint(1))
		c.Set(middleware.UserEmailKey, "manager@gocheol.kr")
		c.Set(middleware.UserRoleKey, "pricing_manager")
		c.Next()
	})

	return pricingController, router, testDB
}

func seedCopperScrap(t *testing.T, testDB *gorm.DB, date time.Time, krwPerTon float64) *model.MaterialType {
	material := &model.MaterialType{Name: "동스크랩", Category: model.CategoryNonFerrous, Unit: "ton"}
	require.NoError(t, testDB.Create(material).Error)
	require.NoError(t, testDB.Create(&model.SymbolMap{
		MaterialTypeID: material.ID,
		Symbol:         "LME-CU",
		Source:         "LME",
	}).Error)
	require.NoError(t, testDB.Create(&model.MarketPriceDaily{
		PriceDate: date,
		Symbol:    "LME-CU",
		Source:    "LME",
		USDPerTon: krwPerTon / 1350,
		FxUSDKRW:  1350,
		KRWPerTon: krwPerTon,
	}).Error)
	return material
}

func TestPricingController_GetRecommendation(t *testing.T) {
	controller, router, testDB := setupPricingControllerTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	material := seedCopperScrap(t, testDB, date, 5000000)

	router.GET("/pricing/recommendation", controller.GetRecommendation)

	url := fmt.Sprintf("/pricing/recommendation?materialTypeId=%d&date=2025-06-16", material.ID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "LME-CU", data["symbol"])
	assert.Equal(t, float64(3000000), data["suggested_krw_per_ton"])
}

func TestPricingController_GetRecommendation_MissingMaterialTypeID(t *testing.T) {
	controller, router, _ := setupPricingControllerTest(t)

	router.GET("/pricing/recommendation", controller.GetRecommendation)

	// materialTypeId 누락은 400
	req := httptest.NewRequest(http.MethodGet, "/pricing/recommendation?siteId=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_REQUIRED", response["error"])
}

func TestPricingController_GetRecommendation_UnknownMaterial(t *testing.T) {
	controller, router, _ := setupPricingControllerTest(t)

	router.GET("/pricing/recommendation", controller.GetRecommendation)

	req := httptest.NewRequest(http.MethodGet, "/pricing/recommendation?materialTypeId=9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPricingController_GetRecommendation_NoSymbolMap(t *testing.T) {
	controller, router, testDB := setupPricingControllerTest(t)

	material := &model.MaterialType{Name: "혼합폐기물", Category: model.CategoryWaste, Unit: "ton"}
	require.NoError(t, testDB.Create(material).Error)

	router.GET("/pricing/recommendation", controller.GetRecommendation)

	url := fmt.Sprintf("/pricing/recommendation?materialTypeId=%d", material.ID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// 매핑이 없어도 실패가 아니라 null 심볼 응답
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Nil(t, data["symbol"])
	assert.Nil(t, data["source"])
	assert.Equal(t, float64(0), data["suggested_krw_per_ton"])
}

func TestPricingController_UpsertCoefficient(t *testing.T) {
	controller, router, testDB := setupPricingControllerTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	material := seedCopperScrap(t, testDB, date, 5000000)

	router.POST("/pricing/coefficients", controller.UpsertCoefficient)

	body, _ := json.Marshal(map[string]interface{}{
		"material_type_id": material.ID,
		"coefficient_pct":  65,
	})
	req := httptest.NewRequest(http.MethodPost, "/pricing/coefficients", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(65), data["coefficient_pct"])
	// 인증 컨텍스트의 사용자로 updated_by가 채워진다
	assert.Equal(t, "manager@gocheol.kr", data["updated_by"])
}

func TestPricingController_Approve(t *testing.T) {
	controller, router, testDB := setupPricingControllerTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	material := seedCopperScrap(t, testDB, date, 5000000)

	router.POST("/pricing/approve", controller.Approve)

	body, _ := json.Marshal(map[string]interface{}{
		"material_type_id":       material.ID,
		"effective_date":         "2025-06-16",
		"coefficient_pct":        60,
		"fixed_cost_krw_per_ton": 200000,
	})
	req := httptest.NewRequest(http.MethodPost, "/pricing/approve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2800000), response["approved_krw_per_ton"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2800000), data["suggested_krw_per_ton"])
	assert.Equal(t, "manager@gocheol.kr", data["approved_by"])
}

func TestPricingController_Approve_InvalidDate(t *testing.T) {
	controller, router, testDB := setupPricingControllerTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	material := seedCopperScrap(t, testDB, date, 5000000)

	router.POST("/pricing/approve", controller.Approve)

	body, _ := json.Marshal(map[string]interface{}{
		"material_type_id": material.ID,
		"effective_date":   "16-06-2025",
	})
	req := httptest.NewRequest(http.MethodPost, "/pricing/approve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPricingController_GetTrend(t *testing.T) {
	controller, router, testDB := setupPricingControllerTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	material := seedCopperScrap(t, testDB, date, 5000000)

	router.GET("/pricing/trend", controller.GetTrend)

	url := fmt.Sprintf("/pricing/trend?materialTypeId=%d&days=7&date=2025-06-16", material.ID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	points := response["data"].([]interface{})
	assert.Len(t, points, 8)
}

func TestPricingController_GetMaterials(t *testing.T) {
	controller, router, testDB := setupPricingControllerTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	seedCopperScrap(t, testDB, date, 5000000)

	router.GET("/pricing/materials", controller.GetMaterials)

	req := httptest.NewRequest(http.MethodGet, "/pricing/materials", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	items := response["data"].([]interface{})
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	assert.Equal(t, "LME-CU", item["symbol"])
	assert.Equal(t, "default", item["coefficient_scope"])
}

func TestPricingController_ExportDecisions(t *testing.T) {
	controller, router, testDB := setupPricingControllerTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	material := seedCopperScrap(t, testDB, date, 5000000)
	require.NoError(t, testDB.Create(&model.PricingDecision{
		MaterialTypeID:    material.ID,
		EffectiveDate:     date,
		ApprovedKRWPerTon: 2800000,
	}).Error)

	router.GET("/pricing/decisions/export", controller.ExportDecisions)

	req := httptest.NewRequest(http.MethodGet, "/pricing/decisions/export?from=2025-06-01&to=2025-06-16", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "pricing-decisions-20250616.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}
