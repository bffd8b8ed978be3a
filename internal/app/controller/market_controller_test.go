package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/repository"
	"github.com/jmpark/gocheol-backend/internal/app/service"
	"github.com/jmpark/gocheol-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMarketControllerTest(t *testing.T) (*MarketController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	marketPriceRepo := repository.NewMarketPriceRepository(testDB)
	materialRepo := repository.NewMaterialRepository(testDB)
	marketService := service.NewMarketService(marketPriceRepo, materialRepo, nil, nil, nil)
	marketController := NewMarketController(marketService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return marketController, router, testDB
}

func TestMarketController_GetTicker(t *testing.T) {
	controller, router, testDB := setupMarketControllerTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
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
		USDPerTon: 3700,
		FxUSDKRW:  1350,
		KRWPerTon: 4995000,
	}).Error)

	router.GET("/market/ticker", controller.GetTicker)

	req := httptest.NewRequest(http.MethodGet, "/market/ticker?date=2025-06-16", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	items := response["data"].([]interface{})
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	assert.Equal(t, "LME-CU", item["symbol"])
	assert.Equal(t, float64(4995000), item["krw_per_ton"])
	// 전일 시세가 없으므로 변동률 null
	assert.Nil(t, item["delta_pct"])
}

func TestMarketController_GetTicker_InvalidDate(t *testing.T) {
	controller, router, _ := setupMarketControllerTest(t)

	router.GET("/market/ticker", controller.GetTicker)

	req := httptest.NewRequest(http.MethodGet, "/market/ticker?date=wrong", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarketController_CreateDailyPrice(t *testing.T) {
	controller, router, _ := setupMarketControllerTest(t)

	router.POST("/market/prices", controller.CreateDailyPrice)

	body, _ := json.Marshal(map[string]interface{}{
		"price_date":  "2025-06-16",
		"symbol":      "LME-CU",
		"source":      "LME",
		"usd_per_ton": 3700,
		"fx_usdkrw":   1350,
	})
	req := httptest.NewRequest(http.MethodPost, "/market/prices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(3700*1350), data["krw_per_ton"])

	// 같은 키로 재등록하면 409
	req = httptest.NewRequest(http.MethodPost, "/market/prices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMarketController_CreateDailyPrice_MissingFields(t *testing.T) {
	controller, router, _ := setupMarketControllerTest(t)

	router.POST("/market/prices", controller.CreateDailyPrice)

	body, _ := json.Marshal(map[string]interface{}{
		"price_date": "2025-06-16",
		"symbol":     "LME-CU",
	})
	req := httptest.NewRequest(http.MethodPost, "/market/prices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
