package service

import (
	"testing"
	"time"

	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/repository"
	"github.com/jmpark/gocheol-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeMarketAPI 외부 시세 API 대역
type fakeMarketAPI struct {
	quotes map[string]QuoteData
	err    error
}

func (f *fakeMarketAPI) FetchQuotes() (map[string]QuoteData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

// fakeBroadcaster 전파된 페이로드를 기록하는 대역
type fakeBroadcaster struct {
	payloads [][]byte
}

func (f *fakeBroadcaster) BroadcastMarketUpdate(payload []byte) {
	f.payloads = append(f.payloads, payload)
}

func setupMarketServiceTest(t *testing.T, api ExternalMarketAPI, broadcaster TickerBroadcaster) (MarketService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	marketPriceRepo := repository.NewMarketPriceRepository(testDB)
	materialRepo := repository.NewMaterialRepository(testDB)
	marketService := NewMarketService(marketPriceRepo, materialRepo, api, nil, broadcaster)
	return marketService, testDB
}

func TestMarketService_GetTicker(t *testing.T) {
	marketService, testDB := setupMarketServiceTest(t, nil, nil)

	createTestMaterial(t, testDB, "동스크랩", "LME-CU", "LME")
	date := testDate()

	createTestQuote(t, testDB, "LME-CU", "LME", date.AddDate(0, 0, -1), 4000000)
	createTestQuote(t, testDB, "LME-CU", "LME", date, 5000000)

	items, err := marketService.GetTicker(date)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "LME-CU", items[0].Symbol)
	assert.Equal(t, float64(5000000), items[0].KRWPerTon)
	require.NotNil(t, items[0].DeltaPct)
	assert.InDelta(t, 25.0, *items[0].DeltaPct, 0.0001)
}

func TestMarketService_GetTicker_NoPreviousDay(t *testing.T) {
	marketService, testDB := setupMarketServiceTest(t, nil, nil)

	createTestMaterial(t, testDB, "동스크랩", "LME-CU", "LME")
	date := testDate()
	createTestQuote(t, testDB, "LME-CU", "LME", date, 5000000)

	// 전일 시세가 없으면 변동률은 null
	items, err := marketService.GetTicker(date)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].DeltaPct)
}

func TestMarketService_GetTicker_ZeroPreviousDay(t *testing.T) {
	marketService, testDB := setupMarketServiceTest(t, nil, nil)

	createTestMaterial(t, testDB, "동스크랩", "LME-CU", "LME")
	date := testDate()

	// 전일 시세가 0이면 0으로 나누지 않고 변동률 null
	createTestQuote(t, testDB, "LME-CU", "LME", date.AddDate(0, 0, -1), 0)
	createTestQuote(t, testDB, "LME-CU", "LME", date, 5000000)

	items, err := marketService.GetTicker(date)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].DeltaPct)
}

func TestMarketService_GetTicker_FallsBackToLatest(t *testing.T) {
	marketService, testDB := setupMarketServiceTest(t, nil, nil)

	createTestMaterial(t, testDB, "동스크랩", "LME-CU", "LME")
	date := testDate()

	// 기준일 시세가 없으면 그 이전의 최근 시세를 보여준다 (주말, 휴장일)
	createTestQuote(t, testDB, "LME-CU", "LME", date.AddDate(0, 0, -2), 4900000)

	items, err := marketService.GetTicker(date)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, float64(4900000), items[0].KRWPerTon)
}

func TestMarketService_GetTicker_DeduplicatesSharedSymbols(t *testing.T) {
	marketService, testDB := setupMarketServiceTest(t, nil, nil)

	// 두 품목이 같은 심볼을 공유해도 시세판에는 한 번만 나온다
	createTestMaterial(t, testDB, "중량고철", "KS-SCRAP-HV", "KOMIS")
	createTestMaterial(t, testDB, "경량고철", "KS-SCRAP-HV", "KOMIS")

	items, err := marketService.GetTicker(testDate())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestMarketService_CreateDailyPrice(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	marketService, testDB := setupMarketServiceTest(t, nil, broadcaster)

	createTestMaterial(t, testDB, "동스크랩", "LME-CU", "LME")

	price, err := marketService.CreateDailyPrice(DailyPriceInput{
		PriceDate: testDate(),
		Symbol:    "LME-CU",
		Source:    "LME",
		USDPerTon: 3700,
		FxUSDKRW:  1350,
	})
	require.NoError(t, err)

	// 원화 시세는 달러 시세 × 환율
	assert.Equal(t, float64(3700*1350), price.KRWPerTon)
	// 시세 등록은 구독자에게 전파된다
	assert.Len(t, broadcaster.payloads, 1)
}

func TestMarketService_CreateDailyPrice_Validation(t *testing.T) {
	marketService, _ := setupMarketServiceTest(t, nil, nil)

	tests := []struct {
		name  string
		input DailyPriceInput
	}{
		{
			name:  "Missing symbol",
			input: DailyPriceInput{PriceDate: testDate(), Source: "LME", USDPerTon: 3700, FxUSDKRW: 1350},
		},
		{
			name:  "Negative price",
			input: DailyPriceInput{PriceDate: testDate(), Symbol: "LME-CU", Source: "LME", USDPerTon: -1, FxUSDKRW: 1350},
		},
		{
			name:  "Zero fx rate",
			input: DailyPriceInput{PriceDate: testDate(), Symbol: "LME-CU", Source: "LME", USDPerTon: 3700},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := marketService.CreateDailyPrice(tt.input)
			assert.ErrorIs(t, err, ErrInvalidMarketQuote)
		})
	}
}

func TestMarketService_CreateDailyPrice_Duplicate(t *testing.T) {
	marketService, _ := setupMarketServiceTest(t, nil, nil)

	input := DailyPriceInput{
		PriceDate: testDate(),
		Symbol:    "LME-CU",
		Source:    "LME",
		USDPerTon: 3700,
		FxUSDKRW:  1350,
	}

	_, err := marketService.CreateDailyPrice(input)
	require.NoError(t, err)

	// 같은 (날짜, 심볼, 출처)는 unique index가 거부한다
	_, err = marketService.CreateDailyPrice(input)
	assert.Error(t, err)
}

func TestMarketService_UpdatePricesFromExternalAPI(t *testing.T) {
	api := &fakeMarketAPI{
		quotes: map[string]QuoteData{
			"LME-CU": {Source: "LME", USDPerTon: 3700, FxUSDKRW: 1350},
			"LME-AL": {Source: "LME", USDPerTon: 1100, FxUSDKRW: 1350},
		},
	}
	broadcaster := &fakeBroadcaster{}
	marketService, testDB := setupMarketServiceTest(t, api, broadcaster)

	inserted, err := marketService.UpdatePricesFromExternalAPI()
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Len(t, broadcaster.payloads, 1)

	var count int64
	testDB.Model(&model.MarketPriceDaily{}).Count(&count)
	assert.Equal(t, int64(2), count)

	// 이미 적재된 심볼은 건너뛴다 — 시세는 적재 후 불변
	inserted, err = marketService.UpdatePricesFromExternalAPI()
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Len(t, broadcaster.payloads, 1)
}

func TestMarketService_UpdatePricesFromExternalAPI_Failure(t *testing.T) {
	api := &fakeMarketAPI{err: assert.AnError}
	marketService, _ := setupMarketServiceTest(t, api, nil)

	_, err := marketService.UpdatePricesFromExternalAPI()
	assert.ErrorIs(t, err, ErrExternalAPIFailed)
}

func TestMarketService_GetTicker_TimestampFormat(t *testing.T) {
	marketService, testDB := setupMarketServiceTest(t, nil, nil)

	createTestMaterial(t, testDB, "동스크랩", "LME-CU", "LME")
	createTestQuote(t, testDB, "LME-CU", "LME", testDate(), 5000000)

	items, err := marketService.GetTicker(testDate())
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = time.Parse(time.RFC3339, items[0].UpdatedAt)
	assert.NoError(t, err)
}
