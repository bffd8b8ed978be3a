package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/repository"
	"github.com/jmpark/gocheol-backend/pkg/logger"
)

var (
	ErrExternalAPIFailed  = errors.New("외부 API에서 시세를 가져오는데 실패했습니다")
	ErrInvalidMarketQuote = errors.New("잘못된 시세 값입니다")
)

// 시세판 응답 캐시 TTL
const tickerCacheTTL = 60 * time.Second

// QuoteData 외부 API에서 받은 심볼 시세
type QuoteData struct {
	Source    string
	USDPerTon float64
	FxUSDKRW  float64
}

// ExternalMarketAPI 외부 시세 API 인터페이스
type ExternalMarketAPI interface {
	FetchQuotes() (map[string]QuoteData, error)
}

// TickerCache 시세판 응답 캐시 (redis). nil이면 캐시 없이 동작한다
type TickerCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, prefix string)
}

// TickerBroadcaster 시세 변경을 구독 클라이언트에 전파한다 (websocket hub)
type TickerBroadcaster interface {
	BroadcastMarketUpdate(payload []byte)
}

// DailyPriceInput 일일 시세 수동 등록 입력
type DailyPriceInput struct {
	PriceDate time.Time
	Symbol    string
	Source    string
	USDPerTon float64
	FxUSDKRW  float64
}

// MarketService 시세 서비스 인터페이스
type MarketService interface {
	GetTicker(date time.Time) ([]model.TickerItem, error)
	CreateDailyPrice(input DailyPriceInput) (*model.MarketPriceDaily, error)
	UpdatePricesFromExternalAPI() (int, error)
}

type marketService struct {
	marketPriceRepo repository.MarketPriceRepository
	materialRepo    repository.MaterialRepository
	externalAPI     ExternalMarketAPI
	cache           TickerCache
	broadcaster     TickerBroadcaster
}

// NewMarketService 시세 서비스 생성. cache와 broadcaster는 nil 허용
func NewMarketService(
	marketPriceRepo repository.MarketPriceRepository,
	materialRepo repository.MaterialRepository,
	externalAPI ExternalMarketAPI,
	cache TickerCache,
	broadcaster TickerBroadcaster,
) MarketService {
	return &marketService{
		marketPriceRepo: marketPriceRepo,
		materialRepo:    materialRepo,
		externalAPI:     externalAPI,
		cache:           cache,
		broadcaster:     broadcaster,
	}
}

// GetTicker 심볼별 시세판 조회
// 기준일 이전의 최근 시세를 보여주고, 그 시세의 전일 대비 변동률을 계산한다
// 전일 시세가 없거나 0이면 변동률은 null — 0으로 나누지 않는다
func (s *marketService) GetTicker(date time.Time) ([]model.TickerItem, error) {
	cacheKey := fmt.Sprintf("ticker:%s", date.Format("2006-01-02"))
	if s.cache != nil {
		if cached, ok := s.cache.Get(context.Background(), cacheKey); ok {
			var items []model.TickerItem
			if err := json.Unmarshal(cached, &items); err == nil {
				return items, nil
			}
		}
	}

	symbolMaps, err := s.materialRepo.FindAllSymbolMaps()
	if err != nil {
		return nil, err
	}

	// 여러 품목이 같은 심볼을 공유할 수 있으므로 심볼+출처 기준으로 중복 제거
	seen := make(map[string]bool)
	items := make([]model.TickerItem, 0, len(symbolMaps))
	for _, symbolMap := range symbolMaps {
		key := symbolMap.Symbol + "|" + symbolMap.Source
		if seen[key] {
			continue
		}
		seen[key] = true

		item := model.TickerItem{
			Symbol: symbolMap.Symbol,
			Source: symbolMap.Source,
		}

		quote, err := s.marketPriceRepo.FindLatestOnOrBefore(symbolMap.Symbol, symbolMap.Source, date)
		if err != nil {
			return nil, err
		}
		if quote != nil {
			item.USDPerTon = quote.USDPerTon
			item.FxUSDKRW = quote.FxUSDKRW
			item.KRWPerTon = quote.KRWPerTon
			item.UpdatedAt = quote.UpdatedAt.Format(time.RFC3339)

			previousDay := quote.PriceDate.AddDate(0, 0, -1)
			previous, err := s.marketPriceRepo.FindByDate(symbolMap.Symbol, symbolMap.Source, previousDay)
			if err != nil {
				return nil, err
			}
			if previous != nil && previous.KRWPerTon != 0 {
				deltaPct := (quote.KRWPerTon - previous.KRWPerTon) / previous.KRWPerTon * 100
				item.DeltaPct = &deltaPct
			}
		}

		items = append(items, item)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			s.cache.Set(context.Background(), cacheKey, payload, tickerCacheTTL)
		}
	}

	return items, nil
}

// CreateDailyPrice 일일 시세 수동 등록 (관리자 전용)
// 원화 시세는 달러 시세 × 환율로 환산해 저장한다
func (s *marketService) CreateDailyPrice(input DailyPriceInput) (*model.MarketPriceDaily, error) {
	if input.Symbol == "" || input.Source == "" {
		return nil, ErrInvalidMarketQuote
	}
	if input.USDPerTon < 0 || input.FxUSDKRW <= 0 {
		return nil, ErrInvalidMarketQuote
	}

	startOfDay := time.Date(input.PriceDate.Year(), input.PriceDate.Month(), input.PriceDate.Day(),
		0, 0, 0, 0, input.PriceDate.Location())

	price := &model.MarketPriceDaily{
		PriceDate: startOfDay,
		Symbol:    input.Symbol,
		Source:    input.Source,
		USDPerTon: input.USDPerTon,
		FxUSDKRW:  input.FxUSDKRW,
		KRWPerTon: input.USDPerTon * input.FxUSDKRW,
	}

	if err := s.marketPriceRepo.Create(price); err != nil {
		return nil, err
	}

	s.publishTickerUpdate(startOfDay)
	return price, nil
}

// UpdatePricesFromExternalAPI 외부 API에서 오늘 자 시세를 적재한다
// 이미 적재된 심볼은 건너뛴다 (시세는 적재 후 불변)
func (s *marketService) UpdatePricesFromExternalAPI() (int, error) {
	if s.externalAPI == nil {
		return 0, errors.New("외부 API가 설정되지 않았습니다")
	}

	quotes, err := s.externalAPI.FetchQuotes()
	if err != nil {
		logger.Error("Failed to fetch quotes from external API", err)
		return 0, ErrExternalAPIFailed
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	inserted := 0
	for symbol, quote := range quotes {
		existing, err := s.marketPriceRepo.FindByDate(symbol, quote.Source, today)
		if err != nil {
			return inserted, err
		}
		if existing != nil {
			continue
		}

		price := &model.MarketPriceDaily{
			PriceDate: today,
			Symbol:    symbol,
			Source:    quote.Source,
			USDPerTon: quote.USDPerTon,
			FxUSDKRW:  quote.FxUSDKRW,
			KRWPerTon: quote.USDPerTon * quote.FxUSDKRW,
		}
		if err := s.marketPriceRepo.Create(price); err != nil {
			return inserted, err
		}
		inserted++
	}

	if inserted > 0 {
		s.publishTickerUpdate(today)
	}

	logger.Info("Updated market prices from external API", map[string]interface{}{
		"fetched":  len(quotes),
		"inserted": inserted,
	})
	return inserted, nil
}

// publishTickerUpdate 캐시를 무효화하고 구독자에게 변경된 시세판을 전파한다
func (s *marketService) publishTickerUpdate(date time.Time) {
	if s.cache != nil {
		s.cache.Invalidate(context.Background(), "ticker:")
	}

	if s.broadcaster == nil {
		return
	}
	items, err := s.GetTicker(date)
	if err != nil {
		logger.Error("Failed to build ticker for broadcast", err)
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type": "market_update",
		"data": items,
	})
	if err != nil {
		return
	}
	s.broadcaster.BroadcastMarketUpdate(payload)
}

// DefaultMarketAPI 기본 외부 시세 API 구현체 (LME 기반 시세 제공자)
type DefaultMarketAPI struct {
	apiURL string
	apiKey string
}

// NewDefaultMarketAPI 기본 외부 시세 API 생성
func NewDefaultMarketAPI(apiURL, apiKey string) *DefaultMarketAPI {
	return &DefaultMarketAPI{
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

// marketAPIResponse 외부 시세 API 응답 구조체
type marketAPIResponse struct {
	AsOf     string  `json:"as_of"`
	FxUSDKRW float64 `json:"fx_usdkrw"`
	Quotes   []struct {
		Symbol    string  `json:"symbol"`
		Source    string  `json:"source"`
		USDPerTon float64 `json:"usd_per_ton"`
	} `json:"quotes"`
}

// FetchQuotes 외부 API에서 심볼별 시세 조회
func (api *DefaultMarketAPI) FetchQuotes() (map[string]QuoteData, error) {
	if api.apiURL == "" {
		return nil, errors.New("시세 API URL이 설정되지 않았습니다")
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest("GET", api.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if api.apiKey != "" {
		req.Header.Set("x-access-token", api.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResponse marketAPIResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	if apiResponse.FxUSDKRW <= 0 {
		return nil, errors.New("API 응답에 유효한 환율이 없습니다")
	}

	quotes := make(map[string]QuoteData)
	for _, quote := range apiResponse.Quotes {
		if quote.Symbol == "" || quote.USDPerTon <= 0 {
			continue
		}
		quotes[quote.Symbol] = QuoteData{
			Source:    quote.Source,
			USDPerTon: quote.USDPerTon,
			FxUSDKRW:  apiResponse.FxUSDKRW,
		}
	}

	if len(quotes) == 0 {
		return nil, errors.New("API로부터 유효한 시세 데이터를 받지 못했습니다")
	}

	return quotes, nil
}
