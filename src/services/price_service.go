package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/PaoloMadone/invest/src/logger"
	"github.com/PaoloMadone/invest/src/models"
)

// CoinGecko knows most large coins by an id, not by ticker. Symbols missing
// here are tried lowercased as-is.
var coinGeckoIDs = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"ada":   "cardano",
	"sol":   "solana",
	"dot":   "polkadot",
	"matic": "polygon",
	"avax":  "avalanche-2",
	"atom":  "cosmos",
	"link":  "chainlink",
}

// Exchange suffixes tried in order when a plain ticker is unknown to Yahoo.
// European listings usually need one of these.
var yahooSuffixes = []string{"", ".PA", ".L", ".F", ".DE", ".MI", ".MC", ".AS", ".BR", ".SW"}

type coinGeckoPriceResponse map[string]map[string]float64

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol             string  `json:"symbol"`
			ShortName          string  `json:"shortName"`
			RegularMarketPrice float64 `json:"regularMarketPrice"`
			Currency           string  `json:"currency"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteResponse"`
}

// priceServiceImpl implements PriceSource against CoinGecko (crypto) and the
// Yahoo Finance quote API (stocks). Resolved prices go through a TTL cache;
// successful suffix searches are remembered in the mapping store so the next
// refresh hits the right ticker directly.
type priceServiceImpl struct {
	httpClient        *http.Client
	requestPacer      *rate.Limiter
	priceCache        *cache.Cache
	mappings          SymbolMappingStore
	coinGeckoBaseURL  string
	yahooQuoteBaseURL string
}

// NewPriceService creates the price source used by the performance
// aggregator. cacheTTL bounds how stale a served price may be.
func NewPriceService(mappings SymbolMappingStore, coinGeckoBaseURL, yahooQuoteBaseURL string, cacheTTL time.Duration) PriceSource {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	return &priceServiceImpl{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 20 * time.Second,
		},
		// Both providers rate-limit aggressively; one request every 250ms
		// mirrors the pacing the providers tolerate.
		requestPacer:      rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
		priceCache:        cache.New(cacheTTL, 2*cacheTTL),
		mappings:          mappings,
		coinGeckoBaseURL:  coinGeckoBaseURL,
		yahooQuoteBaseURL: yahooQuoteBaseURL,
	}
}

// GetCurrentPrice resolves the current EUR price for a symbol. A missing
// price is reported as ok=false; the caller decides how to degrade.
func (s *priceServiceImpl) GetCurrentPrice(symbol string, assetClass models.AssetClass) (float64, bool) {
	switch assetClass {
	case models.AssetClassCrypto:
		return s.getCryptoPrice(symbol)
	case models.AssetClassStock:
		return s.getStockPrice(symbol)
	default:
		logger.L.Warn("Price lookup for unknown asset class", "symbol", symbol, "assetClass", assetClass)
		return 0, false
	}
}

func (s *priceServiceImpl) getCryptoPrice(symbol string) (float64, bool) {
	cacheKey := "crypto_" + strings.ToLower(symbol)
	if cached, found := s.priceCache.Get(cacheKey); found {
		return cached.(float64), true
	}

	coinID := strings.ToLower(symbol)
	if mapped, ok := coinGeckoIDs[coinID]; ok {
		coinID = mapped
	}

	reqURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=eur", s.coinGeckoBaseURL, url.QueryEscape(coinID))
	var priceData coinGeckoPriceResponse
	if err := s.getJSON(reqURL, &priceData); err != nil {
		logger.L.Warn("CoinGecko price fetch failed", "symbol", symbol, "error", err)
		return 0, false
	}

	price, ok := priceData[coinID]["eur"]
	if !ok {
		logger.L.Warn("CoinGecko returned no EUR price", "symbol", symbol, "coinID", coinID)
		return 0, false
	}

	s.priceCache.Set(cacheKey, price, cache.DefaultExpiration)
	return price, true
}

func (s *priceServiceImpl) getStockPrice(symbol string) (float64, bool) {
	cacheKey := "stock_" + strings.ToUpper(symbol)
	if cached, found := s.priceCache.Get(cacheKey); found {
		return cached.(float64), true
	}

	// A previously learned ticker short-circuits the suffix search.
	if providerSymbol, found, err := s.mappings.GetMapping(strings.ToUpper(symbol)); err != nil {
		logger.L.Warn("Symbol mapping lookup failed", "symbol", symbol, "error", err)
	} else if found {
		if price, _, ok := s.quoteTicker(providerSymbol); ok {
			s.priceCache.Set(cacheKey, price, cache.DefaultExpiration)
			return price, true
		}
		logger.L.Warn("Learned mapping no longer resolves, retrying suffix search", "symbol", symbol, "providerSymbol", providerSymbol)
	}

	base := strings.ToUpper(symbol)
	for _, suffix := range yahooSuffixes {
		variant := base + suffix
		price, name, ok := s.quoteTicker(variant)
		if !ok {
			continue
		}
		if variant != base {
			if err := s.mappings.SaveMapping(base, variant, name); err != nil {
				logger.L.Warn("Failed to persist learned symbol mapping", "symbol", base, "variant", variant, "error", err)
			} else {
				logger.L.Info("Learned symbol mapping", "symbol", base, "variant", variant)
			}
		}
		s.priceCache.Set(cacheKey, price, cache.DefaultExpiration)
		return price, true
	}

	logger.L.Warn("No Yahoo ticker variant resolved", "symbol", symbol)
	return 0, false
}

// quoteTicker asks the Yahoo quote endpoint for one exact ticker.
func (s *priceServiceImpl) quoteTicker(ticker string) (price float64, shortName string, ok bool) {
	quoteURL := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", s.yahooQuoteBaseURL, url.QueryEscape(ticker))
	var quoteData yahooQuoteResponse
	if err := s.getJSON(quoteURL, &quoteData); err != nil {
		logger.L.Debug("Yahoo quote fetch failed", "ticker", ticker, "error", err)
		return 0, "", false
	}

	if quoteData.QuoteResponse.Error != nil || len(quoteData.QuoteResponse.Result) == 0 {
		return 0, "", false
	}

	result := quoteData.QuoteResponse.Result[0]
	if result.RegularMarketPrice <= 0 {
		return 0, "", false
	}
	return result.RegularMarketPrice, result.ShortName, true
}

func (s *priceServiceImpl) getJSON(reqURL string, out interface{}) error {
	if err := s.requestPacer.Wait(context.Background()); err != nil {
		return fmt.Errorf("request pacing interrupted: %w", err)
	}

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	// A browser User-Agent is required by Yahoo and tolerated by CoinGecko.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
