package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

var (
	ErrRateNotFound      = errors.New("metal rate not found")
	ErrExternalAPIFailed = errors.New("failed to fetch rates from external API")
)

// ExternalRateAPI fetches current per-gram rates from a rate provider.
type ExternalRateAPI interface {
	FetchRates() (map[model.MetalType]float64, error)
}

type MetalRateService interface {
	GetQuotes() ([]model.MetalRateQuote, error)
	GetQuote(metal model.MetalType) (*model.MetalRateQuote, error)
	GetHistory(metal model.MetalType, limit int) ([]model.MetalRate, error)
	RefreshFromExternalAPI() error
	RecordRate(rate *model.MetalRate) error
}

type metalRateService struct {
	rateRepo    repository.MetalRateRepository
	externalAPI ExternalRateAPI
}

func NewMetalRateService(rateRepo repository.MetalRateRepository, externalAPI ExternalRateAPI) MetalRateService {
	return &metalRateService{rateRepo: rateRepo, externalAPI: externalAPI}
}

var displayMetals = []model.MetalType{
	model.MetalGold24K,
	model.MetalGold22K,
	model.MetalGold18K,
	model.MetalSilver,
}

func (s *metalRateService) GetQuotes() ([]model.MetalRateQuote, error) {
	quotes := make([]model.MetalRateQuote, 0, len(displayMetals))
	for _, metal := range displayMetals {
		quote, err := s.GetQuote(metal)
		if err != nil {
			if errors.Is(err, ErrRateNotFound) {
				continue
			}
			return nil, err
		}
		quotes = append(quotes, *quote)
	}
	return quotes, nil
}

func (s *metalRateService) GetQuote(metal model.MetalType) (*model.MetalRateQuote, error) {
	rates, err := s.rateRepo.LatestTwo(metal)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, ErrRateNotFound
	}

	quote := &model.MetalRateQuote{
		Metal:       metal,
		RatePerGram: rates[0].RatePerGram,
		FetchedAt:   rates[0].FetchedAt,
	}
	if len(rates) > 1 && rates[1].RatePerGram > 0 {
		quote.Change = rates[0].RatePerGram - rates[1].RatePerGram
		quote.ChangePercent = quote.Change / rates[1].RatePerGram * 100
	}
	return quote, nil
}

func (s *metalRateService) GetHistory(metal model.MetalType, limit int) ([]model.MetalRate, error) {
	return s.rateRepo.History(metal, limit)
}

// RefreshFromExternalAPI pulls current rates and appends one row per
// metal. Run daily from the scheduler and on demand from the admin API.
func (s *metalRateService) RefreshFromExternalAPI() error {
	if s.externalAPI == nil {
		return ErrExternalAPIFailed
	}

	rates, err := s.externalAPI.FetchRates()
	if err != nil {
		logger.Error("External rate fetch failed", err)
		return fmt.Errorf("%w: %v", ErrExternalAPIFailed, err)
	}

	now := time.Now()
	for metal, rate := range rates {
		if rate <= 0 {
			continue
		}
		row := &model.MetalRate{
			Metal:       metal,
			RatePerGram: rate,
			Source:      "external",
			FetchedAt:   now,
		}
		if err := s.rateRepo.Create(row); err != nil {
			logger.Error("Failed to store metal rate", err, logger.Fields{
				"metal": metal,
			})
			return err
		}
	}

	logger.Info("Metal rates refreshed", logger.Fields{
		"count": len(rates),
	})
	return nil
}

// RecordRate stores a manually entered rate (admin override).
func (s *metalRateService) RecordRate(rate *model.MetalRate) error {
	if rate.FetchedAt.IsZero() {
		rate.FetchedAt = time.Now()
	}
	if rate.Source == "" {
		rate.Source = "manual"
	}
	return s.rateRepo.Create(rate)
}

// goldAPIClient fetches spot prices from the GoldAPI-style JSON endpoint
// and derives the karat ladder from the 24K price.
type goldAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGoldAPIClient(baseURL, apiKey string) ExternalRateAPI {
	return &goldAPIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type goldAPIResponse struct {
	PricePerGram24K float64 `json:"price_gram_24k"`
	PricePerGram22K float64 `json:"price_gram_22k"`
	PricePerGram18K float64 `json:"price_gram_18k"`
}

func (c *goldAPIClient) fetchSymbol(symbol string) (*goldAPIResponse, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/%s/INR", c.baseURL, symbol), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-access-token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var parsed goldAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (c *goldAPIClient) FetchRates() (map[model.MetalType]float64, error) {
	gold, err := c.fetchSymbol("XAU")
	if err != nil {
		return nil, err
	}

	rates := map[model.MetalType]float64{
		model.MetalGold24K: gold.PricePerGram24K,
		model.MetalGold22K: gold.PricePerGram22K,
		model.MetalGold18K: gold.PricePerGram18K,
	}
	// Missing karat breakdowns are derived from the 24K price by fineness.
	if rates[model.MetalGold22K] == 0 && gold.PricePerGram24K > 0 {
		rates[model.MetalGold22K] = gold.PricePerGram24K * 22 / 24
	}
	if rates[model.MetalGold18K] == 0 && gold.PricePerGram24K > 0 {
		rates[model.MetalGold18K] = gold.PricePerGram24K * 18 / 24
	}

	if silver, err := c.fetchSymbol("XAG"); err == nil && silver.PricePerGram24K > 0 {
		rates[model.MetalSilver] = silver.PricePerGram24K
	}
	return rates, nil
}
