package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/db"
)

type stubRateAPI struct {
	rates map[model.MetalType]float64
	err   error
}

func (s *stubRateAPI) FetchRates() (map[model.MetalType]float64, error) {
	return s.rates, s.err
}

func setupMetalRateTest(t *testing.T, api ExternalRateAPI) (MetalRateService, *gorm.DB) {
	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(t, testDB)
	})
	return NewMetalRateService(repository.NewMetalRateRepository(testDB), api), testDB
}

func TestMetalRateService_RefreshFromExternalAPI(t *testing.T) {
	api := &stubRateAPI{rates: map[model.MetalType]float64{
		model.MetalGold24K: 7200,
		model.MetalGold22K: 6600,
		model.MetalSilver:  90,
	}}
	svc, _ := setupMetalRateTest(t, api)

	require.NoError(t, svc.RefreshFromExternalAPI())

	quote, err := svc.GetQuote(model.MetalGold24K)
	require.NoError(t, err)
	assert.InDelta(t, 7200, quote.RatePerGram, 0.001)
	assert.Zero(t, quote.Change)

	t.Run("second refresh computes change", func(t *testing.T) {
		api.rates[model.MetalGold24K] = 7300
		require.NoError(t, svc.RefreshFromExternalAPI())

		quote, err := svc.GetQuote(model.MetalGold24K)
		require.NoError(t, err)
		assert.InDelta(t, 7300, quote.RatePerGram, 0.001)
		assert.InDelta(t, 100, quote.Change, 0.001)
	})
}

func TestMetalRateService_RefreshFailurePropagates(t *testing.T) {
	svc, _ := setupMetalRateTest(t, &stubRateAPI{err: errors.New("provider down")})

	err := svc.RefreshFromExternalAPI()
	assert.ErrorIs(t, err, ErrExternalAPIFailed)
}

func TestMetalRateService_GetQuotes_SkipsMissingMetals(t *testing.T) {
	svc, _ := setupMetalRateTest(t, nil)

	require.NoError(t, svc.RecordRate(&model.MetalRate{
		Metal: model.MetalGold22K, RatePerGram: 6600,
	}))

	quotes, err := svc.GetQuotes()
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, model.MetalGold22K, quotes[0].Metal)

	history, err := svc.GetHistory(model.MetalGold22K, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "manual", history[0].Source)
}

func TestMetalRateService_History(t *testing.T) {
	svc, _ := setupMetalRateTest(t, nil)

	base := time.Now().Add(-3 * time.Hour)
	for i, rate := range []float64{7000, 7100, 7200} {
		require.NoError(t, svc.RecordRate(&model.MetalRate{
			Metal: model.MetalGold24K, RatePerGram: rate,
			FetchedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	history, err := svc.GetHistory(model.MetalGold24K, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Newest first.
	assert.InDelta(t, 7200, history[0].RatePerGram, 0.001)
	assert.InDelta(t, 7100, history[1].RatePerGram, 0.001)
}
