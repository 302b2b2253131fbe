package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

// Scheduler owns the recurring background jobs: the daily metal rate
// pull, the abandoned cart sweep and goldmine maturation.
type Scheduler struct {
	cron             *cron.Cron
	metalRateService service.MetalRateService
	cartService      service.CartService
	goldmineService  service.GoldmineService
}

func New(
	metalRateService service.MetalRateService,
	cartService service.CartService,
	goldmineService service.GoldmineService,
) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		metalRateService: metalRateService,
		cartService:      cartService,
		goldmineService:  goldmineService,
	}
}

func (s *Scheduler) Start() error {
	// Metal rates refresh every morning before the store opens.
	if _, err := s.cron.AddFunc("0 9 * * *", s.refreshMetalRates); err != nil {
		return err
	}

	// Carts idle past the configured window get one reminder email.
	if _, err := s.cron.AddFunc("@hourly", s.sweepAbandonedCarts); err != nil {
		return err
	}

	// Subscriptions that completed their term get matured shortly after
	// midnight.
	if _, err := s.cron.AddFunc("30 0 * * *", s.matureGoldmine); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Scheduler started", logger.Fields{
		"jobs": []string{"metal_rate_refresh", "abandoned_cart_sweep", "goldmine_maturation"},
	})
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info("Scheduler stopped", nil)
}

func (s *Scheduler) refreshMetalRates() {
	logger.Info("Starting scheduled metal rate refresh", nil)
	if err := s.metalRateService.RefreshFromExternalAPI(); err != nil {
		logger.Error("Scheduled metal rate refresh failed", err)
		return
	}
	logger.Info("Metal rate refresh completed", nil)
}

func (s *Scheduler) sweepAbandonedCarts() {
	sent, err := s.cartService.SendAbandonedReminders()
	if err != nil {
		logger.Error("Abandoned cart sweep failed", err)
		return
	}
	if sent > 0 {
		logger.Info("Abandoned cart reminders sent", logger.Fields{"count": sent})
	}
}

func (s *Scheduler) matureGoldmine() {
	matured, err := s.goldmineService.MatureDueSubscriptions()
	if err != nil {
		logger.Error("Goldmine maturation run failed", err)
		return
	}
	if matured > 0 {
		logger.Info("Goldmine subscriptions matured", logger.Fields{"count": matured})
	}
}
