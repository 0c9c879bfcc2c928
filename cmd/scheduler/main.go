package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/segyhp/lendbook/internal/clock"
	"github.com/segyhp/lendbook/internal/config"
	"github.com/segyhp/lendbook/internal/domain"
	"github.com/segyhp/lendbook/internal/logger"
	"github.com/segyhp/lendbook/internal/repository"
	"github.com/segyhp/lendbook/internal/service"
	"github.com/segyhp/lendbook/pkg/utils"
)

// jobTimeout bounds a single scan of the portfolio.
const jobTimeout = 5 * time.Minute

type portfolio interface {
	Overdue(ctx context.Context) ([]domain.LoanOverview, error)
	DueSoon(ctx context.Context, within time.Duration) ([]domain.LoanOverview, error)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}).
		With().Str("component", "scheduler").Logger()

	store, closeStore, err := repository.OpenStore(cfg.Store, logg)
	if err != nil {
		logg.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer closeStore()

	ledgerService := service.NewLedgerService(
		repository.NewClientRepository(store),
		repository.NewPaymentRepository(store),
		cfg,
		clock.Real(),
		logg,
	)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetSchedulerLocation()))

	if err := setupCronJobs(c, cfg, ledgerService, logg); err != nil {
		logg.Fatal().Err(err).Msg("failed to schedule jobs")
	}

	c.Start()
	logg.Info().Msg("scheduler started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info().Msg("shutting down scheduler")
	<-c.Stop().Done()
	logg.Info().Msg("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, p portfolio, logg zerolog.Logger) error {
	// Daily scan for loans past their end date
	if _, err := c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		reportOverdue(p, logg, cfg.Business.CurrencySymbol)
	}); err != nil {
		return err
	}

	// Weekly reminders for upcoming installments
	if _, err := c.AddFunc(cfg.Scheduler.ReminderCron, func() {
		sendPaymentReminders(p, cfg.GetReminderWindow(), logg, cfg.Business.CurrencySymbol)
	}); err != nil {
		return err
	}

	logg.Info().
		Str("overdue_cron", cfg.Scheduler.OverdueCron).
		Str("reminder_cron", cfg.Scheduler.ReminderCron).
		Msg("cron jobs scheduled")
	return nil
}

// reportOverdue logs every active loan past its end date. Returns how many were found.
func reportOverdue(p portfolio, logg zerolog.Logger, symbol string) int {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	loans, err := p.Overdue(ctx)
	if err != nil {
		logg.Error().Err(err).Msg("overdue scan failed")
		return 0
	}

	for _, l := range loans {
		logg.Warn().
			Str("loan_id", l.Loan.ID).
			Str("client", l.Loan.ClientName).
			Str("remaining", utils.FormatCurrency(l.Metrics.RemainingBalance, symbol)).
			Int("days_overdue", -derefInt(l.Metrics.DaysRemaining)).
			Str("progress", utils.FormatPercent(l.Metrics.ProgressPercentage)).
			Msg("loan overdue")
	}

	logg.Info().Int("overdue", len(loans)).Msg("overdue scan finished")
	return len(loans)
}

// sendPaymentReminders logs a reminder for each loan with a payment due
// within the window. Returns how many were sent.
func sendPaymentReminders(p portfolio, within time.Duration, logg zerolog.Logger, symbol string) int {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	loans, err := p.DueSoon(ctx, within)
	if err != nil {
		logg.Error().Err(err).Msg("reminder scan failed")
		return 0
	}

	for _, l := range loans {
		logg.Info().
			Str("loan_id", l.Loan.ID).
			Str("client", l.Loan.ClientName).
			Str("phone", l.Loan.ClientPhone).
			Time("due", l.Metrics.NextPaymentDate).
			Str("amount", utils.FormatCurrency(l.Metrics.NextPaymentAmount, symbol)).
			Str("progress", utils.FormatPercent(l.Metrics.ProgressPercentage)).
			Msg("payment reminder")
	}

	logg.Info().Int("reminders", len(loans)).Msg("reminder scan finished")
	return len(loans)
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
