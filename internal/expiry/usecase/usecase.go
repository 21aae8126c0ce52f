package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/internal/expiry"
	"github.com/smartmeal/pantry-service/internal/inventory"
	"github.com/smartmeal/pantry-service/internal/model"
	"github.com/smartmeal/pantry-service/internal/platform/metrics"
)

type Config struct {
	Recipient   string
	HorizonDays int
}

type expiryUseCase struct {
	repo     inventory.Repository
	notifier expiry.Notifier
	cfg      Config
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewExpiryUseCase(repo inventory.Repository, notifier expiry.Notifier, cfg Config, m *metrics.Metrics, log *zap.Logger) expiry.UseCase {
	return &expiryUseCase{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		metrics:  m,
		logger:   log,
	}
}

func (uc *expiryUseCase) ScanExpiring(ctx context.Context, now time.Time, horizonDays int) ([]model.ExpiringItem, error) {
	items, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	threshold := today.AddDate(0, 0, horizonDays)

	expiring := []model.ExpiringItem{}
	for _, item := range items {
		exp, ok := item.ExpirationDate()
		if !ok {
			// One bad row must not block visibility of the rest.
			uc.metrics.RowsSkipped.Inc()
			uc.logger.Warn("skipping item with invalid expiration date",
				zap.String("item", item.Name),
				zap.Int("year", item.Year),
				zap.Int("month", item.Month),
				zap.Int("day", item.Day),
			)
			continue
		}
		if !exp.After(threshold) {
			expiring = append(expiring, model.ExpiringItem{
				Name:       item.Name,
				Quantity:   item.Quantity,
				Expiration: exp,
			})
		}
	}

	sort.SliceStable(expiring, func(i, j int) bool {
		return expiring[i].Expiration.Before(expiring[j].Expiration)
	})
	return expiring, nil
}

func (uc *expiryUseCase) NotifyExpiring(ctx context.Context, now time.Time) (int, error) {
	expiring, err := uc.ScanExpiring(ctx, now, uc.cfg.HorizonDays)
	if err != nil {
		return 0, err
	}

	if len(expiring) == 0 {
		uc.logger.Info("no items within expiration horizon, no notification sent",
			zap.Int("horizon_days", uc.cfg.HorizonDays))
		return 0, nil
	}

	subject := fmt.Sprintf("Expiration Alert: Items Expiring in %d Days", uc.cfg.HorizonDays)
	body := buildDigest(expiring)

	receipt, err := uc.notifier.Send(ctx, uc.cfg.Recipient, subject, body)
	if err != nil {
		return 0, err
	}

	uc.metrics.NotificationsSent.Inc()
	uc.logger.Info("expiration notification sent",
		zap.Int("num_expiring", len(expiring)),
		zap.String("receipt", receipt),
	)
	return len(expiring), nil
}

func buildDigest(items []model.ExpiringItem) string {
	lines := []string{"The following items expire soon:", ""}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (qty: %d), expires on %s",
			item.Name, item.Quantity, item.Expiration.Format("01/02/2006")))
	}
	return strings.Join(lines, "\n")
}
