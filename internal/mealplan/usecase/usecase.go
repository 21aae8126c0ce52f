package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/internal/inventory"
	"github.com/smartmeal/pantry-service/internal/mealplan"
	"github.com/smartmeal/pantry-service/internal/model"
	"github.com/smartmeal/pantry-service/internal/platform/metrics"
	"github.com/smartmeal/pantry-service/pkg/apperr"
)

const promptHeader = "Generate a healthy and efficient meal plan that uses every item " +
	"from the following inventory, do not use anything not on the list."

type mealplanUseCase struct {
	repo    inventory.Repository
	planner mealplan.Planner
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewMealplanUseCase(repo inventory.Repository, planner mealplan.Planner, m *metrics.Metrics, log *zap.Logger) mealplan.UseCase {
	return &mealplanUseCase{
		repo:    repo,
		planner: planner,
		metrics: m,
		logger:  log,
	}
}

func (uc *mealplanUseCase) GeneratePlan(ctx context.Context) (string, error) {
	items, err := uc.repo.FindAll(ctx)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", apperr.New(apperr.CodeNotFound, "inventory is empty, nothing to plan with")
	}

	prompt := BuildPrompt(items)
	plan, err := uc.planner.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	uc.metrics.PlansGenerated.Inc()
	uc.logger.Info("meal plan generated", zap.Int("num_items", len(items)))
	return plan, nil
}

// BuildPrompt renders the inventory into the planner prompt, one line per
// item under the fixed instruction header.
func BuildPrompt(items []model.Item) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("%s: %d units, expires on %04d-%02d-%02d\n",
			item.Name, item.Quantity, item.Year, item.Month, item.Day))
	}
	return b.String()
}
