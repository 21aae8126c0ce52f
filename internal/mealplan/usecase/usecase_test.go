package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/internal/inventory/repository"
	"github.com/smartmeal/pantry-service/internal/model"
	"github.com/smartmeal/pantry-service/internal/platform/metrics"
	"github.com/smartmeal/pantry-service/pkg/apperr"
)

type recordingPlanner struct {
	prompt string
	plan   string
}

func (p *recordingPlanner) Complete(_ context.Context, prompt string) (string, error) {
	p.prompt = prompt
	return p.plan, nil
}

func seed(t *testing.T, repo *repository.MemoryRepository, name string, quantity, day, month, year int) {
	t.Helper()
	movement := &model.ItemMovement{ID: uuid.New().String(), ItemName: name, MovementType: model.MovementTypeScan}
	_, err := repo.UpsertIncrement(context.Background(),
		&model.Item{Name: name, Quantity: quantity, Day: day, Month: month, Year: year}, movement)
	require.NoError(t, err)
}

func TestGeneratePlan_BuildsPromptFromInventory(t *testing.T) {
	repo := repository.NewMemoryRepository()
	seed(t, repo, "Milk", 2, 5, 9, 2024)
	seed(t, repo, "Eggs", 6, 1, 9, 2024)

	planner := &recordingPlanner{plan: "Day 1: omelette"}
	uc := NewMealplanUseCase(repo, planner, metrics.NewWith(prometheus.NewRegistry()), zap.NewNop())

	plan, err := uc.GeneratePlan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Day 1: omelette", plan)

	assert.Contains(t, planner.prompt, "do not use anything not on the list")
	assert.Contains(t, planner.prompt, "Eggs: 6 units, expires on 2024-09-01")
	assert.Contains(t, planner.prompt, "Milk: 2 units, expires on 2024-09-05")
}

func TestGeneratePlan_EmptyInventory(t *testing.T) {
	repo := repository.NewMemoryRepository()
	uc := NewMealplanUseCase(repo, &recordingPlanner{}, metrics.NewWith(prometheus.NewRegistry()), zap.NewNop())

	_, err := uc.GeneratePlan(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestBuildPrompt_OneLinePerItem(t *testing.T) {
	items := []model.Item{
		{Name: "Apples", Quantity: 3, Day: 10, Month: 9, Year: 2024},
		{Name: "Bread", Quantity: 1, Day: 4, Month: 9, Year: 2024},
	}

	prompt := BuildPrompt(items)
	assert.Contains(t, prompt, "Apples: 3 units, expires on 2024-09-10\n")
	assert.Contains(t, prompt, "Bread: 1 units, expires on 2024-09-04\n")
}
