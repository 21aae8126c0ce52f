package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/internal/mealplan"
	"github.com/smartmeal/pantry-service/pkg/httputil"
)

type MealplanHandler struct {
	uc     mealplan.UseCase
	logger *zap.Logger
}

func NewMealplanHandler(uc mealplan.UseCase, log *zap.Logger) *MealplanHandler {
	return &MealplanHandler{uc: uc, logger: log}
}

func (h *MealplanHandler) RegisterRoutes(r chi.Router) {
	r.Get("/mealplan", h.GeneratePlan)
}

func (h *MealplanHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.uc.GeneratePlan(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"mealplan": plan})
}
