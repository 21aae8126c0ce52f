package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/internal/expiry"
	"github.com/smartmeal/pantry-service/pkg/apperr"
	"github.com/smartmeal/pantry-service/pkg/httputil"
)

type ExpiryHandler struct {
	uc                 expiry.UseCase
	defaultHorizonDays int
	logger             *zap.Logger
}

func NewExpiryHandler(uc expiry.UseCase, defaultHorizonDays int, log *zap.Logger) *ExpiryHandler {
	return &ExpiryHandler{
		uc:                 uc,
		defaultHorizonDays: defaultHorizonDays,
		logger:             log,
	}
}

func (h *ExpiryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/expiring", h.ListExpiring)
	r.Get("/notify", h.Notify)
}

// ListExpiring runs an on-demand scan; days defaults to the configured
// horizon.
func (h *ExpiryHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	horizon := h.defaultHorizonDays
	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			httputil.WriteError(w, apperr.New(apperr.CodeFormat, "days must be a non-negative integer"))
			return
		}
		horizon = n
	}

	expiring, err := h.uc.ScanExpiring(r.Context(), time.Now().UTC(), horizon)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	type expiringResponse struct {
		Name       string `json:"name"`
		Quantity   int    `json:"quantity"`
		Expiration string `json:"expiration_date"`
	}
	out := make([]expiringResponse, len(expiring))
	for i, item := range expiring {
		out[i] = expiringResponse{
			Name:       item.Name,
			Quantity:   item.Quantity,
			Expiration: item.Expiration.Format("2006-01-02"),
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"horizon_days": horizon,
		"items":        out,
	})
}

func (h *ExpiryHandler) Notify(w http.ResponseWriter, r *http.Request) {
	numExpiring, err := h.uc.NotifyExpiring(r.Context(), time.Now().UTC())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "checked for expiring items",
		"num_expiring": numExpiring,
	})
}
