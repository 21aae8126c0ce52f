package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/internal/inventory"
	"github.com/smartmeal/pantry-service/internal/inventory/dto"
	"github.com/smartmeal/pantry-service/internal/scan"
	"github.com/smartmeal/pantry-service/pkg/apperr"
	"github.com/smartmeal/pantry-service/pkg/httputil"
)

type InventoryHandler struct {
	uc      inventory.UseCase
	decoder scan.Decoder
	parser  *scan.Parser
	logger  *zap.Logger
}

func NewInventoryHandler(uc inventory.UseCase, decoder scan.Decoder, parser *scan.Parser, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		uc:      uc,
		decoder: decoder,
		parser:  parser,
		logger:  log,
	}
}

func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.Upload)
	r.Get("/inventory", h.List)
	r.Delete("/inventory", h.Delete)
	r.Post("/consume", h.Consume)
	r.Get("/movements", h.ListMovements)
}

type uploadRequest struct {
	Image string `json:"image"`
}

type itemResponse struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Expiration string `json:"expiration_date"`
}

// Upload ingests one QR-code scan: base64 image in, reconciled item out. The
// image arrives either as the raw base64 body or inside a JSON "image" field.
func (h *InventoryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteError(w, apperr.Wrap(apperr.CodeFormat, "read request body", err))
		return
	}

	image, err := imageFromBody(body)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	text, err := h.decoder.DecodeImage(r.Context(), image)
	if err != nil {
		h.logger.Warn("qr decode failed", zap.Error(err))
		httputil.WriteError(w, err)
		return
	}

	record, err := h.parser.Parse(text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	item, err := h.uc.ReconcileScan(r.Context(), record)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "item reconciled",
		"item": itemResponse{
			Name:       item.Name,
			Quantity:   item.Quantity,
			Expiration: expirationString(item.Year, item.Month, item.Day),
		},
	})
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.ListItems(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = itemResponse{
			Name:       item.Name,
			Quantity:   item.Quantity,
			Expiration: expirationString(item.Year, item.Month, item.Day),
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": out})
}

type deleteRequest struct {
	ItemID string `json:"itemid"`
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperr.Wrap(apperr.CodeFormat, "invalid request body", err))
		return
	}
	if req.ItemID == "" {
		httputil.WriteError(w, apperr.New(apperr.CodeFormat, "missing required parameter: itemid"))
		return
	}

	rows, err := h.uc.DeleteItem(r.Context(), req.ItemID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// The store reports a miss as zero rows; only the transport treats that
	// as 404.
	if rows == 0 {
		httputil.WriteError(w, apperr.Newf(apperr.CodeNotFound, "item %q not found", req.ItemID))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "successfully deleted " + req.ItemID,
	})
}

type consumeRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (h *InventoryHandler) Consume(w http.ResponseWriter, r *http.Request) {
	var req consumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperr.Wrap(apperr.CodeFormat, "invalid request body", err))
		return
	}

	outcome, err := h.uc.Consume(r.Context(), &dto.ConsumeInput{Name: req.Name, Quantity: req.Quantity})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":         outcome.Name,
		"deleted":      outcome.Deleted,
		"new_quantity": outcome.NewQuantity,
	})
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	filters := &dto.MovementFilters{
		ItemName:     r.URL.Query().Get("item"),
		MovementType: r.URL.Query().Get("type"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			httputil.WriteError(w, apperr.New(apperr.CodeFormat, "limit must be a non-negative integer"))
			return
		}
		filters.Limit = n
	}

	movements, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	type movementResponse struct {
		ID             string `json:"id"`
		ItemName       string `json:"item_name"`
		MovementType   string `json:"movement_type"`
		QuantityChange int    `json:"quantity_change"`
		QuantityBefore int    `json:"quantity_before"`
		QuantityAfter  int    `json:"quantity_after"`
		CreatedAt      string `json:"created_at"`
	}
	out := make([]movementResponse, len(movements))
	for i, m := range movements {
		out[i] = movementResponse{
			ID:             m.ID,
			ItemName:       m.ItemName,
			MovementType:   m.MovementType,
			QuantityChange: m.QuantityChange,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			CreatedAt:      m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"movements": out})
}

func imageFromBody(body []byte) ([]byte, error) {
	var req uploadRequest
	if err := json.Unmarshal(body, &req); err == nil && req.Image != "" {
		image, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeFormat, "image field is not valid base64", err)
		}
		return image, nil
	}

	// Fall back to treating the whole body as base64.
	image, err := base64.StdEncoding.DecodeString(string(body))
	if err != nil {
		return nil, apperr.New(apperr.CodeFormat, "request body must be base64 or JSON with an image field")
	}
	return image, nil
}

func expirationString(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
