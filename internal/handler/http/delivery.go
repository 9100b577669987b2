package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/yorkbites/orderdesk/internal/models"
)

type DeliveryService interface {
	// QuoteDeliveryFee returns a fee preview for a checkout in progress
	QuoteDeliveryFee(ctx context.Context, postcode, address string, subtotal decimal.Decimal) (*models.FeeQuote, error)
}

// DeliveryHandler represents HTTP handler for delivery fee previews
type DeliveryHandler struct {
	svc DeliveryService
}

// NewDeliveryHandler creates new DeliveryHandler instance
func NewDeliveryHandler(svc DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

type quoteReq struct {
	Postcode string          `json:"postcode"`
	Address  string          `json:"address"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type minimumOrderResp struct {
	Required  decimal.Decimal `json:"required"`
	Met       bool            `json:"met"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

type quoteResp struct {
	Fee              decimal.Decimal  `json:"fee"`
	OriginalFee      decimal.Decimal  `json:"original_fee"`
	Zone             string           `json:"zone"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	MinimumOrder     minimumOrderResp `json:"minimum_order"`
}

// QuoteDeliveryFee returns the delivery fee for an address and subtotal
// 200 — successful request;
// 400 — malformed request;
// 422 — address outside the delivery area;
// 500 — internal server error.
func (dh *DeliveryHandler) QuoteDeliveryFee() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteReq

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Postcode == "" && req.Address == "" {
			http.Error(w, "postcode or address required", http.StatusBadRequest)
			return
		}

		quote, err := dh.svc.QuoteDeliveryFee(r.Context(), req.Postcode, req.Address, req.Subtotal)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrOutsideDeliveryArea):
				http.Error(w, "outside delivery area", http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := quoteResp{
			Fee:              quote.Fee,
			OriginalFee:      quote.BaseFee,
			Zone:             quote.Zone,
			EstimatedMinutes: quote.EstimatedMinutes,
			MinimumOrder: minimumOrderResp{
				Required:  quote.MinimumOrder.Required,
				Met:       quote.MinimumOrder.Met,
				Shortfall: quote.MinimumOrder.Shortfall,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
