package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/yorkbites/orderdesk/internal/models"
	"github.com/yorkbites/orderdesk/internal/service"
)

type OrderService interface {
	Create(ctx context.Context, req *service.CreateOrderRequest) (*service.CreateOrderResult, error)
	Track(ctx context.Context, number string) (*models.Order, []models.StatusLog, error)
	UpdateStatus(ctx context.Context, number, newStatus, changedBy string, notes *string) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderItemReq struct {
	Name      string            `json:"name"`
	Quantity  int               `json:"quantity"`
	Price     decimal.Decimal   `json:"price"`
	Modifiers []orderModifierReq `json:"modifiers,omitempty"`
}

type orderModifierReq struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type createOrderReq struct {
	CustomerName    string         `json:"customer_name"`
	CustomerEmail   string         `json:"customer_email"`
	CustomerPhone   string         `json:"customer_phone"`
	Type            string         `json:"type"`
	DeliveryAddress *string        `json:"delivery_address,omitempty"`
	Postcode        *string        `json:"postcode,omitempty"`
	Items           []orderItemReq `json:"items"`
}

type createOrderResp struct {
	Number           string          `json:"number"`
	Status           string          `json:"status"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	EstimatedMinutes int             `json:"estimated_minutes,omitempty"`
	NotificationSent bool            `json:"notification_sent"`
}

// CreateOrder accepts a new order
// 201 — order created;
// 400 — malformed request;
// 422 — business rejection (outside delivery area, below minimum order);
// 500 — internal server error.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderReq

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		svcReq := service.CreateOrderRequest{
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			Type:            req.Type,
			DeliveryAddress: req.DeliveryAddress,
			Postcode:        req.Postcode,
		}
		for _, item := range req.Items {
			svcItem := service.CreateOrderItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
			}
			for _, mod := range item.Modifiers {
				svcItem.Modifiers = append(svcItem.Modifiers, service.CreateOrderModifier{
					Name:  mod.Name,
					Price: mod.Price,
				})
			}
			svcReq.Items = append(svcReq.Items, svcItem)
		}

		result, err := oh.svc.Create(r.Context(), &svcReq)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidRequest):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, models.ErrOutsideDeliveryArea),
				errors.Is(err, models.ErrBelowMinimumOrder):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := createOrderResp{
			Number:           result.Order.Number,
			Status:           result.Order.Status,
			Subtotal:         result.Order.Subtotal,
			DeliveryFee:      result.Order.DeliveryFee,
			Discount:         result.Order.Discount,
			Total:            result.Order.Total,
			EstimatedMinutes: result.Order.EstimatedMinutes,
			NotificationSent: result.NotificationSent,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type statusLogResp struct {
	Status    string  `json:"status"`
	Notes     *string `json:"notes,omitempty"`
	ChangedBy string  `json:"changed_by"`
	ChangedAt string  `json:"changed_at"`
}

type getOrderResp struct {
	Number           string          `json:"number"`
	CustomerName     string          `json:"customer_name"`
	Type             string          `json:"type"`
	Items            []orderItemReq  `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	Status           string          `json:"status"`
	PaymentStatus    string          `json:"payment_status"`
	EstimatedMinutes int             `json:"estimated_minutes,omitempty"`
	CreatedAt        string          `json:"created_at"`
	History          []statusLogResp `json:"history"`
}

// GetOrder returns order with status history
// 200 — successful request;
// 404 — order not found;
// 500 — internal server error.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := chi.URLParam(r, "number")

		order, history, err := oh.svc.Track(r.Context(), number)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := getOrderResp{
			Number:           order.Number,
			CustomerName:     order.CustomerName,
			Type:             order.Type,
			Subtotal:         order.Subtotal,
			DeliveryFee:      order.DeliveryFee,
			Discount:         order.Discount,
			Total:            order.Total,
			Status:           order.Status,
			PaymentStatus:    order.PaymentStatus,
			EstimatedMinutes: order.EstimatedMinutes,
			CreatedAt:        order.CreatedAt.Format(time.RFC3339),
		}
		for _, item := range order.Items {
			respItem := orderItemReq{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
			}
			for _, mod := range item.Modifiers {
				respItem.Modifiers = append(respItem.Modifiers, orderModifierReq{
					Name:  mod.Name,
					Price: mod.Price,
				})
			}
			resp.Items = append(resp.Items, respItem)
		}
		for _, log := range history {
			resp.History = append(resp.History, statusLogResp{
				Status:    log.Status,
				Notes:     log.Notes,
				ChangedBy: log.ChangedBy,
				ChangedAt: log.ChangedAt.Format(time.RFC3339),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type updateStatusReq struct {
	Status    string  `json:"status"`
	ChangedBy string  `json:"changed_by"`
	Notes     *string `json:"notes,omitempty"`
}

type updateStatusResp struct {
	Number    string `json:"number"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// UpdateOrderStatus transitions order to a new status
// 200 — status updated;
// 400 — malformed request;
// 404 — order not found;
// 409 — transition not allowed from the current status;
// 500 — internal server error.
func (oh *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := chi.URLParam(r, "number")

		var req updateStatusReq

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, err := oh.svc.UpdateStatus(r.Context(), number, req.Status, req.ChangedBy, req.Notes)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrInvalidStatusTransition):
				http.Error(w, "invalid status transition", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := updateStatusResp{
			Number:    order.Number,
			Status:    order.Status,
			UpdatedAt: order.UpdatedAt.Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
