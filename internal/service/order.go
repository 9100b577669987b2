package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yorkbites/orderdesk/internal/logger"
	"github.com/yorkbites/orderdesk/internal/models"
	"go.uber.org/zap"
)

const changedBySystem = "order-service"

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts order, items and initial history entry atomically
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByNumber returns order by number
	GetOrderByNumber(ctx context.Context, num string) (*models.Order, error)
	// GetStatusHistory returns status history of order
	GetStatusHistory(ctx context.Context, orderID uint64) ([]models.StatusLog, error)
	// UpdateOrderStatus transitions order status and appends history entry
	UpdateOrderStatus(ctx context.Context, orderID uint64, from, to, changedBy string, notes *string) error
	// GetUnconfirmedOrderNumbers returns orders awaiting confirmation send
	GetUnconfirmedOrderNumbers(ctx context.Context, limit int) ([]string, error)
	// MarkConfirmationSent marks order confirmation as delivered
	MarkConfirmationSent(ctx context.Context, orderID uint64) error
}

// FeeCalculator is interface for delivery fee calculation
type FeeCalculator interface {
	Quote(ctx context.Context, postcode, address string, subtotal decimal.Decimal) (*models.FeeQuote, error)
}

// NumberGenerator is interface for minting order numbers
type NumberGenerator interface {
	Generate(ctx context.Context) string
}

// Notifier is interface for the confirmation collaborator
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

// CreateOrderModifier is a customization surcharge of a requested item
type CreateOrderModifier struct {
	Name  string
	Price decimal.Decimal
}

// CreateOrderItem is a requested order line
type CreateOrderItem struct {
	Name      string
	Quantity  int
	Price     decimal.Decimal
	Modifiers []CreateOrderModifier
}

// CreateOrderRequest is an inbound order
type CreateOrderRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Type            string
	DeliveryAddress *string
	Postcode        *string
	Items           []CreateOrderItem
}

// Validate checks request shape before any side effect is taken
func (r *CreateOrderRequest) Validate() error {
	if l := len(strings.TrimSpace(r.CustomerName)); l < 1 || l > 100 {
		return fmt.Errorf("%w: customer name must be 1-100 characters", models.ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(r.CustomerEmail); err != nil {
		return fmt.Errorf("%w: invalid customer email", models.ErrInvalidRequest)
	}
	if r.Type != models.OrderTypeDelivery && r.Type != models.OrderTypePickup {
		return fmt.Errorf("%w: invalid order type", models.ErrInvalidRequest)
	}
	if r.Type == models.OrderTypeDelivery {
		if r.DeliveryAddress == nil || len(strings.TrimSpace(*r.DeliveryAddress)) < 10 {
			return fmt.Errorf("%w: delivery address required (min 10 characters)", models.ErrInvalidRequest)
		}
		if r.Postcode == nil || strings.TrimSpace(*r.Postcode) == "" {
			return fmt.Errorf("%w: postcode required for delivery orders", models.ErrInvalidRequest)
		}
	}
	if len(r.Items) < 1 || len(r.Items) > 20 {
		return fmt.Errorf("%w: order must have 1-20 items", models.ErrInvalidRequest)
	}
	for _, item := range r.Items {
		if l := len(strings.TrimSpace(item.Name)); l < 1 || l > 100 {
			return fmt.Errorf("%w: item name must be 1-100 characters", models.ErrInvalidRequest)
		}
		if item.Quantity < 1 || item.Quantity > 50 {
			return fmt.Errorf("%w: item quantity must be 1-50", models.ErrInvalidRequest)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item price must not be negative", models.ErrInvalidRequest)
		}
		for _, mod := range item.Modifiers {
			if mod.Price.IsNegative() {
				return fmt.Errorf("%w: modifier price must not be negative", models.ErrInvalidRequest)
			}
		}
	}
	return nil
}

// CreateOrderResult is the outcome of order creation. NotificationSent
// reports the best-effort confirmation send; the order itself is committed
// either way.
type CreateOrderResult struct {
	Order            *models.Order
	NotificationSent bool
}

// OrderService implements OrderService interface
type OrderService struct {
	repo     OrderRepository
	calc     FeeCalculator
	gen      NumberGenerator
	notifier Notifier
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, calc FeeCalculator, gen NumberGenerator, notifier Notifier) *OrderService {
	return &OrderService{
		repo:     repo,
		calc:     calc,
		gen:      gen,
		notifier: notifier,
	}
}

// Create runs the order-placement pipeline: validate, price, mint a number,
// persist atomically, then send the confirmation. Everything before the
// persistence transaction is fail-fast with zero side effects; the
// confirmation send never fails a committed order.
func (os *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
		for _, mod := range item.Modifiers {
			items[i].Modifiers = append(items[i].Modifiers, models.ItemModifier{
				Name:  mod.Name,
				Price: mod.Price,
			})
		}
		subtotal = subtotal.Add(items[i].LineTotal())
	}

	order := &models.Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Type:            req.Type,
		DeliveryAddress: req.DeliveryAddress,
		Postcode:        req.Postcode,
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFee:     decimal.Zero,
		Discount:        decimal.Zero,
		Status:          models.OrderStatusReceived,
		PaymentStatus:   models.PaymentStatusPending,
	}

	if req.Type == models.OrderTypeDelivery {
		quote, err := os.calc.Quote(ctx, *req.Postcode, *req.DeliveryAddress, subtotal)
		if err != nil {
			return nil, err
		}
		if !quote.MinimumOrder.Met {
			return nil, fmt.Errorf("%w: add %s to reach the minimum of %s",
				models.ErrBelowMinimumOrder, quote.MinimumOrder.Shortfall, quote.MinimumOrder.Required)
		}
		order.DeliveryFee = quote.BaseFee
		order.Discount = quote.BaseFee.Sub(quote.Fee)
		order.EstimatedMinutes = quote.EstimatedMinutes
	}

	order.Total = order.Subtotal.Add(order.DeliveryFee).Sub(order.Discount)

	// a discarded number is never reused; gaps are acceptable, duplicates are not
	order.Number = os.gen.Generate(ctx)

	created, err := os.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	sent := os.sendConfirmation(ctx, created)

	return &CreateOrderResult{Order: created, NotificationSent: sent}, nil
}

// sendConfirmation performs the post-commit best-effort notification
func (os *OrderService) sendConfirmation(ctx context.Context, order *models.Order) bool {
	if err := os.notifier.SendOrderConfirmation(ctx, order); err != nil {
		logger.Log.Warn("order confirmation send failed",
			zap.String("number", order.Number),
			zap.Error(err))
		return false
	}

	if err := os.repo.MarkConfirmationSent(ctx, order.ID); err != nil {
		logger.Log.Error("cannot mark confirmation as sent",
			zap.String("number", order.Number),
			zap.Error(err))
	}

	return true
}

// QuoteDeliveryFee returns a fee preview for a checkout in progress.
// A zero subtotal is valid.
func (os *OrderService) QuoteDeliveryFee(ctx context.Context, postcode, address string, subtotal decimal.Decimal) (*models.FeeQuote, error) {
	return os.calc.Quote(ctx, postcode, address, subtotal)
}

// Track returns order with its status history
func (os *OrderService) Track(ctx context.Context, number string) (*models.Order, []models.StatusLog, error) {
	order, err := os.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}

	history, err := os.repo.GetStatusHistory(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	return order, history, nil
}

// UpdateStatus transitions order to newStatus, appending a history entry.
// Direct field mutation is forbidden; this is the only status write path.
func (os *OrderService) UpdateStatus(ctx context.Context, number, newStatus, changedBy string, notes *string) (*models.Order, error) {
	order, err := os.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if !models.CanTransitionTo(order.Status, newStatus) {
		return nil, models.ErrInvalidStatusTransition
	}

	if changedBy == "" {
		changedBy = changedBySystem
	}

	if err := os.repo.UpdateOrderStatus(ctx, order.ID, order.Status, newStatus, changedBy, notes); err != nil {
		if errors.Is(err, models.ErrConflictData) {
			// lost a race with a concurrent transition
			return nil, models.ErrInvalidStatusTransition
		}
		return nil, err
	}

	order.Status = newStatus
	order.UpdatedAt = time.Now()

	return order, nil
}

// ResendConfirmations sends confirmations for orders received on orderCh
func (os *OrderService) ResendConfirmations(ctx context.Context, orderCh <-chan string) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("confirmation resend is done")
			return
		case number, ok := <-orderCh:
			if !ok {
				return
			}

			order, err := os.repo.GetOrderByNumber(ctx, number)
			if err != nil {
				logger.Log.Error("get order for confirmation resend", zap.String("number", number), zap.Error(err))
				continue
			}

			if os.sendConfirmation(ctx, order) {
				logger.Log.Debug("order confirmation resent", zap.String("number", number))
			}
		}
	}
}

// GetOrdersForConfirmation writes unconfirmed order numbers to orderCh
func (os *OrderService) GetOrdersForConfirmation(ctx context.Context, orderCh chan<- string) error {
	numbers, err := os.repo.GetUnconfirmedOrderNumbers(ctx, 10)
	if err != nil {
		return err
	}

	for _, number := range numbers {
		orderCh <- number
	}

	return nil
}
