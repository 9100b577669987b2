package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yorkbites/orderdesk/internal/models"
	"github.com/yorkbites/orderdesk/internal/service/mocks"
)

func strptr(s string) *string { return &s }

func deliveryRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName:    "Jane Smith",
		CustomerEmail:   "jane@example.com",
		CustomerPhone:   "01904 000000",
		Type:            models.OrderTypeDelivery,
		DeliveryAddress: strptr("12 Fossgate, York"),
		Postcode:        strptr("YO1 9TA"),
		Items: []CreateOrderItem{
			{
				Name:     "Margherita",
				Quantity: 2,
				Price:    decimal.RequireFromString("9.00"),
				Modifiers: []CreateOrderModifier{
					{Name: "extra cheese", Price: decimal.RequireFromString("0.50")},
				},
			},
			{Name: "Cola", Quantity: 1, Price: decimal.RequireFromString("3.00")},
		},
	}
}

func metQuote() *models.FeeQuote {
	return &models.FeeQuote{
		Fee:              decimal.RequireFromString("2.00"),
		BaseFee:          decimal.RequireFromString("3.00"),
		Zone:             "YO1",
		EstimatedMinutes: 30,
		MinimumOrder: models.MinimumOrderStatus{
			Required:  decimal.RequireFromString("10.00"),
			Met:       true,
			Shortfall: decimal.Zero,
		},
	}
}

type serviceMocks struct {
	repo  *mocks.MockOrderRepository
	calc  *mocks.MockFeeCalculator
	gen   *mocks.MockNumberGenerator
	notif *mocks.MockNotifier
}

func newServiceMocks(ctrl *gomock.Controller) (serviceMocks, *OrderService) {
	sm := serviceMocks{
		repo:  mocks.NewMockOrderRepository(ctrl),
		calc:  mocks.NewMockFeeCalculator(ctrl),
		gen:   mocks.NewMockNumberGenerator(ctrl),
		notif: mocks.NewMockNotifier(ctrl),
	}
	return sm, NewOrderService(sm.repo, sm.calc, sm.gen, sm.notif)
}

// passthroughCreate assigns an id and hands the order back, as the real
// repository does on a committed insert
func passthroughCreate(_ context.Context, order *models.Order) (*models.Order, error) {
	order.ID = 1
	return order, nil
}

func TestOrderService_Create_DeliveryOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.calc.EXPECT().Quote(gomock.Any(), "YO1 9TA", "12 Fossgate, York", gomock.Any()).Return(metQuote(), nil)
	sm.gen.EXPECT().Generate(gomock.Any()).Return("ORD250314-0007")
	sm.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passthroughCreate)
	sm.notif.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Return(nil)
	sm.repo.EXPECT().MarkConfirmationSent(gomock.Any(), uint64(1)).Return(nil)

	result, err := svc.Create(context.Background(), deliveryRequest())

	require.NoError(t, err)
	require.NotNil(t, result.Order)

	order := result.Order
	assert.Equal(t, "ORD250314-0007", order.Number)
	assert.Equal(t, models.OrderStatusReceived, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 30, order.EstimatedMinutes)

	// (9.00 + 0.50) * 2 + 3.00
	assert.True(t, decimal.RequireFromString("22.00").Equal(order.Subtotal), "got subtotal %s", order.Subtotal)
	assert.True(t, decimal.RequireFromString("3.00").Equal(order.DeliveryFee))
	assert.True(t, decimal.RequireFromString("1.00").Equal(order.Discount))
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.DeliveryFee).Sub(order.Discount)))
	assert.True(t, decimal.RequireFromString("24.00").Equal(order.Total), "got total %s", order.Total)

	assert.True(t, result.NotificationSent)
}

func TestOrderService_Create_PickupSkipsFeeCalculation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.calc.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	sm.gen.EXPECT().Generate(gomock.Any()).Return("ORD250314-0008")
	sm.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passthroughCreate)
	sm.notif.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Return(nil)
	sm.repo.EXPECT().MarkConfirmationSent(gomock.Any(), uint64(1)).Return(nil)

	req := deliveryRequest()
	req.Type = models.OrderTypePickup
	req.DeliveryAddress = nil
	req.Postcode = nil

	result, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Order.DeliveryFee.Equal(decimal.Zero))
	assert.True(t, result.Order.Total.Equal(result.Order.Subtotal))
}

func TestOrderService_Create_ValidationErrorHasNoSideEffects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.calc.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	sm.gen.EXPECT().Generate(gomock.Any()).Times(0)
	sm.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Times(0)
	sm.notif.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Times(0)

	req := deliveryRequest()
	req.Items = nil

	_, err := svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestOrderService_Create_OutsideDeliveryArea(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.calc.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrOutsideDeliveryArea)
	sm.gen.EXPECT().Generate(gomock.Any()).Times(0)
	sm.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Times(0)
	sm.notif.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Create(context.Background(), deliveryRequest())

	assert.ErrorIs(t, err, models.ErrOutsideDeliveryArea)
}

func TestOrderService_Create_BelowMinimumOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quote := metQuote()
	quote.MinimumOrder = models.MinimumOrderStatus{
		Required:  decimal.RequireFromString("25.00"),
		Met:       false,
		Shortfall: decimal.RequireFromString("3.00"),
	}

	sm, svc := newServiceMocks(ctrl)
	sm.calc.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(quote, nil)
	sm.gen.EXPECT().Generate(gomock.Any()).Times(0)
	sm.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Create(context.Background(), deliveryRequest())

	assert.ErrorIs(t, err, models.ErrBelowMinimumOrder)
}

func TestOrderService_Create_PersistenceFailureSkipsNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.calc.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(metQuote(), nil)
	sm.gen.EXPECT().Generate(gomock.Any()).Return("ORD250314-0010")
	sm.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
	sm.notif.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Times(0)
	sm.repo.EXPECT().MarkConfirmationSent(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Create(context.Background(), deliveryRequest())

	require.Error(t, err)
}

func TestOrderService_Create_NotificationFailureKeepsOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.calc.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(metQuote(), nil)
	sm.gen.EXPECT().Generate(gomock.Any()).Return("ORD250314-0011")
	sm.repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passthroughCreate)
	sm.notif.EXPECT().SendOrderConfirmation(gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable"))
	sm.repo.EXPECT().MarkConfirmationSent(gomock.Any(), gomock.Any()).Times(0)

	result, err := svc.Create(context.Background(), deliveryRequest())

	require.NoError(t, err, "notification failure must not fail the created order")
	assert.False(t, result.NotificationSent)
	assert.NotNil(t, result.Order)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		next       string
		wantErr    error
		wantUpdate bool
	}{
		{name: "received_to_preparing", current: models.OrderStatusReceived, next: models.OrderStatusPreparing, wantUpdate: true},
		{name: "preparing_to_ready", current: models.OrderStatusPreparing, next: models.OrderStatusReady, wantUpdate: true},
		{name: "ready_to_completed", current: models.OrderStatusReady, next: models.OrderStatusCompleted, wantUpdate: true},
		{name: "cancel_from_received", current: models.OrderStatusReceived, next: models.OrderStatusCancelled, wantUpdate: true},
		{name: "cancel_from_ready", current: models.OrderStatusReady, next: models.OrderStatusCancelled, wantUpdate: true},
		{name: "skipping_a_step_is_rejected", current: models.OrderStatusReceived, next: models.OrderStatusReady, wantErr: models.ErrInvalidStatusTransition},
		{name: "completed_is_terminal", current: models.OrderStatusCompleted, next: models.OrderStatusPreparing, wantErr: models.ErrInvalidStatusTransition},
		{name: "cancelled_is_terminal", current: models.OrderStatusCancelled, next: models.OrderStatusPreparing, wantErr: models.ErrInvalidStatusTransition},
		{name: "unknown_status_is_rejected", current: models.OrderStatusReceived, next: "burnt", wantErr: models.ErrInvalidStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			sm, svc := newServiceMocks(ctrl)
			sm.repo.EXPECT().GetOrderByNumber(gomock.Any(), "ORD250314-0001").
				Return(&models.Order{ID: 1, Number: "ORD250314-0001", Status: tt.current}, nil)

			if tt.wantUpdate {
				sm.repo.EXPECT().UpdateOrderStatus(gomock.Any(), uint64(1), tt.current, tt.next, "kitchen", nil).Return(nil)
			} else {
				sm.repo.EXPECT().UpdateOrderStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			}

			order, err := svc.UpdateStatus(context.Background(), "ORD250314-0001", tt.next, "kitchen", nil)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.next, order.Status)
		})
	}
}

func TestOrderService_UpdateStatus_LostRaceIsRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.repo.EXPECT().GetOrderByNumber(gomock.Any(), "ORD250314-0001").
		Return(&models.Order{ID: 1, Number: "ORD250314-0001", Status: models.OrderStatusReceived}, nil)
	sm.repo.EXPECT().UpdateOrderStatus(gomock.Any(), uint64(1), models.OrderStatusReceived, models.OrderStatusPreparing, "kitchen", nil).
		Return(models.ErrConflictData)

	_, err := svc.UpdateStatus(context.Background(), "ORD250314-0001", models.OrderStatusPreparing, "kitchen", nil)

	assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)
}

func TestOrderService_UpdateStatus_OrderNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.repo.EXPECT().GetOrderByNumber(gomock.Any(), "ORD000000-0000").Return(nil, models.ErrDataNotFound)
	sm.repo.EXPECT().UpdateOrderStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.UpdateStatus(context.Background(), "ORD000000-0000", models.OrderStatusPreparing, "kitchen", nil)

	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestOrderService_Track(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.repo.EXPECT().GetOrderByNumber(gomock.Any(), "ORD250314-0001").
		Return(&models.Order{ID: 1, Number: "ORD250314-0001", Status: models.OrderStatusPreparing}, nil)
	sm.repo.EXPECT().GetStatusHistory(gomock.Any(), uint64(1)).Return([]models.StatusLog{
		{OrderID: 1, Status: models.OrderStatusReceived, ChangedBy: "order-service"},
		{OrderID: 1, Status: models.OrderStatusPreparing, ChangedBy: "kitchen"},
	}, nil)

	order, history, err := svc.Track(context.Background(), "ORD250314-0001")

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	require.Len(t, history, 2)
	assert.Equal(t, models.OrderStatusReceived, history[0].Status)
}

func TestOrderService_GetOrdersForConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sm, svc := newServiceMocks(ctrl)
	sm.repo.EXPECT().GetUnconfirmedOrderNumbers(gomock.Any(), 10).
		Return([]string{"ORD250314-0001", "ORD250314-0002"}, nil)

	orderCh := make(chan string, 10)
	err := svc.GetOrdersForConfirmation(context.Background(), orderCh)

	require.NoError(t, err)
	close(orderCh)

	got := []string{}
	for num := range orderCh {
		got = append(got, num)
	}
	assert.Equal(t, []string{"ORD250314-0001", "ORD250314-0002"}, got)
}
