package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/yorkbites/orderdesk/internal/models"
)

// confirmations fan out to the email sender and any other listener
const confirmationExchange = "order_confirmations"

type confirmationItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type confirmationMessage struct {
	OrderNumber      string             `json:"order_number"`
	CustomerName     string             `json:"customer_name"`
	CustomerEmail    string             `json:"customer_email"`
	Items            []confirmationItem `json:"items"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	DeliveryFee      decimal.Decimal    `json:"delivery_fee"`
	Discount         decimal.Decimal    `json:"discount"`
	Total            decimal.Decimal    `json:"total"`
	EstimatedMinutes int                `json:"estimated_minutes"`
}

// AMQPNotifier publishes order confirmations to RabbitMQ
type AMQPNotifier struct {
	conn *amqp.Connection
}

// NewAMQPNotifier connects to RabbitMQ at url
func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return &AMQPNotifier{conn: conn}, nil
}

// SendOrderConfirmation publishes a confirmation message for a committed
// order. Errors are reported to the caller, which treats the send as
// best-effort.
func (n *AMQPNotifier) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	ch, err := n.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(confirmationExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	msg := confirmationMessage{
		OrderNumber:      order.Number,
		CustomerName:     order.CustomerName,
		CustomerEmail:    order.CustomerEmail,
		Subtotal:         order.Subtotal,
		DeliveryFee:      order.DeliveryFee,
		Discount:         order.Discount,
		Total:            order.Total,
		EstimatedMinutes: order.EstimatedMinutes,
	}
	for _, item := range order.Items {
		msg.Items = append(msg.Items, confirmationItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.PublishWithContext(ctx, confirmationExchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Close closes the underlying connection
func (n *AMQPNotifier) Close() error {
	return n.conn.Close()
}
