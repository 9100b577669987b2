package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yorkbites/orderdesk/internal/models"
	"github.com/yorkbites/orderdesk/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

// write transactions are bounded: a hung database must not hold
// order intake open indefinitely
const txTimeout = 5 * time.Second

const (
	insertOrderQuery = `
						INSERT INTO orders (number, customer_name, customer_email, customer_phone, type,
						                    delivery_address, postcode, subtotal, delivery_fee, discount,
						                    total, status, payment_status, estimated_minutes)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
						RETURNING id, created_at, updated_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, name, quantity, price, modifiers)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING id
`
	insertStatusLogQuery = `
						INSERT INTO order_status_log (order_id, status, notes, changed_by)
						VALUES ($1, $2, $3, $4)
`
	selectOrderByNumQuery = `
						SELECT id, number, customer_name, customer_email, customer_phone, type,
						       delivery_address, postcode, subtotal, delivery_fee, discount, total,
						       status, payment_status, estimated_minutes, confirmation_sent,
						       created_at, updated_at
						FROM orders
						WHERE number = $1
`
	selectOrderItemsQuery = `
						SELECT id, order_id, name, quantity, price, modifiers FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	selectStatusLogQuery = `
						SELECT id, order_id, status, notes, changed_by, changed_at FROM order_status_log
						WHERE order_id = $1
						ORDER BY changed_at
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1, updated_at = now()
						WHERE id = $2 AND status = $3
`
	selectUnconfirmedQuery = `
						SELECT number FROM orders
						WHERE NOT confirmation_sent AND status <> 'cancelled'
						ORDER BY created_at
						LIMIT $1
`
	markConfirmedQuery = `
						UPDATE orders
						SET confirmation_sent = TRUE
						WHERE id = $1
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts the order, its items and the initial status-history
// entry as a single transaction. Any failure rolls the whole insert back:
// no partially-created order, no orphaned history row.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.Number, order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.Type,
		order.DeliveryAddress, order.Postcode, order.Subtotal, order.DeliveryFee, order.Discount,
		order.Total, order.Status, order.PaymentStatus, order.EstimatedMinutes,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for i := range order.Items {
		err = tx.QueryRow(ctx, insertOrderItemQuery,
			order.ID, order.Items[i].Name, order.Items[i].Quantity, order.Items[i].Price, order.Items[i].Modifiers,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return nil, err
		}
		order.Items[i].OrderID = order.ID
	}

	if _, err := tx.Exec(ctx, insertStatusLogQuery, order.ID, order.Status, nil, "order-service"); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByNumber returns order with items by number
func (or *OrderRepository) GetOrderByNumber(ctx context.Context, num string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByNumQuery, num).Scan(
		&order.ID, &order.Number, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.Type, &order.DeliveryAddress, &order.Postcode, &order.Subtotal, &order.DeliveryFee,
		&order.Discount, &order.Total, &order.Status, &order.PaymentStatus, &order.EstimatedMinutes,
		&order.ConfirmationSent, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	rows, err := or.db.Query(ctx, selectOrderItemsQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		err = rows.Scan(&item.ID, &item.OrderID, &item.Name, &item.Quantity, &item.Price, &item.Modifiers)
		if err != nil {
			continue
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetStatusHistory returns append-only status history of order
func (or *OrderRepository) GetStatusHistory(ctx context.Context, orderID uint64) ([]models.StatusLog, error) {
	rows, err := or.db.Query(ctx, selectStatusLogQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.StatusLog{}

	for rows.Next() {
		log := models.StatusLog{}
		err = rows.Scan(&log.ID, &log.OrderID, &log.Status, &log.Notes, &log.ChangedBy, &log.ChangedAt)
		if err != nil {
			continue
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// UpdateOrderStatus moves an order from status from to status to and appends
// the history entry in one transaction. The guard on the current status makes
// concurrent transitions lose cleanly with ErrConflictData.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID uint64, from, to, changedBy string, notes *string) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := or.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, updateOrderStatusQuery, to, orderID, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrConflictData
	}

	if _, err := tx.Exec(ctx, insertStatusLogQuery, orderID, to, notes, changedBy); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetUnconfirmedOrderNumbers returns numbers of committed orders whose
// confirmation has not been sent yet
func (or *OrderRepository) GetUnconfirmedOrderNumbers(ctx context.Context, limit int) ([]string, error) {
	rows, err := or.db.Query(ctx, selectUnconfirmedQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	numbers := []string{}

	for rows.Next() {
		var num string
		if err := rows.Scan(&num); err != nil {
			continue
		}
		numbers = append(numbers, num)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return numbers, nil
}

// MarkConfirmationSent marks order confirmation as delivered
func (or *OrderRepository) MarkConfirmationSent(ctx context.Context, orderID uint64) error {
	cmd, err := or.db.Exec(ctx, markConfirmedQuery, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
