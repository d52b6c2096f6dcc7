package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/dinehall/internal/domain/order"
)

const (
	orderColumns = `id, customer_id, customer_name, customer_mobile, table_number, items,
		subtotal_cents, discount_cents, total_cents, currency, status,
		payment_session_id, payment_intent_id, created_at, updated_at, completed_at`

	createOrderSQL = `INSERT INTO orders
		(id, customer_id, customer_name, customer_mobile, table_number, items,
		 subtotal_cents, discount_cents, total_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	getOrderBySessionSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE payment_session_id = $1 AND payment_session_id <> ''`

	listOrdersForCustomerSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE customer_id = $1 ORDER BY created_at DESC`

	listAllOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	attachSessionSQL = `UPDATE orders
		SET payment_session_id = $2,
		    payment_intent_id = CASE WHEN $3 <> '' THEN $3 ELSE payment_intent_id END,
		    updated_at = now()
		WHERE id = $1`

	// The status write is conditional on the current status being a valid
	// predecessor, so concurrent updaters race on the row and exactly one
	// wins; the loser matches zero rows.
	updateStatusSQL = `UPDATE orders
		SET status = $2,
		    updated_at = now(),
		    completed_at = CASE WHEN $2 = 'completed' THEN now() ELSE completed_at END
		WHERE id = $1 AND status = ANY($3)
		RETURNING ` + orderColumns
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items are stored as a JSONB snapshot, so catalog edits never touch placed
// orders.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order in its initial status and fills in the
// database-assigned timestamps.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	err = r.pool.QueryRow(ctx, createOrderSQL,
		o.ID, o.CustomerID, o.CustomerName, o.CustomerMobile, o.TableNumber, itemsJSON,
		o.SubtotalCents, o.DiscountCents, o.TotalCents, o.Currency, string(o.Status),
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// Get returns a single order by id.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// GetBySessionID returns the order linked to the given provider session.
func (r *OrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderBySessionSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("getting order by session %q: %w", sessionID, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order by session %q: %w", sessionID, err)
	}
	return &o, nil
}

// ListForCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListForCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersForCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %q: %w", customerID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListAll returns all orders, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listAllOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// AttachPaymentSession persists the provider session id on the order.
func (r *OrderRepository) AttachPaymentSession(ctx context.Context, orderID, sessionID, intentID string) error {
	tag, err := r.pool.Exec(ctx, attachSessionSQL, orderID, sessionID, intentID)
	if err != nil {
		return fmt.Errorf("attaching session to order %q: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// UpdateStatus advances the order along the state machine with a single
// conditional update. It returns *order.InvalidTransitionError when the
// stored status is not a valid predecessor of the target status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, to order.Status) (*order.Order, error) {
	preds := order.ValidPredecessors(to)
	from := make([]string, len(preds))
	for i, s := range preds {
		from[i] = string(s)
	}

	rows, err := r.pool.Query(ctx, updateStatusSQL, orderID, string(to), from)
	if err != nil {
		return nil, fmt.Errorf("updating order %q status: %w", orderID, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("updating order %q status: %w", orderID, err)
	}

	// No row matched: distinguish a missing order from a rejected transition.
	current, getErr := r.Get(ctx, orderID)
	if getErr != nil {
		return nil, getErr
	}
	return nil, &order.InvalidTransitionError{OrderID: orderID, From: current.Status, To: to}
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
		status    string
	)
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerMobile, &o.TableNumber, &itemsJSON,
		&o.SubtotalCents, &o.DiscountCents, &o.TotalCents, &o.Currency, &status,
		&o.PaymentSessionID, &o.PaymentIntentID, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt,
	)
	if err != nil {
		return order.Order{}, err
	}
	o.Status = order.Status(status)
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order items: %w", err)
	}
	return o, nil
}
