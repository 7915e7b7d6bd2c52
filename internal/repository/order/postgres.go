package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"falcon-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `
id::text, order_number, user_id::text, status, subtotal, tax, shipping, total,
shipping_address, payment_method, tracking_number, estimated_delivery, created_at, updated_at`

const itemColumns = `
id::text, order_id::text, product_id, product_name, COALESCE(product_image, ''), price, quantity,
selected_color, selected_size`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	addrJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	q := `
INSERT INTO orders (order_number, user_id, status, subtotal, tax, shipping, total,
                    shipping_address, payment_method, estimated_delivery)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns
	stored, err := scanOrder(tx.QueryRow(
		ctx, q,
		o.OrderNumber, o.UserID, o.Status, o.Subtotal, o.Tax, o.Shipping, o.Total,
		addrJSON, o.PaymentMethod, o.EstimatedDelivery,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert order_number=%s error=%v", o.OrderNumber, err)
		return nil, err
	}

	for _, item := range o.Items {
		var line domain.OrderItem
		err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, product_name, product_image, price, quantity, selected_color, selected_size)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+itemColumns,
			stored.ID, item.ProductID, item.ProductName, item.ProductImage,
			item.Price, item.Quantity, item.SelectedColor, item.SelectedSize,
		).Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.ProductName,
			&line.ProductImage, &line.Price, &line.Quantity,
			&line.SelectedColor, &line.SelectedSize,
		)
		if err != nil {
			r.logger.Printf("order repo: insert item order=%s product=%s error=%v", stored.ID, item.ProductID, err)
			return nil, err
		}
		stored.Items = append(stored.Items, line)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 LIMIT 1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	if err := r.attachItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1 LIMIT 1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, orderNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get order_number=%s error=%v", orderNumber, err)
		return nil, err
	}
	if err := r.attachItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.listOrders(ctx, q, userID)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.listOrders(ctx, q)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string, trackingNumber *string) (*domain.Order, error) {
	q := `
UPDATE orders
SET status = $1,
    tracking_number = COALESCE($2, tracking_number),
    updated_at = now()
WHERE id = $3
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, status, trackingNumber, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return nil, err
	}
	if err := r.attachItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) listOrders(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.attachItems(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) attachItems(ctx context.Context, o *domain.Order) error {
	q := `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		r.logger.Printf("order repo: items order=%s error=%v", o.ID, err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductImage,
			&item.Price,
			&item.Quantity,
			&item.SelectedColor,
			&item.SelectedSize,
		); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var addrJSON []byte
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Status,
		&o.Subtotal,
		&o.Tax,
		&o.Shipping,
		&o.Total,
		&addrJSON,
		&o.PaymentMethod,
		&o.TrackingNumber,
		&o.EstimatedDelivery,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(addrJSON) > 0 {
		if err := json.Unmarshal(addrJSON, &o.ShippingAddress); err != nil {
			return nil, err
		}
	}
	return &o, nil
}
