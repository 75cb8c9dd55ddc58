package orderrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/pg"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

const orderColumns = `id, user_id, shop_id, items, shipping, payment, coupon,
	subtotal, total_price, order_status, cancel_reason, created_at,
	delivered_at, cancelled_at, refund_requested_at, refund_decided_at, refunded_at`

func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("can't marshal order items: %w", err)
	}
	shipping, err := json.Marshal(order.Shipping)
	if err != nil {
		return fmt.Errorf("can't marshal shipping address: %w", err)
	}
	payment, err := json.Marshal(order.Payment)
	if err != nil {
		return fmt.Errorf("can't marshal payment info: %w", err)
	}
	var coupon []byte
	if order.Coupon != nil {
		coupon, err = json.Marshal(order.Coupon)
		if err != nil {
			return fmt.Errorf("can't marshal coupon: %w", err)
		}
	}

	query := `
        INSERT INTO orders (id, user_id, shop_id, items, shipping, payment, coupon,
            subtotal, total_price, order_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	err = r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			order.ID, order.UserID, order.ShopID, items, shipping, payment, coupon,
			order.Subtotal, order.TotalPrice, order.Status, order.CreatedAt,
		)
		if err != nil {
			zap.L().Error("can't save order", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, orderID)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	return r.findMany(ctx, query, userID)
}

func (r *Repository) FindByShopID(ctx context.Context, shopID string) ([]domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE shop_id = $1
        ORDER BY created_at DESC
    `
	return r.findMany(ctx, query, shopID)
}

func (r *Repository) findMany(ctx context.Context, query string, arg any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// UpdateStatus writes the mutable part of the aggregate: status, payment
// state and the lifecycle timestamps. Pricing columns never change after
// checkout.
func (r *Repository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	payment, err := json.Marshal(order.Payment)
	if err != nil {
		return fmt.Errorf("can't marshal payment info: %w", err)
	}

	query := `
        UPDATE orders
        SET order_status = $1, payment = $2, cancel_reason = $3, delivered_at = $4,
            cancelled_at = $5, refund_requested_at = $6, refund_decided_at = $7, refunded_at = $8
        WHERE id = $9
    `
	err = r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query,
			order.Status, payment, order.CancelReason, order.DeliveredAt,
			order.CancelledAt, order.RefundRequestedAt, order.RefundDecidedAt, order.RefundedAt,
			order.ID,
		)
		if err != nil {
			zap.L().Error("failed to update order", zap.Error(err))
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, orderID string) error {
	query := `
        DELETE FROM orders
        WHERE id = $1
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, orderID)
		if err != nil {
			zap.L().Error("can't delete order", zap.Error(err))
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order    domain.Order
		items    []byte
		shipping []byte
		payment  []byte
		coupon   []byte
	)
	err := row.Scan(
		&order.ID, &order.UserID, &order.ShopID, &items, &shipping, &payment, &coupon,
		&order.Subtotal, &order.TotalPrice, &order.Status, &order.CancelReason, &order.CreatedAt,
		&order.DeliveredAt, &order.CancelledAt, &order.RefundRequestedAt, &order.RefundDecidedAt, &order.RefundedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("can't unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(shipping, &order.Shipping); err != nil {
		return nil, fmt.Errorf("can't unmarshal shipping address: %w", err)
	}
	if err := json.Unmarshal(payment, &order.Payment); err != nil {
		return nil, fmt.Errorf("can't unmarshal payment info: %w", err)
	}
	if len(coupon) > 0 {
		order.Coupon = &domain.AppliedCoupon{}
		if err := json.Unmarshal(coupon, order.Coupon); err != nil {
			return nil, fmt.Errorf("can't unmarshal coupon: %w", err)
		}
	}
	return &order, nil
}
