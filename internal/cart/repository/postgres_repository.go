package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/itaipu/go-shop/internal/cart/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var errDuplicateCartID = errors.New("cart id already exists")

func (r *Repository) CreateCart(ctx context.Context, cart *domain.Cart) error {
	query := `INSERT INTO carts (cart_id, total_price, default_currency, created_at, updated_at)
	          VALUES ($1, $2, $3, NOW(), NOW())
	          RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		cart.ID,
		cart.TotalPrice,
		cart.DefaultCurrency,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return errDuplicateCartID
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (r *Repository) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	query := `SELECT id, cart_id, total_price, default_currency, created_at, updated_at
	          FROM carts WHERE cart_id = $1`

	cart := &domain.Cart{}
	var rowID int64
	err := r.db.QueryRowContext(ctx, query, cartID).Scan(
		&rowID,
		&cart.ID,
		&cart.TotalPrice,
		&cart.DefaultCurrency,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart by id: %w", err)
	}

	items, err := r.loadItems(ctx, rowID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

func (r *Repository) loadItems(ctx context.Context, cartRowID int64) ([]domain.CartItem, error) {
	query := `SELECT product_id, product_name, quantity, unit_price, total_price, currency
	          FROM cart_items WHERE cart_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, cartRowID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.Currency,
		); err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// UpdateCart rewrites the aggregate: the stored total and the full item set
// change together or not at all.
func (r *Repository) UpdateCart(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cart update: %w", err)
	}
	defer tx.Rollback()

	var rowID int64
	err = tx.QueryRowContext(ctx,
		`UPDATE carts SET total_price = $1, updated_at = NOW() WHERE cart_id = $2 RETURNING id`,
		cart.TotalPrice, cart.ID,
	).Scan(&rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCartNotFound
	}
	if err != nil {
		return fmt.Errorf("update cart total: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, rowID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}

	for _, item := range cart.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cart_items (cart_id, product_id, product_name, quantity, unit_price, total_price, currency)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rowID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
			item.Currency,
		)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cart update: %w", err)
	}
	return nil
}
