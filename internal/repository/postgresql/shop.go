package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/shop"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
)

type shopRepository struct {
	db *database.DB
}

func NewShopRepository(db *database.DB) shop.ShopRepository {
	return &shopRepository{db: db}
}

// GetByID implements shop.ShopRepository.
func (r *shopRepository) GetByID(ctx context.Context, id string) (shop.Shop, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, timezone, created_at, updated_at
		FROM shops
		WHERE id = $1
	`

	var s shop.Shop
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Timezone, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shop.Shop{}, shop.ErrShopNotFound
		}
		return shop.Shop{}, fmt.Errorf("failed to get shop: %w", err)
	}

	return s, nil
}

// GetHours implements shop.ShopRepository. A missing row means the shop is
// closed that weekday, reported as nil rather than an error.
func (r *shopRepository) GetHours(ctx context.Context, shopID string, dayOfWeek int) (*shop.ShopHours, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shop_id, day_of_week, open_time, close_time, created_at, updated_at
		FROM shop_hours
		WHERE shop_id = $1 AND day_of_week = $2
	`

	var h shop.ShopHours
	err := q.QueryRow(ctx, query, shopID, dayOfWeek).Scan(
		&h.ID, &h.ShopID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shop hours: %w", err)
	}

	return &h, nil
}

// ListAll implements shop.ShopRepository.
func (r *shopRepository) ListAll(ctx context.Context) ([]shop.Shop, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, timezone, created_at, updated_at
		FROM shops
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer rows.Close()

	var shops []shop.Shop
	for rows.Next() {
		var s shop.Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.Timezone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shops: %w", err)
	}

	return shops, nil
}
