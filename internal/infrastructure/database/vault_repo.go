package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"guildbot/internal/domain"
	"guildbot/internal/ports/output"
)

var _ output.VaultRepository = (*VaultRepository)(nil)

// VaultRepository implements output.VaultRepository on the vault_items table.
// Row order (id) is the insertion order of each user's items.
type VaultRepository struct {
	pool *pgxpool.Pool
}

func NewVaultRepository(pool *pgxpool.Pool) *VaultRepository {
	return &VaultRepository{pool: pool}
}

func (r *VaultRepository) AddItem(ctx context.Context, userID, item string) error {
	uid, err := userIDToInt64(userID)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO vault_items (user_id, description) VALUES ($1, $2)`, uid, item); err != nil {
		return fmt.Errorf("add vault item: %w", err)
	}
	return nil
}

func (r *VaultRepository) RemoveItem(ctx context.Context, userID, item string) error {
	uid, err := userIDToInt64(userID)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM vault_items
		WHERE id = (
			SELECT id FROM vault_items
			WHERE user_id = $1 AND lower(description) = lower($2)
			ORDER BY id
			LIMIT 1
		)`, uid, item)
	if err != nil {
		return fmt.Errorf("remove vault item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *VaultRepository) ListItems(ctx context.Context, userID string) ([]string, error) {
	uid, err := userIDToInt64(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT description FROM vault_items WHERE user_id = $1 ORDER BY id`, uid)
	if err != nil {
		return nil, fmt.Errorf("list vault items: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan vault items: %w", err)
	}
	return items, nil
}

func (r *VaultRepository) Snapshot(ctx context.Context) (map[string][]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, description FROM vault_items ORDER BY user_id, id`)
	if err != nil {
		return nil, fmt.Errorf("snapshot vault: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]string)
	for rows.Next() {
		var uid int64
		var desc string
		if err := rows.Scan(&uid, &desc); err != nil {
			return nil, fmt.Errorf("scan vault row: %w", err)
		}
		key := int64ToUserID(uid)
		out[key] = append(out[key], desc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot vault: %w", err)
	}
	return out, nil
}

// Replace truncates the table and bulk-loads snapshot in one transaction.
func (r *VaultRepository) Replace(ctx context.Context, snapshot map[string][]string) error {
	var rows [][]any
	for userID, items := range snapshot {
		uid, err := userIDToInt64(userID)
		if err != nil {
			return err
		}
		for _, it := range items {
			rows = append(rows, []any{uid, it})
		}
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM vault_items`); err != nil {
			return fmt.Errorf("clear vault: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"vault_items"},
			[]string{"user_id", "description"}, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("load vault: %w", err)
		}
		return nil
	})
}
