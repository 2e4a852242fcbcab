package output

import "context"

// VaultRepository stores each user's inventory as an ordered list of item descriptions.
type VaultRepository interface {
	AddItem(ctx context.Context, userID, item string) error
	// RemoveItem deletes the first item equal to item (case-insensitive).
	RemoveItem(ctx context.Context, userID, item string) error
	ListItems(ctx context.Context, userID string) ([]string, error)
	// Snapshot returns the full mapping user ID -> items.
	Snapshot(ctx context.Context) (map[string][]string, error)
	// Replace swaps the whole store for snapshot.
	Replace(ctx context.Context, snapshot map[string][]string) error
}
