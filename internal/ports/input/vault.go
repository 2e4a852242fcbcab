package input

import "context"

type VaultUseCase interface {
	AddItem(ctx context.Context, userID, item string) error
	RemoveItem(ctx context.Context, userID, item string) error
	ListItems(ctx context.Context, userID string) ([]string, error)
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (int, error)
}
