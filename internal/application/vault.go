package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"guildbot/internal/domain"
	"guildbot/internal/ports/output"
)

// maxItemLength mirrors the limit of the /vault add option.
const maxItemLength = 200

type VaultService struct {
	repo output.VaultRepository
}

func NewVaultService(repo output.VaultRepository) *VaultService {
	return &VaultService{repo: repo}
}

func (s *VaultService) AddItem(ctx context.Context, userID, item string) error {
	item = strings.TrimSpace(item)
	if item == "" || utf8.RuneCountInString(item) > maxItemLength {
		return domain.ErrInvalidItem
	}
	return s.repo.AddItem(ctx, userID, item)
}

func (s *VaultService) RemoveItem(ctx context.Context, userID, item string) error {
	return s.repo.RemoveItem(ctx, userID, strings.TrimSpace(item))
}

func (s *VaultService) ListItems(ctx context.Context, userID string) ([]string, error) {
	return s.repo.ListItems(ctx, userID)
}

// FindItem returns the first item of userID containing query (case-insensitive).
func (s *VaultService) FindItem(ctx context.Context, userID, query string) (string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", domain.ErrItemNotFound
	}
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, it := range items {
		if strings.Contains(strings.ToLower(it), q) {
			return it, nil
		}
	}
	return "", domain.ErrItemNotFound
}

// Export serializes the whole store as a JSON object of user ID -> items.
func (s *VaultService) Export(ctx context.Context) ([]byte, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode vault snapshot: %w", err)
	}
	return out, nil
}

// Import replaces the whole store with the snapshot in data. Nothing is written unless the
// whole document validates.
func (s *VaultService) Import(ctx context.Context, data []byte) (int, error) {
	snapshot, err := ParseVaultSnapshot(data)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Replace(ctx, snapshot); err != nil {
		return 0, err
	}
	return len(snapshot), nil
}

// ParseVaultSnapshot validates a JSON snapshot. Keys must be numeric user IDs; they are returned in
// canonical decimal form.
func ParseVaultSnapshot(data []byte) (map[string][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var raw map[string][]string
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedImport, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document must be an object", domain.ErrMalformedImport)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after snapshot", domain.ErrMalformedImport)
	}
	out := make(map[string][]string, len(raw))
	for key, items := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid user id %q", domain.ErrMalformedImport, key)
		}
		canonical := strconv.FormatUint(id, 10)
		if _, dup := out[canonical]; dup {
			return nil, fmt.Errorf("%w: duplicate user id %q", domain.ErrMalformedImport, key)
		}
		cleaned := make([]string, 0, len(items))
		for _, it := range items {
			if strings.TrimSpace(it) == "" {
				return nil, fmt.Errorf("%w: empty item for user %s", domain.ErrMalformedImport, canonical)
			}
			cleaned = append(cleaned, it)
		}
		out[canonical] = cleaned
	}
	return out, nil
}
