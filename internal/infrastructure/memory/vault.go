package memory

import (
	"context"
	"errors"
	"slices"
	"strings"

	"guildbot/internal/domain"
	"guildbot/internal/ports/output"
)

var _ output.VaultRepository = (*VaultStore)(nil)

type userVault struct {
	items []string
}

// VaultStore is the in-memory inventory used when no database is configured.
type VaultStore struct {
	users *Registry[*userVault]
}

func NewVaultStore() *VaultStore {
	return &VaultStore{users: NewRegistry[*userVault]()}
}

func (s *VaultStore) AddItem(_ context.Context, userID, item string) error {
	return s.users.Upsert(userID, func() *userVault { return &userVault{} }, func(v *userVault) error {
		v.items = append(v.items, item)
		return nil
	})
}

func (s *VaultStore) RemoveItem(_ context.Context, userID, item string) error {
	err := s.users.With(userID, func(v *userVault) error {
		idx := slices.IndexFunc(v.items, func(it string) bool { return strings.EqualFold(it, item) })
		if idx < 0 {
			return domain.ErrItemNotFound
		}
		v.items = slices.Delete(v.items, idx, idx+1)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return domain.ErrItemNotFound
	}
	return err
}

func (s *VaultStore) ListItems(_ context.Context, userID string) ([]string, error) {
	var out []string
	err := s.users.With(userID, func(v *userVault) error {
		out = slices.Clone(v.items)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	return out, err
}

func (s *VaultStore) Snapshot(_ context.Context) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, k := range s.users.Keys() {
		_ = s.users.With(k, func(v *userVault) error {
			if len(v.items) > 0 {
				out[k] = slices.Clone(v.items)
			}
			return nil
		})
	}
	return out, nil
}

func (s *VaultStore) Replace(_ context.Context, snapshot map[string][]string) error {
	vals := make(map[string]*userVault, len(snapshot))
	for k, items := range snapshot {
		vals[k] = &userVault{items: slices.Clone(items)}
	}
	s.users.Replace(vals)
	return nil
}
