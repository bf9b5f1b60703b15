package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrinsight/internal/platform/querier"
)

var ErrRoleNotFound = errors.New("role not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM role_permissions rp
    JOIN permissions p ON rp.permission_id = p.id
    WHERE rp.role_id::text = $1 AND p.key = $2
  `, roleID, permission).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) RoleIDByName(ctx context.Context, tenantID, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id::text FROM roles WHERE tenant_id = $1 AND name = $2", tenantID, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRoleNotFound
	}
	return id, err
}

func (s *Store) TenantIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id::text FROM tenants WHERE name = $1", name).Scan(&id)
	return id, err
}
