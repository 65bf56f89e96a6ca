package role

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoleService interface {
	GetPermissionsForRoles(ctx context.Context, roleIDHexes []string) ([]string, error)
	ListRoles(ctx context.Context) ([]Role, error)
}

type RoleServiceImpl struct {
	RoleRepo RoleRepository
}

func NewRoleService(roleRepo RoleRepository) RoleService {
	return &RoleServiceImpl{RoleRepo: roleRepo}
}

// GetPermissionsForRoles resolves the union of permissions across the given role IDs.
// Unparseable IDs are ignored so a stale claim cannot break authorization checks.
func (s *RoleServiceImpl) GetPermissionsForRoles(ctx context.Context, roleIDHexes []string) ([]string, error) {
	var roleIDs []primitive.ObjectID
	for _, rID := range roleIDHexes {
		oid, err := primitive.ObjectIDFromHex(rID)
		if err == nil {
			roleIDs = append(roleIDs, oid)
		}
	}

	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	roles, err := s.RoleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var permissions []string
	for _, role := range roles {
		for _, p := range role.Permissions {
			if !seen[p] {
				seen[p] = true
				permissions = append(permissions, p)
			}
		}
	}

	return permissions, nil
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.RoleRepo.List(ctx)
}
