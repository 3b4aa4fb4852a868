package rbac

import "gorm.io/gorm"

type UserRole struct {
	UserID string
	RoleID string
}

type RolePermission struct {
	RoleID   string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetUserRoles() ([]UserRole, error)
	GetRolePermissions() ([]RolePermission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUserRoles() ([]UserRole, error) {
	var roles []UserRole
	err := r.db.
		Table("user_roles").
		Select("user_id::text AS user_id, role_id::text AS role_id").
		Scan(&roles).Error
	return roles, err
}

func (r *repository) GetRolePermissions() ([]RolePermission, error) {
	var perms []RolePermission
	err := r.db.
		Table("role_permissions rp").
		Select("rp.role_id::text AS role_id, p.resource, p.action").
		Joins("JOIN permissions p ON p.id = rp.permission_id").
		Scan(&perms).Error
	return perms, err
}
