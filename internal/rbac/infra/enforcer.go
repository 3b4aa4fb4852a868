package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer memuat model RBAC dari file conf; policy diisi dari database
// lewat rbac.Service.LoadPolicy, bukan dari file policy statis.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
