package model

// Default role names
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// Permission actions
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Role struct {
	ID          uint         `gorm:"primaryKey"`
	Name        string       `gorm:"column:name;size:50;not null;uniqueIndex"`
	Description string       `gorm:"column:description"`
	Permissions []Permission `gorm:"many2many:role_permissions;"`
}

type Permission struct {
	ID          uint   `gorm:"primaryKey"`
	Module      string `gorm:"column:module;size:50;not null;uniqueIndex:idx_permissions_module_name"`
	Name        string `gorm:"column:name;size:50;not null;uniqueIndex:idx_permissions_module_name"`
	Description string `gorm:"column:description"`
}

// Code is the module:action identity checked by the authorization layer
func (p Permission) Code() string {
	return PermissionCode(p.Module, p.Name)
}

func PermissionCode(module, action string) string {
	return module + ":" + action
}
