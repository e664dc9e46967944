package database

import (
	"errors"

	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	permissionModules = []string{"blog", "lead", "user"}
	permissionActions = []string{model.ActionCreate, model.ActionRead, model.ActionUpdate, model.ActionDelete}
)

// DefaultAdmin holds the credentials of the bootstrap superadmin
type DefaultAdmin struct {
	Username string
	Email    string
	Password string
}

// roleGrants lists the permission codes each default role receives
func roleGrants() map[string][]string {
	all := make([]string, 0, len(permissionModules)*len(permissionActions))
	for _, module := range permissionModules {
		for _, action := range permissionActions {
			all = append(all, model.PermissionCode(module, action))
		}
	}

	var content []string
	for _, module := range []string{"blog", "lead"} {
		for _, action := range permissionActions {
			content = append(content, model.PermissionCode(module, action))
		}
	}

	return map[string][]string{
		model.RoleSuperadmin: all,
		model.RoleAdmin:      content,
		model.RoleUser:       {model.PermissionCode("lead", "read"), model.PermissionCode("blog", "read")},
	}
}

var roleDescriptions = map[string]string{
	model.RoleSuperadmin: "Full access",
	model.RoleAdmin:      "Manages blogs and leads",
	model.RoleUser:       "Default role for registered users",
}

// Seed creates permissions, default roles and the superadmin account.
// It is idempotent.
func Seed(db *gorm.DB, admin DefaultAdmin) error {
	return db.Transaction(func(tx *gorm.DB) error {
		perms, err := SeedPermissions(tx)
		if err != nil {
			return err
		}
		if err := SeedRoles(tx, perms); err != nil {
			return err
		}
		return SeedSuperadmin(tx, admin)
	})
}

// SeedPermissions ensures every module:action permission exists
func SeedPermissions(db *gorm.DB) (map[string]model.Permission, error) {
	perms := make(map[string]model.Permission)
	for _, module := range permissionModules {
		for _, action := range permissionActions {
			perm := model.Permission{Module: module, Name: action}
			err := db.Where(model.Permission{Module: module, Name: action}).
				Attrs(model.Permission{Description: action + " " + module}).
				FirstOrCreate(&perm).Error
			if err != nil {
				return nil, err
			}
			perms[perm.Code()] = perm
		}
	}
	return perms, nil
}

// SeedRoles ensures the default roles exist with their grants
func SeedRoles(db *gorm.DB, perms map[string]model.Permission) error {
	for name, codes := range roleGrants() {
		role := model.Role{Name: name}
		err := db.Where(model.Role{Name: name}).
			Attrs(model.Role{Description: roleDescriptions[name]}).
			FirstOrCreate(&role).Error
		if err != nil {
			return err
		}

		granted := make([]model.Permission, 0, len(codes))
		for _, code := range codes {
			granted = append(granted, perms[code])
		}
		if err := db.Model(&role).Association("Permissions").Replace(granted); err != nil {
			return err
		}
	}
	return nil
}

// SeedSuperadmin creates the bootstrap account. Skipped when no password is configured.
func SeedSuperadmin(db *gorm.DB, admin DefaultAdmin) error {
	if admin.Password == "" || admin.Email == "" {
		logger.GetLogger().Info("Superadmin seeding skipped, no credentials configured")
		return nil
	}

	var existing model.User
	result := db.Where("email = ?", admin.Email).First(&existing)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	var role model.Role
	if err := db.Where("name = ?", model.RoleSuperadmin).First(&role).Error; err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hash := string(hashed)

	user := model.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: &hash,
		IsActive:     true,
		Roles:        []model.Role{role},
	}
	if err := db.Omit("Roles.*").Create(&user).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("Superadmin account created", zap.String("email", admin.Email))
	return nil
}
