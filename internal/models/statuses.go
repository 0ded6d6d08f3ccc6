package models

type AccountRole string

const (
	RoleFreelancer AccountRole = "freelancer"
	RoleBusiness   AccountRole = "business"
	RoleAdmin      AccountRole = "admin"
)

// IsRegistrable сообщает, может ли роль регистрироваться через публичный signup.
// Админы создаются только сидом при старте приложения.
func (r AccountRole) IsRegistrable() bool {
	return r == RoleFreelancer || r == RoleBusiness
}
