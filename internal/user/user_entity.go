package user

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// User is a login account. Employee accounts link to exactly one Employee;
// the company admin has no employee record.
type User struct {
	ID                  uint   `gorm:"primaryKey"`
	CompanyID           uint   `gorm:"column:company_id;not null;index"`
	EmployeeID          *uint  `gorm:"column:employee_id;uniqueIndex:uq_users_employee_id"`
	Email               string `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Username            string `gorm:"column:username;type:varchar(100);not null;uniqueIndex:uq_users_username"`
	FullName            string `gorm:"column:full_name;type:varchar(255);not null"`
	PasswordHash        string `gorm:"column:password_hash;type:varchar(255);not null"`
	Role                Role   `gorm:"column:role;type:varchar(20);not null"`
	IsActive            bool   `gorm:"column:is_active;not null"`
	IsSuperuser         bool   `gorm:"column:is_superuser;not null"`
	ForcePasswordChange bool   `gorm:"column:force_password_change;not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
