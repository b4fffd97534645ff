package access

import (
	"go-hrms/internal/user"

	"github.com/gin-gonic/gin"
)

// Principal is the resolved caller identity. Services receive it explicitly.
type Principal struct {
	UserID              uint
	CompanyID           uint
	EmployeeID          *uint
	Username            string
	FullName            string
	Email               string
	Role                user.Role
	IsSuperuser         bool
	ForcePasswordChange bool
}

func (p *Principal) IsAdmin() bool {
	return p.Role == user.RoleAdmin
}

func (p *Principal) IsEmployee() bool {
	return p.Role == user.RoleEmployee
}

func principalFromUser(u *user.User) *Principal {
	return &Principal{
		UserID:              u.ID,
		CompanyID:           u.CompanyID,
		EmployeeID:          u.EmployeeID,
		Username:            u.Username,
		FullName:            u.FullName,
		Email:               u.Email,
		Role:                u.Role,
		IsSuperuser:         u.IsSuperuser,
		ForcePasswordChange: u.ForcePasswordChange,
	}
}

const (
	principalKey = "principal"
	CompanyIDKey = "company_id"
	UserIDKey    = "user_id"
	RoleKey      = "role"
)

// ToGin stores p on the request context. The scalar keys are kept for
// handlers that only need the tenant id.
func ToGin(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
	c.Set(CompanyIDKey, p.CompanyID)
	c.Set(UserIDKey, p.UserID)
	c.Set(RoleKey, string(p.Role))
}

func FromGin(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}
