package authz

import "github.com/nilecart/internal/constants"

// 预置角色
const (
	RoleStaff   = constants.RoleStaff
	RoleSupport = "support"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置角色矩阵：support 只读订单，staff 可改状态并管理优惠券
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleSupport,
			Policies: []Policy{
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/coupons", Action: "GET"},
				{Object: "/admin/permissions", Action: "GET"},
			},
		},
		{
			Role:     RoleStaff,
			Inherits: []string{RoleSupport},
			Policies: []Policy{
				{Object: "/admin/orders/:id/status", Action: "PATCH"},
				{Object: "/admin/orders/:id/payment-status", Action: "PATCH"},
				{Object: "/admin/coupons", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色与规则，重复执行结果不变
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if err := s.link(role, parentRole); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			if err := s.grant(role, policy); err != nil {
				return err
			}
		}
	}
	return nil
}
