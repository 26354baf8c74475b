package authz

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// ErrUnavailable 授权服务未初始化
var ErrUnavailable = errors.New("authz service unavailable")

const (
	apiPrefix   = "/api/v1"
	ruleTable   = "casbin_rule"
	rolePrefix  = "role:"
	userPrefix  = "user:"
	roleCatalog = "role:__catalog__" // 所有角色都挂在该节点下，便于枚举
)

// 请求主体可以是用户也可以是角色；对象路径按 keyMatch2 匹配 gin 路由参数
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy 单条放行规则
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 后台接口的 RBAC 判定，规则存放在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 加载模型与已持久化的规则
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz: nil db")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", ruleTable)
	if err != nil {
		return nil, fmt.Errorf("authz adapter: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz load policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// Enforce 判定主体能否对路径执行动作
func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(strings.TrimSpace(sub), NormalizeObject(obj), NormalizeAction(act))
}

// EnforceUser 以用户主体判定
func (s *Service) EnforceUser(userID uint, obj, act string) (bool, error) {
	return s.Enforce(SubjectForUser(userID), obj, act)
}

// EnsureRole 注册角色并返回带前缀的规范名
func (s *Service) EnsureRole(role string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	name, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if name == roleCatalog {
		return "", fmt.Errorf("role %q is reserved", role)
	}
	if err := s.link(name, roleCatalog); err != nil {
		return "", err
	}
	return name, nil
}

// link 添加一条 g 关系，已存在时不报错
func (s *Service) link(child, parent string) error {
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", child, parent); err != nil {
		return fmt.Errorf("authz link %s -> %s: %w", child, parent, err)
	}
	return nil
}

// grant 为角色添加一条规则
func (s *Service) grant(role string, p Policy) error {
	action := NormalizeAction(p.Action)
	if action == "" {
		return fmt.Errorf("authz: empty action for %s", p.Object)
	}
	if _, err := s.enforcer.AddPolicy(role, NormalizeObject(p.Object), action); err != nil {
		return fmt.Errorf("authz grant %s %s: %w", action, p.Object, err)
	}
	return nil
}

// ListRoles 已注册的全部角色，按名称排序
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 1, roleCatalog)
	if err != nil {
		return nil, err
	}
	var roles []string
	for _, rule := range rules {
		if len(rule) > 0 && strings.HasPrefix(rule[0], rolePrefix) {
			roles = append(roles, rule[0])
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// SetUserRoles 用给定角色替换用户现有角色，传空即撤销后台权限
func (s *Service) SetUserRoles(userID uint, roles []string) error {
	if userID == 0 {
		return errors.New("authz: user id is required")
	}
	if err := s.ready(); err != nil {
		return err
	}
	subject := SubjectForUser(userID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("authz clear roles of %s: %w", subject, err)
	}
	for _, role := range roles {
		name, err := s.EnsureRole(role)
		if err != nil {
			return err
		}
		if err := s.link(subject, name); err != nil {
			return err
		}
	}
	return nil
}

// GetUserRoles 用户直接与继承得到的全部角色
func (s *Service) GetUserRoles(userID uint) ([]string, error) {
	if userID == 0 {
		return nil, errors.New("authz: user id is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	implicit, err := s.enforcer.GetImplicitRolesForUser(SubjectForUser(userID))
	if err != nil {
		return nil, err
	}
	roles := implicit[:0]
	for _, role := range implicit {
		if role != roleCatalog && strings.HasPrefix(role, rolePrefix) {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// SubjectForUser 用户主体名，如 user:7
func SubjectForUser(userID uint) string {
	return userPrefix + strconv.FormatUint(uint64(userID), 10)
}

// NormalizeRole 补齐 role: 前缀，空白替换为下划线
func NormalizeRole(role string) (string, error) {
	name := strings.Join(strings.Fields(role), "_")
	name = strings.TrimPrefix(name, rolePrefix)
	if name == "" {
		return "", errors.New("authz: role is required")
	}
	return rolePrefix + name, nil
}

// NormalizeObject 规则里的路径不带 /api/v1 前缀
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == apiPrefix {
		return "/"
	}
	if rest, ok := strings.CutPrefix(path, apiPrefix+"/"); ok {
		return "/" + rest
	}
	return path
}

// NormalizeAction HTTP 方法统一大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
