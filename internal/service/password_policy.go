package service

import (
	"unicode"

	"github.com/nilecart/internal/config"
)

// PasswordPolicyError 密码不满足策略，Key 为 i18n 文案键
type PasswordPolicyError struct {
	Key  string
	Args []interface{}
}

func (e *PasswordPolicyError) Error() string { return "weak password: " + e.Key }

// Reason 原因码
func (e *PasswordPolicyError) Reason() string { return "weak_password" }

// Is 匹配 ErrWeakPassword
func (e *PasswordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

type passwordRule struct {
	enabled bool
	ok      func(classes passwordClasses) bool
	key     string
}

type passwordClasses struct {
	upper, lower, number, special bool
}

func classifyPassword(password string) passwordClasses {
	var c passwordClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.number = true
		default:
			c.special = true
		}
	}
	return c
}

// validatePassword 按配置校验密码，返回首个未满足的规则
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return &PasswordPolicyError{Key: "error.password_min_length", Args: []interface{}{policy.MinLength}}
	}
	classes := classifyPassword(password)
	rules := []passwordRule{
		{policy.RequireUpper, func(c passwordClasses) bool { return c.upper }, "error.password_require_upper"},
		{policy.RequireLower, func(c passwordClasses) bool { return c.lower }, "error.password_require_lower"},
		{policy.RequireNumber, func(c passwordClasses) bool { return c.number }, "error.password_require_number"},
		{policy.RequireSpecial, func(c passwordClasses) bool { return c.special }, "error.password_require_special"},
	}
	for _, rule := range rules {
		if rule.enabled && !rule.ok(classes) {
			return &PasswordPolicyError{Key: rule.key}
		}
	}
	return nil
}
