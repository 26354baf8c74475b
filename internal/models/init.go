package models

import (
	"strings"

	"github.com/nilecart/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const defaultStaffPassword = "staff12345"

// InitDefaultStaff 初始化默认后台账号，已存在后台账号时跳过
func InitDefaultStaff(email, password string) (*User, error) {
	var count int64
	if err := DB.Model(&User{}).Where("is_staff = ?", true).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "staff@nilecart.local"
	}
	if password == "" {
		password = defaultStaffPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	staff := User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Staff",
		IsStaff:      true,
		Status:       "active",
	}
	if err := DB.Create(&staff).Error; err != nil {
		return nil, err
	}

	if password == defaultStaffPassword {
		logger.Warnw("default_staff_created_with_default_password", "email", email)
	} else {
		logger.Warnw("default_staff_created", "email", email, "password_hidden", true)
	}
	return &staff, nil
}
