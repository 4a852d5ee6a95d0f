package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"project-hub/internal/model"
)

// ── 账号字段校验与密码哈希（认证、用户管理、批量导入共用）──

const minPasswordLength = 8

var (
	ErrInvalidEmail     = errors.New("邮箱格式不正确")
	ErrEmailExists      = errors.New("邮箱已被使用")
	ErrPasswordTooShort = errors.New("密码长度不能少于 8 位")
	ErrPasswordTooLong  = errors.New("密码长度不能超过 72 字节")
	ErrInvalidRole      = errors.New("角色无效")
	ErrNameRequired     = errors.New("姓名不能为空")
	ErrUserNotFound     = errors.New("用户不存在")
	ErrUserSelfDelete   = errors.New("不能删除自己")
	ErrUserSelfDemote   = errors.New("不能修改自己的角色")
)

var fieldValidate = validator.New()

// normalizeEmail 去除首尾空白，查找按精确匹配进行
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func validEmail(email string) bool {
	return fieldValidate.Var(email, "required,email") == nil
}

// checkPassword 校验密码长度（bcrypt 只处理前 72 字节）
func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}

func hashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkRole(role string) error {
	if !model.ValidRole(role) {
		return ErrInvalidRole
	}
	return nil
}
