package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey 唯一约束冲突（如邮箱重复）
var ErrDuplicateKey = errors.New("记录已存在")

// uniqueViolation PostgreSQL unique_violation 错误码
const uniqueViolation = "23505"

// IsUniqueViolation 判断底层错误是否为唯一约束冲突
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// TranslateWriteError 将唯一约束冲突统一转换为 ErrDuplicateKey，其余错误原样返回
func TranslateWriteError(err error) error {
	if IsUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}
