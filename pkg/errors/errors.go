package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ── 持久层通用错误 ──

var (
	// ErrDuplicateKey 唯一约束冲突
	ErrDuplicateKey = errors.New("registro duplicado")
	// ErrForeignKey 外键约束冲突：引用的记录不存在或仍被引用
	ErrForeignKey = errors.New("referencia inválida")
)

// PostgreSQL SQLSTATE
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Translate 将 PostgreSQL 约束错误转换为通用错误，其余错误原样返回
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return ErrDuplicateKey
	case codeForeignKeyViolation:
		return ErrForeignKey
	default:
		return err
	}
}

// IsDuplicateKey 判断是否为唯一约束冲突
func IsDuplicateKey(err error) bool {
	return errors.Is(Translate(err), ErrDuplicateKey)
}
