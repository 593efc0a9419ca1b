package service

import (
	"context"

	"go.uber.org/zap"

	"gestion-formacion/backend/internal/repository"
)

// runInTx 在同一事务中执行 fn，fn 返回错误或 panic 时回滚
func runInTx(ctx context.Context, repo *repository.Repository, logger *zap.Logger, fn func(txRepo *repository.Repository) error) error {
	if repo.Tx == nil {
		logger.Error("未配置事务执行器")
		return repository.ErrNoDB
	}
	return repo.Tx.InTx(ctx, fn)
}
