package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sitecms/internal/model"
	pkgerrors "sitecms/pkg/errors"
)

// UserLookup 只读用户查询能力，工时报告仓储在构造时注入同一后端的用户仓储
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
}

// AuthorizeTimeReport 校验 userID 对应的用户当前角色为工长。
// 用户不存在与角色不符均返回 ErrPermissionDenied，其余查询错误原样返回。
func AuthorizeTimeReport(ctx context.Context, users UserLookup, userID uuid.UUID) error {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return fmt.Errorf("%w: 用户 %s 不存在，仅工长可提交工时报告", pkgerrors.ErrPermissionDenied, userID)
		}
		return err
	}
	if user.Role != model.RoleForeman {
		return fmt.Errorf("%w: 用户 %s 角色为 %s，仅工长可提交工时报告", pkgerrors.ErrPermissionDenied, userID, user.Role)
	}
	return nil
}

// NotFound 构造统一的记录不存在错误
func NotFound(entity string, id uuid.UUID) error {
	return fmt.Errorf("%w: %s %s", pkgerrors.ErrNotFound, entity, id)
}
