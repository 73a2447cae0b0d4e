package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "sitecms/pkg/errors"
	"sitecms/pkg/response"
)

// ── 业务错误码 ──
//
//	10001 请求参数绑定失败    10002 数据校验失败
//	20001 记录不存在          30001 无权执行
//	40901 数据冲突            50000 服务器内部错误
const (
	codeBindFailed       = 10001
	codeValidation       = 10002
	codeNotFound         = 20001
	codePermissionDenied = 30001
	codeConflict         = 40901
)

// handleError 按仓储层分类错误映射 HTTP 状态码，未分类错误一律 500
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.ErrorWithDetails(c, http.StatusNotFound, codeNotFound, "记录不存在", err.Error())
	case errors.Is(err, pkgerrors.ErrPermissionDenied):
		response.ErrorWithDetails(c, http.StatusForbidden, codePermissionDenied, "无权执行该操作", err.Error())
	case errors.Is(err, pkgerrors.ErrValidation):
		response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, "数据校验失败", err.Error())
	case errors.Is(err, pkgerrors.ErrConflict):
		response.ErrorWithDetails(c, http.StatusConflict, codeConflict, "数据冲突", err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// handleBindError 请求体过大返回 413，其余绑定失败返回 400
func handleBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.PayloadTooLarge(c)
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, codeBindFailed, "参数校验失败", err.Error())
}
