package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitecms/internal/dto"
	"sitecms/internal/service"
	"sitecms/pkg/response"
)

// modelRequest 可转换为实体的写入请求，由 *R 实现
type modelRequest[T any, R any] interface {
	*R
	ToModel(defaultID uuid.UUID) (T, error)
}

// notifyRequest 携带变更通知对象的写入请求
type notifyRequest interface {
	NotifyUserID() (uuid.UUID, error)
}

// writeContext 请求带有通知对象时附加到 ctx
func writeContext(c *gin.Context, req any) (context.Context, error) {
	ctx := c.Request.Context()
	n, ok := req.(notifyRequest)
	if !ok {
		return ctx, nil
	}
	userID, err := n.NotifyUserID()
	if err != nil || userID == uuid.Nil {
		return ctx, err
	}
	return service.WithNotifyUser(ctx, userID), nil
}

// EntityHandler 单个实体的增删改查 HTTP 处理器
//
//	POST   /xxx        创建，请求未带标识时生成新标识
//	GET    /xxx        列表，parentParam 非空时支持按上级过滤
//	GET    /xxx/:id    详情
//	PUT    /xxx/:id    整体替换，请求未带标识时沿用路径标识
//	DELETE /xxx/:id    删除
type EntityHandler[T any, R any, PR modelRequest[T, R]] struct {
	svc         service.EntityService[T]
	parentParam string
}

// NewEntityHandler 创建 EntityHandler，parentParam 为列表过滤的查询参数名，顶层实体传空
func NewEntityHandler[T any, R any, PR modelRequest[T, R]](svc service.EntityService[T], parentParam string) *EntityHandler[T, R, PR] {
	return &EntityHandler[T, R, PR]{svc: svc, parentParam: parentParam}
}

// Create 创建
func (h *EntityHandler[T, R, PR]) Create(c *gin.Context) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	v, err := PR(&req).ToModel(uuid.New())
	if err != nil {
		handleError(c, err)
		return
	}
	ctx, err := writeContext(c, PR(&req))
	if err != nil {
		handleError(c, err)
		return
	}

	out, err := h.svc.Create(ctx, v)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, out)
}

// Get 详情
func (h *EntityHandler[T, R, PR]) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	out, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, out)
}

// Update 整体替换
func (h *EntityHandler[T, R, PR]) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	v, err := PR(&req).ToModel(id)
	if err != nil {
		handleError(c, err)
		return
	}
	ctx, err := writeContext(c, PR(&req))
	if err != nil {
		handleError(c, err)
		return
	}

	out, err := h.svc.Update(ctx, id, v)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, out)
}

// Delete 删除
func (h *EntityHandler[T, R, PR]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// List 列表
func (h *EntityHandler[T, R, PR]) List(c *gin.Context) {
	parentID := uuid.Nil
	if h.parentParam != "" {
		if raw := c.Query(h.parentParam); raw != "" {
			id, err := dto.ParseID(h.parentParam, raw)
			if err != nil {
				handleError(c, err)
				return
			}
			parentID = id
		}
	}

	list, err := h.svc.List(c.Request.Context(), parentID)
	if err != nil {
		handleError(c, err)
		return
	}
	if list == nil {
		list = make([]T, 0)
	}
	response.OK(c, list)
}

// Register 在 group 上注册五个标准路由
func (h *EntityHandler[T, R, PR]) Register(group *gin.RouterGroup) {
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// pathID 解析路径中的 :id，失败时已写入 400 响应
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		handleError(c, err)
		return uuid.Nil, false
	}
	return id, true
}
