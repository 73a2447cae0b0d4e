package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitecms/internal/model"
)

// NotificationService 站内通知，当前实现写入结构化日志
type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, message string)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(logger *zap.Logger) NotificationService {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(_ context.Context, userID uuid.UUID, message string) {
	n.logger.Info("通知已发送",
		zap.String("user_id", userID.String()),
		zap.String("message", message),
	)
}

// ── 通知对象 ──

type notifyUserKey struct{}

// WithNotifyUser 为本次写入附加通知对象，写入成功后向该用户发送变更通知
func WithNotifyUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, notifyUserKey{}, userID)
}

func notifyUserFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(notifyUserKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// ── 阶段进度变更通知 ──

// scheduleStatusService 在阶段进度创建/更新成功后，按 ctx 中的通知对象同步发送通知
type scheduleStatusService struct {
	EntityService[model.ScheduleStatus]
	notifier NotificationService
}

// NewNotifyingScheduleStatusService 为阶段进度服务附加变更通知
func NewNotifyingScheduleStatusService(inner EntityService[model.ScheduleStatus], notifier NotificationService) EntityService[model.ScheduleStatus] {
	return &scheduleStatusService{EntityService: inner, notifier: notifier}
}

func (s *scheduleStatusService) Create(ctx context.Context, v model.ScheduleStatus) (model.ScheduleStatus, error) {
	out, err := s.EntityService.Create(ctx, v)
	if err == nil {
		s.notify(ctx, out)
	}
	return out, err
}

func (s *scheduleStatusService) Update(ctx context.Context, id uuid.UUID, v model.ScheduleStatus) (model.ScheduleStatus, error) {
	out, err := s.EntityService.Update(ctx, id, v)
	if err == nil {
		s.notify(ctx, out)
	}
	return out, err
}

func (s *scheduleStatusService) notify(ctx context.Context, v model.ScheduleStatus) {
	userID, ok := notifyUserFrom(ctx)
	if !ok {
		return
	}
	s.notifier.Notify(ctx, userID, statusMessage(v))
}

func statusMessage(v model.ScheduleStatus) string {
	return fmt.Sprintf("Schedule status updated for project %s: %s is %s", v.ProjectID, v.Phase, v.Status)
}
