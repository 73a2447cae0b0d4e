package model

import (
	"database/sql/driver"
	"fmt"

	pkgerrors "sitecms/pkg/errors"
)

// ── 用户角色 ──

// Role 用户角色
type Role string

const (
	RoleForeman             Role = "Foreman"
	RoleGeneralForeman      Role = "GeneralForeman"
	RoleSuperintendent      Role = "Superintendent"
	RoleWorkplacePlanner    Role = "WorkplacePlanner"
	RoleMaterialPlanner     Role = "MaterialPlanner"
	RoleConstructionManager Role = "ConstructionManager"
)

// Roles 全部合法角色
var Roles = []Role{
	RoleForeman,
	RoleGeneralForeman,
	RoleSuperintendent,
	RoleWorkplacePlanner,
	RoleMaterialPlanner,
	RoleConstructionManager,
}

// ParseRole 解析角色文本
func ParseRole(s string) (Role, error) { return parseEnum("role", s, Roles) }

func (r Role) Valid() bool { return contains(Roles, r) }

func (r *Role) UnmarshalText(b []byte) error { return unmarshalEnum(r, "role", string(b), Roles) }

func (r Role) MarshalCSV() (string, error) { return marshalEnum("role", r, Roles) }

func (r *Role) UnmarshalCSV(s string) error { return r.UnmarshalText([]byte(s)) }

func (r *Role) Scan(src interface{}) error { return scanEnum(r, "role", src, Roles) }

func (r Role) Value() (driver.Value, error) { return valueEnum("role", r, Roles) }

// ── 货运状态 ──

// ShipmentStatus 货运在途状态
type ShipmentStatus string

const (
	ShipmentInTransit ShipmentStatus = "InTransit"
	ShipmentAtPort    ShipmentStatus = "AtPort"
	ShipmentCustoms   ShipmentStatus = "Customs"
	ShipmentLaydown   ShipmentStatus = "Laydown"
	ShipmentAvailable ShipmentStatus = "Available"
)

// ShipmentStatuses 全部合法货运状态
var ShipmentStatuses = []ShipmentStatus{
	ShipmentInTransit,
	ShipmentAtPort,
	ShipmentCustoms,
	ShipmentLaydown,
	ShipmentAvailable,
}

// ParseShipmentStatus 解析货运状态文本
func ParseShipmentStatus(s string) (ShipmentStatus, error) {
	return parseEnum("shipment status", s, ShipmentStatuses)
}

func (s ShipmentStatus) Valid() bool { return contains(ShipmentStatuses, s) }

func (s *ShipmentStatus) UnmarshalText(b []byte) error {
	return unmarshalEnum(s, "shipment status", string(b), ShipmentStatuses)
}

func (s ShipmentStatus) MarshalCSV() (string, error) {
	return marshalEnum("shipment status", s, ShipmentStatuses)
}

func (s *ShipmentStatus) UnmarshalCSV(v string) error { return s.UnmarshalText([]byte(v)) }

func (s *ShipmentStatus) Scan(src interface{}) error {
	return scanEnum(s, "shipment status", src, ShipmentStatuses)
}

func (s ShipmentStatus) Value() (driver.Value, error) {
	return valueEnum("shipment status", s, ShipmentStatuses)
}

// ── 进度状态 ──

// ScheduleState 阶段进度相对计划的状态
type ScheduleState string

const (
	ScheduleAhead      ScheduleState = "Ahead"
	ScheduleOnSchedule ScheduleState = "OnSchedule"
	ScheduleBehind     ScheduleState = "Behind"
)

// ScheduleStates 全部合法进度状态
var ScheduleStates = []ScheduleState{ScheduleAhead, ScheduleOnSchedule, ScheduleBehind}

// ParseScheduleState 解析进度状态文本
func ParseScheduleState(s string) (ScheduleState, error) {
	return parseEnum("schedule state", s, ScheduleStates)
}

func (s ScheduleState) Valid() bool { return contains(ScheduleStates, s) }

func (s *ScheduleState) UnmarshalText(b []byte) error {
	return unmarshalEnum(s, "schedule state", string(b), ScheduleStates)
}

func (s ScheduleState) MarshalCSV() (string, error) {
	return marshalEnum("schedule state", s, ScheduleStates)
}

func (s *ScheduleState) UnmarshalCSV(v string) error { return s.UnmarshalText([]byte(v)) }

func (s *ScheduleState) Scan(src interface{}) error {
	return scanEnum(s, "schedule state", src, ScheduleStates)
}

func (s ScheduleState) Value() (driver.Value, error) {
	return valueEnum("schedule state", s, ScheduleStates)
}

// ── 枚举通用辅助 ──

func contains[T ~string](allowed []T, v T) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

func parseEnum[T ~string](kind, s string, allowed []T) (T, error) {
	v := T(s)
	if !contains(allowed, v) {
		var zero T
		return zero, fmt.Errorf("%w: 非法的 %s %q", pkgerrors.ErrValidation, kind, s)
	}
	return v, nil
}

func unmarshalEnum[T ~string](dst *T, kind, s string, allowed []T) error {
	v, err := parseEnum(kind, s, allowed)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func scanEnum[T ~string](dst *T, kind string, src interface{}, allowed []T) error {
	switch v := src.(type) {
	case string:
		return unmarshalEnum(dst, kind, v, allowed)
	case []byte:
		return unmarshalEnum(dst, kind, string(v), allowed)
	default:
		return fmt.Errorf("%w: %s 不支持的列类型 %T", pkgerrors.ErrValidation, kind, src)
	}
}

func marshalEnum[T ~string](kind string, v T, allowed []T) (string, error) {
	if !contains(allowed, v) {
		return "", fmt.Errorf("%w: 非法的 %s %q", pkgerrors.ErrValidation, kind, string(v))
	}
	return string(v), nil
}

func valueEnum[T ~string](kind string, v T, allowed []T) (driver.Value, error) {
	s, err := marshalEnum(kind, v, allowed)
	if err != nil {
		return nil, err
	}
	return s, nil
}
