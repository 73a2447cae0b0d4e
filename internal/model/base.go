package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	pkgerrors "sitecms/pkg/errors"
)

// DateLayout 日期统一以 ISO-8601 日历日期持久化
const DateLayout = "2006-01-02"

// ── 日历日期类型 ──

// Date 不含时刻与时区的日历日期，实现 GORM Scanner/Valuer、文本与 CSV 编解码接口。
// 字段均为可比较类型，实体值可直接用 == 判等。
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate 构造日期，越界的月、日按 time.Date 规则归一化
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf 取 t 在其自身时区下的日历日期
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate 解析 YYYY-MM-DD 文本
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: 日期格式非法 %q", pkgerrors.ErrValidation, s)
	}
	return DateOf(t), nil
}

// IsZero 是否为零值日期
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time 返回当天 UTC 零点
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// Before 是否早于 o
func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

// After 是否晚于 o
func (d Date) After(o Date) bool { return d.Time().After(o.Time()) }

// MarshalText JSON 与查询参数中以 YYYY-MM-DD 呈现
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText 解析 YYYY-MM-DD，空文本对应零值日期
func (d *Date) UnmarshalText(b []byte) error {
	if strings.TrimSpace(string(b)) == "" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalCSV 平面文件编码
func (d Date) MarshalCSV() (string, error) {
	return d.String(), nil
}

// UnmarshalCSV 平面文件解码
func (d *Date) UnmarshalCSV(s string) error {
	return d.UnmarshalText([]byte(s))
}

// Scan 兼容 PostgreSQL date（time.Time）与 SQLite 文本两种返回形态
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("%w: Date.Scan 不支持的类型 %T", pkgerrors.ErrValidation, src)
	}
}

func (d *Date) scanText(s string) error {
	// 兼容驱动返回的带时刻文本，只取日期部分
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return d.UnmarshalText([]byte(s))
}

// Value 以 YYYY-MM-DD 文本写入
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}
