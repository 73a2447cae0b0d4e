package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	pkgerrors "sitecms/pkg/errors"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// ── 存储后端 ──

// BackendKind 存储后端类型，进程启动时确定一次
type BackendKind string

const (
	BackendRelational BackendKind = "relational"
	BackendFlatFile   BackendKind = "flatfile"
	BackendMemory     BackendKind = "memory"
)

// ParseBackendKind 解析后端名称，接受 sql / csv / mem 等别名，大小写不敏感
func ParseBackendKind(s string) (BackendKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relational", "sql", "database", "db":
		return BackendRelational, nil
	case "flatfile", "flat-file", "csv", "file":
		return BackendFlatFile, nil
	case "memory", "mem", "inmemory", "in-memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("%w: 未知的存储后端 %q（可选 relational / flatfile / memory）", pkgerrors.ErrConfiguration, s)
	}
}

// StorageConfig 存储后端选择
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data_dir"` // 平面文件目录
}

// Kind 返回已解析的后端类型
func (c *StorageConfig) Kind() (BackendKind, error) {
	return ParseBackendKind(c.Backend)
}

// DatabaseConfig 关系型数据库配置（PostgreSQL 或 SQLite）
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres | sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	Path            string `mapstructure:"path"` // SQLite 数据库文件
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
	LogSQL          bool   `mapstructure:"log_sql"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DSN 生成连接字符串
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000", c.Path)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// LifetimeDuration 连接最大生命周期
func (c *DatabaseConfig) LifetimeDuration() time.Duration {
	return time.Duration(c.ConnMaxLifetime) * time.Minute
}

// IdleTimeDuration 空闲连接最大存活时间
func (c *DatabaseConfig) IdleTimeDuration() time.Duration {
	return time.Duration(c.ConnMaxIdleTime) * time.Minute
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.backend", string(BackendRelational))
	v.SetDefault("storage.data_dir", "data")

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "sitecms")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.path", filepath.Join("data", "sitecms.db"))
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_sql", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("CMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%w: 读取配置文件失败: %v", pkgerrors.ErrConfiguration, err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: 解析配置失败: %v", pkgerrors.ErrConfiguration, err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项，任何一项失败均返回 ErrConfiguration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port 必须在 1-65535 之间", pkgerrors.ErrConfiguration)
	}

	kind, err := c.Storage.Kind()
	if err != nil {
		return err
	}

	switch kind {
	case BackendFlatFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("%w: storage.data_dir 不能为空", pkgerrors.ErrConfiguration)
		}
	case BackendRelational:
		switch c.Database.Driver {
		case DriverPostgres:
			if c.Database.Host == "" || c.Database.Name == "" {
				return fmt.Errorf("%w: db.host 与 db.name 不能为空", pkgerrors.ErrConfiguration)
			}
		case DriverSQLite:
			if c.Database.Path == "" {
				return fmt.Errorf("%w: db.path 不能为空", pkgerrors.ErrConfiguration)
			}
		default:
			return fmt.Errorf("%w: 未知的数据库驱动 %q（可选 postgres / sqlite）", pkgerrors.ErrConfiguration, c.Database.Driver)
		}
	}
	return nil
}
