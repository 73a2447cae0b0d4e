// Package storage 根据配置选择仓储后端，并按请求提供仓储集合。
package storage

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sitecms/config"
	"sitecms/internal/repository"
	"sitecms/internal/repository/flatfile"
	"sitecms/internal/repository/memory"
	"sitecms/internal/repository/relational"
	"sitecms/pkg/database"
)

// Provider 按请求提供仓储集合
//
// WithRepositories 在 fn 执行期间持有后端资源，fn 返回后（无论成功失败）立即释放：
//   - relational: 从连接池固定一条连接，fn 内的全部操作共用该连接
//   - flatfile:   每次新建只持有文件路径的仓储
//   - memory:     返回进程内共享的同一实例
type Provider interface {
	Kind() config.BackendKind
	WithRepositories(ctx context.Context, fn func(repo *repository.Repository) error) error
	Close() error
}

// Open 按配置创建 Provider，后端类型非法时返回 ErrConfiguration
func Open(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	kind, err := cfg.Storage.Kind()
	if err != nil {
		return nil, err
	}

	switch kind {
	case config.BackendRelational:
		db, err := database.NewDB(&cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
			}
			if err := database.RunMigrations(sqlDB, cfg.Database.Driver, logger); err != nil {
				_ = sqlDB.Close()
				return nil, err
			}
		}
		logger.Info("存储后端就绪", zap.String("backend", string(kind)), zap.String("driver", cfg.Database.Driver))
		return NewRelational(db), nil

	case config.BackendFlatFile:
		fs := afero.NewOsFs()
		if err := fs.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录 %s 失败: %w", cfg.Storage.DataDir, err)
		}
		logger.Info("存储后端就绪", zap.String("backend", string(kind)), zap.String("data_dir", cfg.Storage.DataDir))
		return NewFlatFile(fs, cfg.Storage.DataDir), nil

	default:
		logger.Warn("使用内存存储后端，进程退出后数据丢失")
		return NewMemory(), nil
	}
}

// ── relational ──

type relationalProvider struct {
	db *gorm.DB
}

// NewRelational 基于已打开的数据库创建 Provider
func NewRelational(db *gorm.DB) Provider {
	return &relationalProvider{db: db}
}

func (p *relationalProvider) Kind() config.BackendKind { return config.BackendRelational }

func (p *relationalProvider) WithRepositories(ctx context.Context, fn func(*repository.Repository) error) error {
	return p.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return fn(relational.New(conn))
	})
}

func (p *relationalProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ── flatfile ──

type flatFileProvider struct {
	fs  afero.Fs
	dir string
}

// NewFlatFile 基于文件系统与数据目录创建 Provider
func NewFlatFile(fs afero.Fs, dir string) Provider {
	return &flatFileProvider{fs: fs, dir: dir}
}

func (p *flatFileProvider) Kind() config.BackendKind { return config.BackendFlatFile }

func (p *flatFileProvider) WithRepositories(_ context.Context, fn func(*repository.Repository) error) error {
	return fn(flatfile.New(p.fs, p.dir))
}

func (p *flatFileProvider) Close() error { return nil }

// ── memory ──

type memoryProvider struct {
	repo *repository.Repository
}

// NewMemory 创建空的进程内 Provider
func NewMemory() Provider {
	return &memoryProvider{repo: memory.New()}
}

func (p *memoryProvider) Kind() config.BackendKind { return config.BackendMemory }

func (p *memoryProvider) WithRepositories(_ context.Context, fn func(*repository.Repository) error) error {
	return fn(p.repo)
}

func (p *memoryProvider) Close() error { return nil }
