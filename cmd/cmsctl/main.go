// cmsctl 施工管理系统运维命令行：迁移数据库、批量导入 CSV、查看项目进度与班组绩效。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"sitecms/config"
	"sitecms/internal/service"
	"sitecms/internal/storage"
	applogger "sitecms/pkg/logger"
)

// app 单次命令执行所需的依赖，在 PersistentPreRunE 中按配置组装
type app struct {
	out    io.Writer
	cfg    *config.Config
	logger *zap.Logger
	store  storage.Provider
	svc    *service.Service
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	v := viper.New()

	root := &cobra.Command{
		Use:           "cmsctl",
		Short:         "施工管理系统运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(v.GetString("config"))
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	root.PersistentFlags().Bool("json", false, "以 JSON 输出结果")
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	root.AddCommand(
		newMigrateCmd(a),
		newImportCmd(a, v),
		newProgressCmd(a, v),
		newPerformanceCmd(a, v),
	)
	return root
}

func (a *app) setup(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// open 按需打开存储后端，migrate 命令不经过这里
func (a *app) open() error {
	store, err := storage.Open(a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.store = store
	a.svc = service.NewService(store, a.logger)
	return nil
}

func (a *app) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
