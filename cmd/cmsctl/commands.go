package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sitecms/config"
	"sitecms/internal/dto"
	"sitecms/pkg/database"
)

// ── migrate ──

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行关系型数据库迁移",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := a.cfg.Storage.Kind()
			if err != nil {
				return err
			}
			if kind != config.BackendRelational {
				fmt.Fprintf(a.out, "当前存储后端为 %s，无需迁移\n", kind)
				return nil
			}

			db, err := database.NewDB(&a.cfg.Database, a.logger)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
			}
			defer sqlDB.Close()

			if err := database.RunMigrations(sqlDB, a.cfg.Database.Driver, a.logger); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "迁移完成（driver=%s）\n", a.cfg.Database.Driver)
			return nil
		},
	}
}

// ── import ──

func newImportCmd(a *app, v *viper.Viper) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "从 CSV 目录批量导入数据（已存在的标识跳过）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			resp, err := a.svc.Import.Import(a.context(cmd), from)
			if err != nil {
				return err
			}
			if v.GetBool("json") {
				return printJSON(a.out, resp)
			}
			renderImport(a, resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "CSV 源目录")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func renderImport(a *app, resp *dto.ImportResponse) {
	tw := table.NewWriter()
	tw.SetOutputMirror(a.out)
	tw.AppendHeader(table.Row{"Entity", "File", "Total", "Created", "Skipped", "Failed"})
	for _, r := range resp.Entities {
		if r.Missing {
			tw.AppendRow(table.Row{r.Entity, r.File, "-", "-", "-", "-"})
			continue
		}
		tw.AppendRow(table.Row{r.Entity, r.File, r.Total, r.Created, r.Skipped, r.Failed})
	}
	created, skipped, failed := resp.Totals()
	tw.AppendFooter(table.Row{"", "total", "", created, skipped, failed})
	tw.Render()

	for _, r := range resp.Entities {
		for _, e := range r.Errors {
			fmt.Fprintf(a.out, "%s 第 %d 行: %s\n", r.File, e.Row, e.Reason)
		}
	}
}

// ── progress ──

func newProgressCmd(a *app, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "progress PROJECT_ID",
		Short: "查看项目进度",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := dto.ParseID("project_id", args[0])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			resp, err := a.svc.Report.ProjectProgress(a.context(cmd), projectID)
			if err != nil {
				return err
			}
			if v.GetBool("json") {
				return printJSON(a.out, resp)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(a.out)
			tw.AppendHeader(table.Row{"Project", "Name", "Phases", "Completed", "Progress", "Activities"})
			tw.AppendRow(table.Row{
				resp.ProjectID, resp.ProjectName, resp.TotalPhases, resp.CompletedPhases,
				fmt.Sprintf("%.1f%%", resp.ProgressPercentage), resp.ActivityCount,
			})
			tw.Render()
			return nil
		},
	}
}

// ── performance ──

func newPerformanceCmd(a *app, v *viper.Viper) *cobra.Command {
	var req dto.PerformanceReportRequest
	cmd := &cobra.Command{
		Use:   "performance",
		Short: "查看班组在日期区间内的绩效汇总",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			crewID, start, end, err := req.Parse()
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			resp, err := a.svc.Report.PerformanceReport(a.context(cmd), crewID, start, end)
			if err != nil {
				return err
			}
			if v.GetBool("json") {
				return printJSON(a.out, resp)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(a.out)
			tw.AppendHeader(table.Row{"Crew", "From", "To", "Metrics", "Avg Productivity", "Tasks", "Hours"})
			tw.AppendRow(table.Row{
				resp.CrewID, resp.StartDate, resp.EndDate, resp.MetricCount,
				fmt.Sprintf("%.2f", resp.AvgProductivity), resp.TotalTasksCompleted, resp.TotalHoursWorked,
			})
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&req.CrewID, "crew", "", "班组 ID")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "起始日期 YYYY-MM-DD（含）")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "结束日期 YYYY-MM-DD（含）")
	for _, name := range []string{"crew", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
