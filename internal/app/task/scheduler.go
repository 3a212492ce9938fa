/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2026-09-12 16:09:46
 * @LastEditTime: 2026-10-13 18:20:00
 * @LastEditors: 安知鱼
 */
package task

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"
)

const (
	// 每分钟第 0 秒
	cachePurgeSchedule = "0 * * * * *"
	// 每小时第 5 分钟
	historyReportSchedule = "0 5 * * * *"
)

// Scheduler 封装了 cron 实例和其依赖，负责任务的注册、启动和停止。
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	jobs   []scheduledJob
}

type scheduledJob struct {
	spec, desc string
	job        Job
}

// NewScheduler 是 Scheduler 的构造函数。
func NewScheduler(purgeJob *PurgeExpiredCacheJob, reportJob *HistoryStatsReportJob) *Scheduler {
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogHandler).With("system", "cron")

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		),
	)

	s := &Scheduler{cron: c, logger: logger}
	if purgeJob != nil {
		s.jobs = append(s.jobs, scheduledJob{cachePurgeSchedule, "every minute", purgeJob})
	}
	if reportJob != nil {
		s.jobs = append(s.jobs, scheduledJob{historyReportSchedule, "every hour at minute 5", reportJob})
	}
	return s
}

// RegisterJobs 在调度器中注册所有定时任务。
func (s *Scheduler) RegisterJobs() error {
	s.logger.Info("Registering all periodic jobs...")

	for _, j := range s.jobs {
		if _, err := s.cron.AddJob(j.spec, j.job); err != nil {
			s.logger.Error("Failed to add job", slog.String("job_name", j.job.Name()), slog.Any("error", err))
			return fmt.Errorf("注册任务 %s 失败: %w", j.job.Name(), err)
		}
		s.logger.Info("-> Successfully registered '"+j.job.Name()+"'", "schedule", j.desc)
	}

	s.logger.Info("All periodic jobs registered.", "count", len(s.cron.Entries()))
	return nil
}

// Start 启动 cron 调度器。
func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop 优雅地停止 cron 调度器。
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler gracefully stopped.")
}
