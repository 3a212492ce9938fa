/*
 * @Description: cron 任务的日志与 panic 恢复装饰器
 * @Author: 安知鱼
 * @Date: 2026-09-12 22:36:09
 * @LastEditTime: 2026-10-13 00:32:02
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"log/slog"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// NewLoggingWrapper 记录每次任务执行的开始和结束，附带唯一的执行ID。
// 高频任务（如每分钟的缓存清理）只在 Debug 级别输出。
func NewLoggingWrapper(logger *slog.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		jobName := getJobName(j)
		level := slog.LevelInfo
		if q, ok := j.(interface{ Quiet() bool }); ok && q.Quiet() {
			level = slog.LevelDebug
		}

		return cron.FuncJob(func() {
			jobLogger := logger.With(
				slog.String("job_name", jobName),
				slog.String("execution_id", uuid.New().String()),
			)

			startTime := time.Now()
			jobLogger.Log(context.Background(), level, "Job execution started")
			j.Run()
			jobLogger.Log(context.Background(), level, "Job execution finished", slog.Duration("duration", time.Since(startTime)))
		})
	}
}

// NewPanicRecoveryWrapper 捕获任务中的 panic 并记录堆栈，不影响其他任务。
func NewPanicRecoveryWrapper(logger *slog.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Job panicked",
						slog.String("job_name", getJobName(j)),
						slog.Any("panic", r),
						slog.String("stack_trace", string(debug.Stack())),
					)
				}
			}()

			j.Run()
		})
	}
}

// getJobName 优先使用任务的 Name()，否则取其类型名
func getJobName(j cron.Job) string {
	if namedJob, ok := j.(interface{ Name() string }); ok {
		return namedJob.Name()
	}

	jobType := reflect.TypeOf(j)
	if jobType.Kind() == reflect.Ptr {
		return jobType.Elem().String()
	}
	return jobType.String()
}
