/*
 * @Description: 定时输出搜索历史统计
 * @Author: 安知鱼
 * @Date: 2026-09-12 17:40:51
 * @LastEditTime: 2026-10-13 11:02:19
 * @LastEditors: 安知鱼
 */
package task

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
	"github.com/ghibli-db/ghibli-app/pkg/service/search"
	"github.com/ghibli-db/ghibli-app/pkg/service/utility"
)

// HistoryReport 一次统计的结果
type HistoryReport struct {
	Stats         *model.SearchStats
	ClientHistory int
}

// HistoryStatsReportJob 汇总全站搜索历史，并统计当前有多少访客历史
type HistoryStatsReportJob struct {
	history *search.HistoryStore
	cache   utility.CacheService
}

// NewHistoryStatsReportJob 是任务的构造函数
func NewHistoryStatsReportJob(history *search.HistoryStore, cache utility.CacheService) *HistoryStatsReportJob {
	return &HistoryStatsReportJob{history: history, cache: cache}
}

// Report 计算统计结果；历史数据损坏时仍返回空统计
func (j *HistoryStatsReportJob) Report(ctx context.Context) (*HistoryReport, error) {
	stats, err := j.history.GetSearchStats(ctx)
	if err != nil && !errors.Is(err, search.ErrHistoryCorrupted) {
		return nil, err
	}

	keys, err := j.cache.Scan(ctx, j.history.Key()+":*")
	if err != nil {
		return nil, err
	}
	return &HistoryReport{Stats: stats, ClientHistory: len(keys)}, nil
}

// Run 是 Job 接口要求实现的方法
func (j *HistoryStatsReportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := j.Report(ctx)
	if err != nil {
		log.Printf("任务 '%s' 在执行业务逻辑时捕获到错误: %v", j.Name(), err)
		return
	}

	top := "-"
	if len(report.Stats.TopCategories) > 0 {
		top = report.Stats.TopCategories[0].Category
	}
	log.Printf("任务 '%s'：共 %d 次搜索，%d 个不同查询词，日均 %.2f 次，最常用分类 %s，访客历史 %d 份。",
		j.Name(), report.Stats.TotalSearches, report.Stats.UniqueQueries,
		report.Stats.AverageSearchesPerDay, top, report.ClientHistory)
}

// Name 方法让日志包装器可以打印出更有意义的任务名
func (j *HistoryStatsReportJob) Name() string {
	return "HistoryStatsReportJob"
}
