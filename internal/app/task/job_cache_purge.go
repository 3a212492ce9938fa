/*
 * @Description: 定时清理搜索结果缓存中的过期条目
 * @Author: 安知鱼
 * @Date: 2026-09-12 15:23:10
 * @LastEditTime: 2026-10-02 12:29:31
 * @LastEditors: 安知鱼
 */
package task

import "log"

// CachePurger 由搜索服务实现
type CachePurger interface {
	PurgeExpiredCache() int
}

// PurgeExpiredCacheJob 负责清理过期的搜索结果缓存
type PurgeExpiredCacheJob struct {
	purger CachePurger
}

// NewPurgeExpiredCacheJob 是任务的构造函数
func NewPurgeExpiredCacheJob(purger CachePurger) *PurgeExpiredCacheJob {
	return &PurgeExpiredCacheJob{purger: purger}
}

// Run 是 Job 接口要求实现的方法
func (j *PurgeExpiredCacheJob) Run() {
	if removed := j.purger.PurgeExpiredCache(); removed > 0 {
		log.Printf("任务 '%s' 清理了 %d 条过期的搜索缓存。", j.Name(), removed)
	}
}

// Name 方法让日志包装器可以打印出更有意义的任务名
func (j *PurgeExpiredCacheJob) Name() string {
	return "PurgeExpiredCacheJob"
}

// Quiet 每分钟执行，日志只在 Debug 级别输出
func (j *PurgeExpiredCacheJob) Quiet() bool {
	return true
}
