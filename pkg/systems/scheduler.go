package systems

import (
	"math"
	"sort"
)

// TaskGroup 标识一组可一起取消的延时任务（通常对应一个特效实例）
// 0 号分组保留给调度器自身，永不被取消
type TaskGroup uint64

type scheduledTask struct {
	fireAt float64
	seq    uint64
	group  TaskGroup
	fn     func()
}

// Scheduler 虚拟时间上的延时任务队列
//
// 任务按 (触发时间, 插入序号) 排序执行，同一时刻的任务保持插入顺序。
// 时间只在 Update 中前进，因此整个特效引擎在测试中完全可控。
// 非并发安全，所有调用都必须在宿主的 tick 线程上进行。
type Scheduler struct {
	now       float64
	seq       uint64
	nextGroup TaskGroup
	tasks     []scheduledTask
}

// NewScheduler 创建调度器，虚拟时间从 0 开始
func NewScheduler() *Scheduler {
	return &Scheduler{
		nextGroup: 1,
		tasks:     make([]scheduledTask, 0, 32),
	}
}

// Now 返回当前虚拟时间（秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// NewGroup 分配一个新的任务分组
func (s *Scheduler) NewGroup() TaskGroup {
	g := s.nextGroup
	s.nextGroup++
	return g
}

// After 安排 fn 在 delay 秒后执行
// delay <= 0（或 NaN）的任务在下一次 Update 中执行，不会同步执行
func (s *Scheduler) After(delay float64, group TaskGroup, fn func()) {
	if fn == nil {
		return
	}
	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}

	task := scheduledTask{fireAt: s.now + delay, seq: s.seq, group: group, fn: fn}
	s.seq++

	// 二分查找插入位置：第一个严格晚于新任务的位置
	i := sort.Search(len(s.tasks), func(i int) bool {
		return s.tasks[i].fireAt > task.fireAt
	})
	s.tasks = append(s.tasks, scheduledTask{})
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = task
}

// Cancel 取消分组内所有尚未执行的任务，返回取消数量
func (s *Scheduler) Cancel(group TaskGroup) int {
	if group == 0 {
		return 0
	}
	kept := s.tasks[:0]
	cancelled := 0
	for _, t := range s.tasks {
		if t.group == group {
			cancelled++
			continue
		}
		kept = append(kept, t)
	}
	// 清掉尾部残留的闭包引用
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = scheduledTask{}
	}
	s.tasks = kept
	return cancelled
}

// Pending 返回尚未执行的任务数
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// PendingIn 返回分组内尚未执行的任务数
func (s *Scheduler) PendingIn(group TaskGroup) int {
	n := 0
	for _, t := range s.tasks {
		if t.group == group {
			n++
		}
	}
	return n
}

// Update 推进虚拟时间并执行所有到期任务
//
// 任务回调中新安排的、已到期的任务也会在本次 Update 中执行；
// 回调中取消的任务不会再执行。
func (s *Scheduler) Update(dt float64) {
	if dt > 0 && !math.IsInf(dt, 1) {
		s.now += dt
	}

	for len(s.tasks) > 0 && s.tasks[0].fireAt <= s.now {
		task := s.tasks[0]
		s.tasks[0] = scheduledTask{}
		s.tasks = s.tasks[1:]
		task.fn()
	}
}
