package services

import (
	"errors"

	"golang.org/x/sync/semaphore"
)

// ErrBusy 同类操作正在进行，新的请求直接拒绝而不排队
var ErrBusy = errors.New("OPERATION_IN_PROGRESS")

// BusyGate 单并发闸门：TryEnter 失败立即返回，不阻塞
type BusyGate struct {
	sem *semaphore.Weighted
}

// NewBusyGate 创建闸门
func NewBusyGate() *BusyGate {
	return &BusyGate{sem: semaphore.NewWeighted(1)}
}

// TryEnter 获取闸门，成功时返回释放函数
func (g *BusyGate) TryEnter() (release func(), err error) {
	if !g.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	return func() { g.sem.Release(1) }, nil
}

// Busy 当前是否有操作在进行
func (g *BusyGate) Busy() bool {
	if g.sem.TryAcquire(1) {
		g.sem.Release(1)
		return false
	}
	return true
}
