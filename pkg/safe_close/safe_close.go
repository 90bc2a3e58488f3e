// Package safe_close 提供多组件协同的优雅关闭控制
// 各组件通过 Attach 注册关闭回调，任一组件可广播关闭信号
package safe_close

import (
	"sync"
)

type SafeClose struct {
	mu          sync.Mutex
	closeSignal chan struct{}
	closed      bool
	err         error
	wg          sync.WaitGroup
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach 注册一个受管组件
// f 在独立 goroutine 中运行，收到 closeSignal 后应完成清理并调用 done
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go f(s.wg.Done, s.closeSignal)
}

// SendCloseSignal 广播关闭信号，首个非 nil 错误会被记录
// 可以被多次调用，只有第一次生效
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.closeSignal)
}

// WaitClosed 阻塞直到所有已注册组件完成关闭，返回首个错误
func (s *SafeClose) WaitClosed() error {
	<-s.closeSignal
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CloseSignal 返回只读的关闭信号通道
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}
