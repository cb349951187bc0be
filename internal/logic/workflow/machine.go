package workflow

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/pkg/logger"
)

var ErrAlreadyRun = errors.New("workflow already run")

// EventSink 发布成功事件，失败只记日志，不影响工作流结果
type EventSink interface {
	Publish(ctx context.Context, event domain.LaunchEvent) error
}

// machine 显式状态机：记录经过的每个状态，进入终态后不可再次运行
type machine struct {
	name  string
	state domain.State
	trace []domain.State
}

func newMachine(name string) machine {
	return machine{
		name:  name,
		state: domain.StateIdle,
		trace: []domain.State{domain.StateIdle},
	}
}

func (m *machine) State() domain.State {
	return m.state
}

// Trace 返回状态轨迹副本
func (m *machine) Trace() []domain.State {
	out := make([]domain.State, len(m.trace))
	copy(out, m.trace)
	return out
}

func (m *machine) start() error {
	if m.state != domain.StateIdle {
		return fmt.Errorf("%s: %w", m.name, ErrAlreadyRun)
	}
	return nil
}

func (m *machine) enter(s domain.State) {
	logger.Debugf("[%s] %s -> %s", m.name, m.state, s)
	m.state = s
	m.trace = append(m.trace, s)
}

// fail 进入 Failed 终态，返回携带失败状态的 *domain.Failure
func (m *machine) fail(err error) error {
	f := &domain.Failure{State: m.state, Err: err}
	logger.Warnf("[%s] 失败: state=%s reason=%v err=%v", m.name, m.state, domain.ReasonOf(err), err)
	m.enter(domain.StateFailed)
	return f
}

// recoverPanic 在 defer 中调用，把 panic 转换为交易构建错误
func (m *machine) recoverPanic(err *error) {
	if r := recover(); r != nil {
		logger.Errorf("[%s] panic recovered: %v\n%s", m.name, r, debug.Stack())
		*err = m.fail(fmt.Errorf("%w: panic: %v", domain.ErrTransactionBuild, r))
	}
}

// classify 未归类的错误按 fallback 归类
func classify(err error, fallback error) error {
	if domain.IsClassified(err) {
		return err
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

func publish(ctx context.Context, name string, sink EventSink, event domain.LaunchEvent) {
	if sink == nil {
		return
	}
	if err := sink.Publish(ctx, event); err != nil {
		logger.Warnf("[%s] 事件发布失败: kind=%s mint=%s err=%v", name, event.Kind, event.Mint, err)
	}
}
