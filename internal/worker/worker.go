package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

// ErrDiscard 表示消息无法处理，应当直接丢弃而不是重新入队
var ErrDiscard = errors.New("丢弃消息")

type Store interface {
	GetRunByID(id int64) (*domain.Run, error)
	GetProblemByID(id int64) (*domain.Problem, error)
	MarkRunRunning(run *domain.Run) error
	FinishRun(run *domain.Run) error
}

type ResultCache interface {
	Get(ctx context.Context, problem *domain.Problem, params domain.RunParameters) (*domain.RunResult, error)
	Set(ctx context.Context, problem *domain.Problem, params domain.RunParameters, result *domain.RunResult) error
}

type Solver interface {
	Solve(problem *domain.Problem, params domain.RunParameters) (*domain.RunResult, error)
}

type Publisher interface {
	Publish(ctx context.Context, queue string, v any) error
}

// Worker 执行 solve_queue 中的运行
type Worker struct {
	logger     *slog.Logger
	store      Store
	cache      ResultCache
	solver     Solver
	publisher  Publisher
	emailQueue string
}

func New(logger *slog.Logger, store Store, cache ResultCache, solver Solver, publisher Publisher, emailQueue string) *Worker {
	return &Worker{
		logger:     logger,
		store:      store,
		cache:      cache,
		solver:     solver,
		publisher:  publisher,
		emailQueue: emailQueue,
	}
}

// Handle 处理一条消息。返回 nil 时应确认消息，返回 ErrDiscard 时丢弃，其他错误需要重新入队
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	msg := domain.RunMessage{}
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: 消息反序列化失败: %v", ErrDiscard, err)
	}

	logger := w.logger.With("run_id", msg.RunID)

	run, err := w.store.GetRunByID(msg.RunID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 对应的问题被删除时运行记录也会被级联删除
			return fmt.Errorf("%w: 运行记录不存在", ErrDiscard)
		}
		return err
	}

	// 消息被重复投递
	if run.Status != domain.RunStatusPending {
		logger.Info("运行已被处理，跳过", "status", run.Status)
		return nil
	}

	if err := w.store.MarkRunRunning(run); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("运行已被其他 worker 处理，跳过")
			return nil
		}
		return err
	}

	problem, err := w.store.GetProblemByID(run.ProblemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errors.New("问题不存在")
		}
		return w.finish(ctx, logger, run, nil, nil, err)
	}

	result, err := w.solve(ctx, logger, problem, run.Parameters)
	return w.finish(ctx, logger, run, problem, result, err)
}

func (w *Worker) solve(ctx context.Context, logger *slog.Logger, problem *domain.Problem, params domain.RunParameters) (*domain.RunResult, error) {
	result, err := w.cache.Get(ctx, problem, params)
	if err != nil {
		logger.Warn("读取缓存失败", "error", err)
	}
	if result != nil {
		logger.Info("命中缓存")
		return result, nil
	}

	result, err = w.solver.Solve(problem, params)
	if err != nil {
		return nil, err
	}

	if err := w.cache.Set(ctx, problem, params, result); err != nil {
		logger.Warn("写入缓存失败", "error", err)
	}

	return result, nil
}

// finish 写入运行的最终状态并按需发送通知邮件。
// 此时运行已经处于 running 状态，重新入队也不会被再次执行，所以写入失败时丢弃消息
func (w *Worker) finish(ctx context.Context, logger *slog.Logger, run *domain.Run, problem *domain.Problem, result *domain.RunResult, solveErr error) error {
	if solveErr != nil {
		run.Status = domain.RunStatusFailed
		run.Error = solveErr.Error()
		run.Result = nil
	} else {
		run.Status = domain.RunStatusSucceeded
		run.Result = result
	}

	if err := w.store.FinishRun(run); err != nil {
		logger.Error("无法写入运行结果", "error", err)
		return fmt.Errorf("%w: %v", ErrDiscard, err)
	}

	logger.Info("运行结束", "status", run.Status)

	if run.NotifyEmail == "" {
		return nil
	}

	data := domain.RunFinishedMailData{
		RunID:  run.ID,
		Status: run.Status,
		Error:  run.Error,
	}
	if problem != nil {
		data.ProblemName = problem.Name
	}
	if run.Result != nil {
		data.Fitness = run.Result.Fitness
	}

	mailMessage := domain.MailMessage{
		Type: domain.MailTypeRunFinished,
		To:   run.NotifyEmail,
		Data: data,
	}
	if err := w.publisher.Publish(ctx, w.emailQueue, mailMessage); err != nil {
		// 邮件只是通知，失败不影响运行结果
		logger.Error("无法发送运行结束通知", "error", err)
	}

	return nil
}
