package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

// CreateRun 创建一条待运行的记录并投递到求解队列，由 worker 异步执行
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	problem := r.Context().Value(ProblemCtx).(*domain.Problem)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Parameters *runParametersRequest `json:"parameters"`
		Notify     bool                  `json:"notify"` // 运行结束后是否发送邮件通知
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	params, err := h.runParameters(problem, req.Parameters)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	run := &domain.Run{
		ProblemID:  problem.ID,
		Status:     domain.RunStatusPending,
		Parameters: params,
	}
	if req.Notify {
		run.NotifyEmail = myInfo.Email
	}

	if err := h.repository.CreateRun(run); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.publish(h.config.RabbitMQ.SolveQueue, domain.RunMessage{RunID: run.ID}); err != nil {
		// 投递失败的运行不会再被执行，直接标记为失败
		run.Status = domain.RunStatusFailed
		run.Error = "无法提交到求解队列"
		if finishErr := h.repository.FinishRun(run); finishErr != nil {
			h.logInternalServerError(r, finishErr)
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "已提交运行", run)
}

func (h *Handler) GetProblemRuns(w http.ResponseWriter, r *http.Request) {
	problem := r.Context().Value(ProblemCtx).(*domain.Problem)

	runs, err := h.repository.GetRunsByProblemID(problem.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取运行记录成功", runs)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(RunCtx).(*domain.Run)
	h.successResponse(w, r, "获取运行记录成功", run)
}
