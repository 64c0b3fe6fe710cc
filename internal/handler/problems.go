package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/genetic"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/seed"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/utils"
)

type runParametersRequest struct {
	PopulationSize int     `json:"populationSize" validate:"required,min=1"`
	Generations    int     `json:"generations" validate:"required,min=1"`
	CrossoverRate  float64 `json:"crossoverRate" validate:"gte=0,lte=1"`
	MutationRate   float64 `json:"mutationRate" validate:"gte=0,lte=1"`
	TournamentSize int     `json:"tournamentSize" validate:"gte=0"`
	KeepBestEver   bool    `json:"keepBestEver"`
	Seed           int64   `json:"seed"`
}

// runParameters 校验请求中的参数，没有提供参数时使用该类问题的默认参数
func (h *Handler) runParameters(problem *domain.Problem, req *runParametersRequest) (domain.RunParameters, error) {
	if req == nil {
		return seed.DefaultParameters(problem.Kind), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return domain.RunParameters{}, err
	}

	params := domain.RunParameters(*req)
	if err := utils.ValidateRunParameters(params, h.config.Solver.MaxPopulationSize, h.config.Solver.MaxGenerations); err != nil {
		return domain.RunParameters{}, err
	}

	return params, nil
}

// 参数不合法导致的求解失败应该告知用户，而不是作为服务器错误
func isParameterError(err error) bool {
	for _, target := range []error{
		genetic.ErrInvalidPopulationSize,
		genetic.ErrInvalidGenerations,
		genetic.ErrInvalidRate,
		genetic.ErrInvalidTournamentSize,
		genetic.ErrEmptyProblem,
		genetic.ErrInvalidProblem,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (h *Handler) CreateProblem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string                 `json:"name" validate:"required,max=100"`
		Description string                 `json:"description" validate:"max=1000"`
		Kind        string                 `json:"kind" validate:"required,oneof=knapsack allocation tour"`
		Knapsack    *domain.KnapsackData   `json:"knapsack"`
		Allocation  *domain.AllocationData `json:"allocation"`
		Tour        *domain.TourData       `json:"tour"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	problem := &domain.Problem{
		Name:        req.Name,
		Description: req.Description,
		Kind:        domain.ProblemKind(req.Kind),
		Knapsack:    req.Knapsack,
		Allocation:  req.Allocation,
		Tour:        req.Tour,
	}
	if err := utils.ValidateProblem(problem); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateProblem(problem); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "problems_name_key":
			h.badRequest(w, r, errors.New("问题名称已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建问题成功", problem)
}

func (h *Handler) GetAllProblems(w http.ResponseWriter, r *http.Request) {
	problems, err := h.repository.GetAllProblems()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取问题列表成功", problems)
}

func (h *Handler) GetProblem(w http.ResponseWriter, r *http.Request) {
	problem := r.Context().Value(ProblemCtx).(*domain.Problem)
	h.successResponse(w, r, "获取问题成功", problem)
}

func (h *Handler) DeleteProblem(w http.ResponseWriter, r *http.Request) {
	problem := r.Context().Value(ProblemCtx).(*domain.Problem)

	if err := h.repository.DeleteProblem(problem.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除问题成功", nil)
}

// SolveProblem 同步求解，规模受 SyncMaxEvaluations 限制，结果会被记录为一条已完成的运行
func (h *Handler) SolveProblem(w http.ResponseWriter, r *http.Request) {
	problem := r.Context().Value(ProblemCtx).(*domain.Problem)

	var req struct {
		Parameters *runParametersRequest `json:"parameters"`
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

	if params.PopulationSize*params.Generations > h.config.Solver.SyncMaxEvaluations {
		h.errorResponse(w, r, "求解规模过大，请提交异步运行")
		return
	}

	result, err := h.resultCache.Get(r.Context(), problem, params)
	if err != nil {
		// 缓存不可用时直接求解
		h.logInternalServerError(r, err)
	}

	if result == nil {
		result, err = h.solver.Solve(problem, params)
		if err != nil {
			switch {
			case isParameterError(err):
				h.errorResponse(w, r, err.Error())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		if err := h.resultCache.Set(r.Context(), problem, params, result); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	finishedAt := time.Now()
	run := &domain.Run{
		ProblemID:  problem.ID,
		Status:     domain.RunStatusSucceeded,
		Parameters: params,
		Result:     result,
		FinishedAt: &finishedAt,
	}
	if err := h.repository.CreateRun(run); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "求解成功", run)
}
