package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/config"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/genetic"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/solver"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 1
	cfg.Solver.MaxPopulationSize = 100
	cfg.Solver.MaxGenerations = 100
	cfg.Solver.SyncMaxEvaluations = 1000

	h, err := NewHandler(cfg, nil, nil, nil, solver.New(nil, 1))
	require.NoError(t, err)
	h.RegisterRoutes()

	return h
}

func tokenCookie(t *testing.T, h *Handler, role domain.Role) *http.Cookie {
	t.Helper()

	ss, err := h.signToken(1, string(role), time.Now().Add(time.Hour))
	require.NoError(t, err)

	return &http.Cookie{Name: tokenCookieName, Value: ss}
}

func do(t *testing.T, h *Handler, method, path, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func TestAuth_RequiresLogin(t *testing.T) {
	h := newTestHandler(t)

	_, resp := do(t, h, http.MethodGet, "/problems", "", nil)
	require.False(t, resp.Success)
	require.Equal(t, "用户未登录", resp.Message)

	_, resp = do(t, h, http.MethodGet, "/problems", "", &http.Cookie{Name: tokenCookieName, Value: "garbage"})
	require.False(t, resp.Success)
	require.Equal(t, "无效的令牌", resp.Message)
}

func TestAuth_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	h := newTestHandler(t)
	cookie := tokenCookie(t, h, domain.RoleAdmin)
	h.config.JWT.Secret = "rotated"

	_, resp := do(t, h, http.MethodGet, "/problems", "", cookie)
	require.Equal(t, "无效的令牌", resp.Message)
}

func TestRequiredRole(t *testing.T) {
	h := newTestHandler(t)
	cookie := tokenCookie(t, h, domain.RoleMember)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/problems"},
		{http.MethodPost, "/users"},
		{http.MethodGet, "/users"},
	} {
		_, resp := do(t, h, tc.method, tc.path, `{}`, cookie)
		require.False(t, resp.Success)
		require.Equal(t, "权限不足", resp.Message, "%s %s", tc.method, tc.path)
	}
}

func TestCreateProblem_Validation(t *testing.T) {
	h := newTestHandler(t)
	cookie := tokenCookie(t, h, domain.RoleAdmin)

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"空请求体", ``, "请求体不能为空"},
		{"未知字段", `{"name":"a","kind":"tour","extra":1}`, "请求体格式错误"},
		{"缺少数据", `{"name":"a","kind":"knapsack","tour":{"cities":[{"x":1,"y":1}]}}`, "背包问题缺少 knapsack 数据"},
		{"没有物品", `{"name":"a","kind":"knapsack","knapsack":{"capacity":1,"items":[]}}`, "背包问题至少需要一个物品"},
		{"任务 ID 重复", `{"name":"a","kind":"allocation","allocation":{"tasks":[{"id":1,"cost":1},{"id":1,"cost":1}],"resources":[{"id":0,"capacity":5}]}}`, "任务 ID 1 重复"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, resp := do(t, h, http.MethodPost, "/problems", tc.body, cookie)
			require.False(t, resp.Success)
			require.Equal(t, tc.message, resp.Message)
		})
	}

	// validator 的错误信息经过中文翻译
	_, resp := do(t, h, http.MethodPost, "/problems", `{"name":"a","kind":"graph"}`, cookie)
	require.False(t, resp.Success)
	require.Contains(t, resp.Message, "Kind")
	require.Contains(t, resp.Message, "必须是")
}

func TestCreateUser_Validation(t *testing.T) {
	h := newTestHandler(t)
	cookie := tokenCookie(t, h, domain.RoleAdmin)

	_, resp := do(t, h, http.MethodPost, "/users", `{"username":"u","fullName":"张三","email":"not-an-email","role":"成员"}`, cookie)
	require.False(t, resp.Success)
	require.Contains(t, resp.Message, "Email")

	_, resp = do(t, h, http.MethodPost, "/users", `{"username":"u","fullName":"张三","email":"a@b.com","role":"黑心"}`, cookie)
	require.False(t, resp.Success)
	require.Contains(t, resp.Message, "Role")
}

func TestLogin_Validation(t *testing.T) {
	h := newTestHandler(t)

	_, resp := do(t, h, http.MethodPost, "/auth/login", `{"username":"admin"}`, nil)
	require.False(t, resp.Success)
	require.Contains(t, resp.Message, "Password")
}

func TestLogout_ExpiresCookie(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := do(t, h, http.MethodPost, "/auth/logout", "", nil)
	require.True(t, resp.Success)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, tokenCookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.True(t, cookies[0].Expires.Before(time.Now()))
}

func TestRunParameters(t *testing.T) {
	h := newTestHandler(t)
	problem := &domain.Problem{Kind: domain.ProblemKindTour}

	params, err := h.runParameters(problem, nil)
	require.NoError(t, err)
	require.Equal(t, 100, params.PopulationSize)
	require.Equal(t, 1000, params.Generations)

	params, err = h.runParameters(problem, &runParametersRequest{PopulationSize: 10, Generations: 20, MutationRate: 0.1, Seed: 3})
	require.NoError(t, err)
	require.Equal(t, domain.RunParameters{PopulationSize: 10, Generations: 20, MutationRate: 0.1, Seed: 3}, params)

	_, err = h.runParameters(problem, &runParametersRequest{PopulationSize: 10, Generations: 20, MutationRate: 1.5})
	require.Error(t, err)

	_, err = h.runParameters(problem, &runParametersRequest{PopulationSize: 0, Generations: 20})
	require.Error(t, err)

	_, err = h.runParameters(problem, &runParametersRequest{PopulationSize: 101, Generations: 20})
	require.EqualError(t, err, "种群大小不能超过 100")
}

func TestIsParameterError(t *testing.T) {
	require.True(t, isParameterError(fmt.Errorf("run: %w", genetic.ErrInvalidRate)))
	require.True(t, isParameterError(genetic.ErrEmptyProblem))
	require.False(t, isParameterError(errors.New("boom")))
}

func TestRecoverer(t *testing.T) {
	h := newTestHandler(t)
	h.Mux.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec, resp := do(t, h, http.MethodGet, "/panic", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "服务器内部错误", resp.Message)
}

func TestLoadByID(t *testing.T) {
	h := newTestHandler(t)

	problems := map[int64]*domain.Problem{7: {ID: 7, Name: "classic"}}
	get := func(id int64) (*domain.Problem, error) {
		if id == 13 {
			return nil, errors.New("connection reset")
		}
		p, ok := problems[id]
		if !ok {
			return nil, sql.ErrNoRows
		}
		return p, nil
	}

	mux := chi.NewRouter()
	mux.With(loadByID(h, ProblemCtx, "问题ID无效", "问题不存在", get)).Get("/problems/{id}", func(w http.ResponseWriter, r *http.Request) {
		problem := r.Context().Value(ProblemCtx).(*domain.Problem)
		h.successResponse(w, r, "ok", problem.Name)
	})

	cases := []struct {
		path    string
		success bool
		message string
		status  int
	}{
		{"/problems/7", true, "ok", http.StatusOK},
		{"/problems/abc", false, "问题ID无效", http.StatusOK},
		{"/problems/8", false, "问题不存在", http.StatusOK},
		{"/problems/13", false, "服务器内部错误", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, tc.success, resp.Success, tc.path)
		require.Equal(t, tc.message, resp.Message, tc.path)
		if tc.status != http.StatusOK {
			require.Equal(t, tc.status, rec.Code, tc.path)
		}
	}
}
