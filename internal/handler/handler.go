package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/cache"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/config"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/queue"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/repository"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/solver"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	publisher   *queue.Publisher
	resultCache *cache.ResultCache
	solver      *solver.Solver

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, pub *queue.Publisher, rc *cache.ResultCache, s *solver.Solver) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		publisher:   pub,
		resultCache: rc,
		solver:      s,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) publish(queue string, v any) error {
	return h.publisher.Publish(context.Background(), queue, v)
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.With(h.myInfo).Get("/my-info", h.GetMyInfo)

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
		})

		r.Route("/problems", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateProblem)
			r.Get("/", h.GetAllProblems)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.problem)
				r.Get("/", h.GetProblem)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteProblem)
				r.Post("/solve", h.SolveProblem)
				r.With(h.myInfo).Post("/runs", h.CreateRun)
				r.Get("/runs", h.GetProblemRuns)
			})
		})

		r.With(h.run).Get("/runs/{id}", h.GetRun)
	})
}
