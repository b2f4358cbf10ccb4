package handler

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/config"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/scheduler"
)

// SessionStore 保存会话以及会话中的课程列表，由 repository.Repository 实现
type SessionStore interface {
	CreateSession(s *domain.Session) error
	GetSessionByID(id string) (*domain.Session, error)
	TouchSession(id string) error
	DeleteSession(id string) error
	InsertSubject(sessionID string, record *domain.SubjectRecord) error
	DeleteSubjectsBySessionID(sessionID string) error
}

// TimetableCache 保存每个会话最近一次生成的课表，由 cache.Cache 实现
type TimetableCache interface {
	SaveTimetable(sessionID string, t *domain.Timetable) error
	GetTimetable(sessionID string) (*domain.Timetable, error)
	DeleteTimetable(sessionID string) error
}

// MailPublisher 由 *amqp.Channel 实现
type MailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	store         SessionStore
	cache         TimetableCache
	translator    ut.Translator
	mailChannel   MailPublisher
	schedulerOpts []scheduler.Option

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store SessionStore, cache TimetableCache, mailCh MailPublisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息中使用 json 中的字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		store:       store,
		cache:       cache,
		translator:  trans,
		mailChannel: mailCh,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/options", h.GetOptions)
	h.Mux.Post("/sessions", h.CreateSession)

	// 以下 API 必须要在创建会话后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.session)
		r.Delete("/sessions", h.EndSession)

		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", h.ListSubjects)
			r.Post("/", h.AddSubject)
			r.Delete("/", h.ClearAll)
		})

		r.Route("/timetable", func(r chi.Router) {
			r.Post("/", h.GenerateTimetable)
			r.Get("/", h.GetTimetable)
			r.Post("/mail", h.MailTimetable)
		})
	})
}
