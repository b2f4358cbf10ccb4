package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/utils"
)

func (h *Handler) GenerateTimetable(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SessionCtx).(*domain.Session)

	if len(s.Subjects) == 0 {
		h.errorResponse(w, r, "请先添加课程")
		return
	}

	sched, err := scheduler.New(domain.Days, domain.TimeSlots, h.schedulerOpts...)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 没有空位的课时会被丢弃，这不是错误
	timetable := sched.Schedule(s.Subjects)

	// 检查生成的课表结构是否合法，不合法说明排课算法有 bug
	if err := utils.ValidateTimetable(timetable); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.cache.SaveTimetable(s.ID, timetable); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成课表成功", timetable)
}

func (h *Handler) GetTimetable(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SessionCtx).(*domain.Session)

	timetable, err := h.cache.GetTimetable(s.ID)
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			h.successResponse(w, r, "还没有生成课表", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取课表成功", timetable)
}

func (h *Handler) MailTimetable(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SessionCtx).(*domain.Session)

	var req struct {
		To string `json:"to" validate:"required,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	timetable, err := h.cache.GetTimetable(s.ID)
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			h.errorResponse(w, r, "请先生成课表")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 准备邮件
	mailMessage := domain.MailMessage{
		Type: domain.MailTypeTimetable,
		To:   req.To,
		Data: timetable.MailData(),
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 发送邮件到消息队列中
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "课表已通过邮件发送", nil)
}
