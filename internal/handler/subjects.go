package handler

import (
	"log/slog"
	"net/http"

	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/registry"
)

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SessionCtx).(*domain.Session)

	h.successResponse(w, r, "获取课程列表成功", s.Subjects)
}

func (h *Handler) AddSubject(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SessionCtx).(*domain.Session)

	// faculty、subject 是否为空以及 lectureHours 是否大于 0 由 registry 检查
	var req struct {
		Semester     string `json:"semester" validate:"omitempty,oneof='2nd Semester' '4th Semester' '6th Semester'"`
		Faculty      string `json:"faculty"`
		Subject      string `json:"subject"`
		LectureHours int32  `json:"lectureHours" validate:"min=0,max=10"`
		LabHours     int32  `json:"labHours" validate:"min=0,max=5"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	record := domain.SubjectRecord{
		Semester:     domain.Semester(req.Semester),
		Faculty:      req.Faculty,
		Subject:      req.Subject,
		LectureHours: req.LectureHours,
		LabHours:     req.LabHours,
	}
	// 和表单的默认选项保持一致
	if record.Semester == "" {
		record.Semester = domain.Semester2nd
	}

	reg := registry.New(s.Subjects...)
	if err := reg.Add(record); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.store.InsertSubject(s.ID, &record); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 课程列表已经变化，之前生成的课表作废
	if err := h.cache.DeleteTimetable(s.ID); err != nil {
		slog.Error("无法删除过期的课表", "session", s.ID, "error", err)
	}

	h.successResponse(w, r, "添加课程成功", reg.List())
}

// ClearAll 清空课程列表，并丢弃之前生成的课表
func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SessionCtx).(*domain.Session)

	// 先删除课表，避免课程已清空而课表仍然存在
	if err := h.cache.DeleteTimetable(s.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.store.DeleteSubjectsBySessionID(s.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "已清空所有课程", make([]domain.SubjectRecord, 0))
}
