package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

// GetOptions 返回前端渲染表单所需的固定选项
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "获取表单选项成功", struct {
		Days            []string          `json:"days"`
		TimeSlots       []string          `json:"timeSlots"`
		Semesters       []domain.Semester `json:"semesters"`
		MaxLectureHours int               `json:"maxLectureHours"`
		MaxLabHours     int               `json:"maxLabHours"`
	}{
		Days:            domain.Days,
		TimeSlots:       domain.TimeSlots,
		Semesters:       domain.Semesters,
		MaxLectureHours: domain.MaxLectureHours,
		MaxLabHours:     domain.MaxLabHours,
	})
}
