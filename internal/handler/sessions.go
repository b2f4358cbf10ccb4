package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

const sessionCookieName = "__timetable_session_token"

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := &domain.Session{
		ID:       uuid.NewString(),
		Subjects: make([]domain.SubjectRecord, 0),
	}

	if err := h.store.CreateSession(s); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 会话 ID 作为 JWT 的 subject
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiration),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		NotBefore: jwt.NewNumericDate(time.Now()),
		Subject:   s.ID,
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 通过 http-only 的 cookie 返回给客户端
	http.SetCookie(w, h.sessionCookie(ss, expiration))

	h.successResponse(w, r, "创建会话成功", s)
}

// EndSession 结束会话，会话中的课程列表和已生成的课表都会被丢弃
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	s := r.Context().Value(SessionCtx).(*domain.Session)

	if err := h.cache.DeleteTimetable(s.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.store.DeleteSession(s.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie("", time.Now().Add(-time.Hour)))

	h.successResponse(w, r, "会话已结束", nil)
}

func (h *Handler) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	return cookie
}
