package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/config"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/scheduler"
)

type fakeStore struct {
	sessions map[string]*domain.Session
}

func (f *fakeStore) CreateSession(s *domain.Session) error {
	s.CreatedAt = time.Now()
	s.LastActiveAt = s.CreatedAt
	f.sessions[s.ID] = &domain.Session{ID: s.ID, CreatedAt: s.CreatedAt, LastActiveAt: s.LastActiveAt}
	return nil
}

func (f *fakeStore) GetSessionByID(id string) (*domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	cp.Subjects = append([]domain.SubjectRecord{}, s.Subjects...)
	return &cp, nil
}

func (f *fakeStore) TouchSession(id string) error {
	if s, ok := f.sessions[id]; ok {
		s.LastActiveAt = time.Now()
	}
	return nil
}

func (f *fakeStore) DeleteSession(id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) InsertSubject(sessionID string, record *domain.SubjectRecord) error {
	s, ok := f.sessions[sessionID]
	if !ok {
		return sql.ErrNoRows
	}
	s.Subjects = append(s.Subjects, *record)
	return nil
}

func (f *fakeStore) DeleteSubjectsBySessionID(sessionID string) error {
	if s, ok := f.sessions[sessionID]; ok {
		s.Subjects = nil
	}
	return nil
}

type fakeCache struct {
	timetables map[string]*domain.Timetable
	deleteErr  error
}

func (f *fakeCache) SaveTimetable(sessionID string, t *domain.Timetable) error {
	f.timetables[sessionID] = t
	return nil
}

func (f *fakeCache) GetTimetable(sessionID string) (*domain.Timetable, error) {
	t, ok := f.timetables[sessionID]
	if !ok {
		return nil, redis.Nil
	}
	return t, nil
}

func (f *fakeCache) DeleteTimetable(sessionID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.timetables, sessionID)
	return nil
}

type fakePublisher struct {
	keys []string
	msgs []amqp.Publishing
}

func (f *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.msgs = append(f.msgs, msg)
	return nil
}

type testEnv struct {
	h     *Handler
	store *fakeStore
	cache *fakeCache
	pub   *fakePublisher
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func identityPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.RabbitMQ.PublishTimeout = 1

	env := &testEnv{
		store: &fakeStore{sessions: map[string]*domain.Session{}},
		cache: &fakeCache{timetables: map[string]*domain.Timetable{}},
		pub:   &fakePublisher{},
	}

	h, err := NewHandler(cfg, env.store, env.cache, env.pub)
	require.NoError(t, err)
	h.schedulerOpts = []scheduler.Option{scheduler.WithPermutation(identityPerm)}
	h.RegisterRoutes()
	env.h = h

	return env
}

func (e *testEnv) do(t *testing.T, method string, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.h.Mux.ServeHTTP(rec, req)

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func (e *testEnv) newSession(t *testing.T) (*http.Cookie, domain.Session) {
	t.Helper()

	rec, resp := e.do(t, http.MethodPost, "/sessions", nil)
	require.True(t, resp.Success)

	var s domain.Session
	require.NoError(t, json.Unmarshal(resp.Data, &s))

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c, s
		}
	}
	t.Fatal("没有返回会话 cookie")
	return nil, s
}

func mathRecord() map[string]any {
	return map[string]any{
		"semester":     "2nd Semester",
		"faculty":      "Dr. A",
		"subject":      "Math",
		"lectureHours": 3,
		"labHours":     0,
	}
}

func TestGetOptions(t *testing.T) {
	env := newTestEnv(t)

	_, resp := env.do(t, http.MethodGet, "/options", nil)
	require.True(t, resp.Success)

	var data struct {
		Days      []string `json:"days"`
		TimeSlots []string `json:"timeSlots"`
		Semesters []string `json:"semesters"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, domain.Days, data.Days)
	assert.Equal(t, domain.TimeSlots, data.TimeSlots)
	assert.Equal(t, []string{"2nd Semester", "4th Semester", "6th Semester"}, data.Semesters)
}

func TestSessionRequired(t *testing.T) {
	env := newTestEnv(t)

	_, resp := env.do(t, http.MethodGet, "/subjects", nil)
	assert.False(t, resp.Success)

	_, resp = env.do(t, http.MethodGet, "/subjects", nil, &http.Cookie{Name: sessionCookieName, Value: "garbage"})
	assert.False(t, resp.Success)
	assert.Equal(t, "无效的会话令牌", resp.Message)
}

func TestForgedTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	_, s := env.newSession(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: s.ID})
	ss, err := token.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, resp := env.do(t, http.MethodGet, "/subjects", nil, &http.Cookie{Name: sessionCookieName, Value: ss})
	assert.False(t, resp.Success)
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: uuid.NewString()})
	ss, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, resp := env.do(t, http.MethodGet, "/subjects", nil, &http.Cookie{Name: sessionCookieName, Value: ss})
	assert.False(t, resp.Success)
	assert.Equal(t, "会话不存在或已过期", resp.Message)
}

func TestAddAndListSubjects(t *testing.T) {
	env := newTestEnv(t)
	cookie, s := env.newSession(t)

	_, resp := env.do(t, http.MethodPost, "/subjects", mathRecord(), cookie)
	require.True(t, resp.Success, resp.Message)

	physics := map[string]any{
		"faculty":      "Dr. B",
		"subject":      "Physics",
		"lectureHours": 1,
		"labHours":     2,
	}
	_, resp = env.do(t, http.MethodPost, "/subjects", physics, cookie)
	require.True(t, resp.Success, resp.Message)

	_, resp = env.do(t, http.MethodGet, "/subjects", nil, cookie)
	require.True(t, resp.Success)

	var subjects []domain.SubjectRecord
	require.NoError(t, json.Unmarshal(resp.Data, &subjects))
	assert.Equal(t, []domain.SubjectRecord{
		{Semester: domain.Semester2nd, Faculty: "Dr. A", Subject: "Math", LectureHours: 3},
		// 没有选择学期时使用默认选项
		{Semester: domain.Semester2nd, Faculty: "Dr. B", Subject: "Physics", LectureHours: 1, LabHours: 2},
	}, subjects)
	assert.Len(t, env.store.sessions[s.ID].Subjects, 2)
}

func TestAddSubjectValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(map[string]any)
	}{
		{"empty faculty", func(m map[string]any) { m["faculty"] = "" }},
		{"empty subject", func(m map[string]any) { m["subject"] = "" }},
		{"zero lecture hours", func(m map[string]any) { m["lectureHours"] = 0 }},
		{"too many lecture hours", func(m map[string]any) { m["lectureHours"] = 11 }},
		{"too many lab hours", func(m map[string]any) { m["labHours"] = 6 }},
		{"negative lab hours", func(m map[string]any) { m["labHours"] = -1 }},
		{"unknown semester", func(m map[string]any) { m["semester"] = "8th Semester" }},
		{"unknown field", func(m map[string]any) { m["room"] = "A101" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			cookie, s := env.newSession(t)

			body := mathRecord()
			tt.modify(body)

			_, resp := env.do(t, http.MethodPost, "/subjects", body, cookie)
			assert.False(t, resp.Success)
			assert.Empty(t, env.store.sessions[s.ID].Subjects)
		})
	}
}

func TestAddSubjectReportsMissingFields(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.newSession(t)

	body := mathRecord()
	body["faculty"] = ""
	body["lectureHours"] = 0

	_, resp := env.do(t, http.MethodPost, "/subjects", body, cookie)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "faculty")
	assert.Contains(t, resp.Message, "lectureHours")
	assert.NotContains(t, resp.Message, "subject")
}

func TestGenerateRequiresSubjects(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.newSession(t)

	_, resp := env.do(t, http.MethodPost, "/timetable", nil, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "请先添加课程", resp.Message)
}

func TestGenerateTimetable(t *testing.T) {
	env := newTestEnv(t)
	cookie, s := env.newSession(t)

	_, resp := env.do(t, http.MethodPost, "/subjects", mathRecord(), cookie)
	require.True(t, resp.Success)

	_, resp = env.do(t, http.MethodPost, "/timetable", nil, cookie)
	require.True(t, resp.Success, resp.Message)

	var timetable domain.Timetable
	require.NoError(t, json.Unmarshal(resp.Data, &timetable))
	assert.Equal(t, 3, timetable.Occupied())
	for slot := 0; slot < 3; slot++ {
		assert.Equal(t, &domain.Assignment{Label: "Math\n(Dr. A)"}, timetable.At(slot, 0))
	}
	assert.Contains(t, env.cache.timetables, s.ID)

	_, resp = env.do(t, http.MethodGet, "/timetable", nil, cookie)
	require.True(t, resp.Success)
	require.NoError(t, json.Unmarshal(resp.Data, &timetable))
	assert.Equal(t, 3, timetable.Occupied())
}

func TestClearAllDiscardsTimetable(t *testing.T) {
	env := newTestEnv(t)
	cookie, s := env.newSession(t)

	env.do(t, http.MethodPost, "/subjects", mathRecord(), cookie)
	env.do(t, http.MethodPost, "/timetable", nil, cookie)

	for i := 0; i < 2; i++ {
		_, resp := env.do(t, http.MethodDelete, "/subjects", nil, cookie)
		require.True(t, resp.Success)
		assert.JSONEq(t, "[]", string(resp.Data))
	}

	assert.Empty(t, env.store.sessions[s.ID].Subjects)
	assert.NotContains(t, env.cache.timetables, s.ID)

	_, resp := env.do(t, http.MethodGet, "/timetable", nil, cookie)
	assert.True(t, resp.Success)
	assert.Equal(t, "null", string(resp.Data))
}

func TestAddSubjectDiscardsTimetable(t *testing.T) {
	env := newTestEnv(t)
	cookie, s := env.newSession(t)

	env.do(t, http.MethodPost, "/subjects", mathRecord(), cookie)
	_, resp := env.do(t, http.MethodPost, "/timetable", nil, cookie)
	require.True(t, resp.Success)
	require.Contains(t, env.cache.timetables, s.ID)

	physics := mathRecord()
	physics["subject"] = "Physics"
	_, resp = env.do(t, http.MethodPost, "/subjects", physics, cookie)
	require.True(t, resp.Success, resp.Message)
	assert.NotContains(t, env.cache.timetables, s.ID)

	_, resp = env.do(t, http.MethodGet, "/timetable", nil, cookie)
	assert.True(t, resp.Success)
	assert.Equal(t, "null", string(resp.Data))

	_, resp = env.do(t, http.MethodPost, "/timetable/mail", map[string]string{"to": "someone@example.com"}, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "请先生成课表", resp.Message)
	assert.Empty(t, env.pub.msgs)
}

func TestAddSubjectSucceedsWhenCacheFails(t *testing.T) {
	env := newTestEnv(t)
	cookie, s := env.newSession(t)
	env.cache.deleteErr = errors.New("redis unavailable")

	_, resp := env.do(t, http.MethodPost, "/subjects", mathRecord(), cookie)
	assert.True(t, resp.Success, resp.Message)
	assert.Len(t, env.store.sessions[s.ID].Subjects, 1)
}

func TestClearAllKeepsSubjectsWhenCacheFails(t *testing.T) {
	env := newTestEnv(t)
	cookie, s := env.newSession(t)

	env.do(t, http.MethodPost, "/subjects", mathRecord(), cookie)
	env.do(t, http.MethodPost, "/timetable", nil, cookie)
	env.cache.deleteErr = errors.New("redis unavailable")

	_, resp := env.do(t, http.MethodDelete, "/subjects", nil, cookie)
	assert.False(t, resp.Success)

	// 课表删除失败时课程列表保持不变
	assert.Len(t, env.store.sessions[s.ID].Subjects, 1)
	assert.Contains(t, env.cache.timetables, s.ID)
}

func TestMailTimetable(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.newSession(t)

	env.do(t, http.MethodPost, "/subjects", mathRecord(), cookie)

	_, resp := env.do(t, http.MethodPost, "/timetable/mail", map[string]string{"to": "someone@example.com"}, cookie)
	assert.False(t, resp.Success)
	assert.Empty(t, env.pub.msgs)

	env.do(t, http.MethodPost, "/timetable", nil, cookie)

	_, resp = env.do(t, http.MethodPost, "/timetable/mail", map[string]string{"to": "not-an-email"}, cookie)
	assert.False(t, resp.Success)

	_, resp = env.do(t, http.MethodPost, "/timetable/mail", map[string]string{"to": "someone@example.com"}, cookie)
	require.True(t, resp.Success, resp.Message)
	require.Len(t, env.pub.msgs, 1)
	assert.Equal(t, "email_queue", env.pub.keys[0])

	var msg struct {
		Type string                   `json:"type"`
		To   string                   `json:"to"`
		Data domain.TimetableMailData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.pub.msgs[0].Body, &msg))
	assert.Equal(t, domain.MailTypeTimetable, msg.Type)
	assert.Equal(t, "someone@example.com", msg.To)
	assert.Equal(t, domain.Days, msg.Data.Days)
	require.Len(t, msg.Data.Rows, len(domain.TimeSlots))
	assert.Equal(t, "Math\n(Dr. A)", msg.Data.Rows[0].Cells[0])
	assert.Equal(t, "", msg.Data.Rows[0].Cells[1])
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	first, _ := env.newSession(t)
	second, _ := env.newSession(t)

	env.do(t, http.MethodPost, "/subjects", mathRecord(), first)

	_, resp := env.do(t, http.MethodGet, "/subjects", nil, second)
	require.True(t, resp.Success)
	assert.JSONEq(t, "[]", string(resp.Data))
}

func TestEndSession(t *testing.T) {
	env := newTestEnv(t)
	cookie, s := env.newSession(t)

	env.do(t, http.MethodPost, "/subjects", mathRecord(), cookie)
	env.do(t, http.MethodPost, "/timetable", nil, cookie)

	_, resp := env.do(t, http.MethodDelete, "/sessions", nil, cookie)
	require.True(t, resp.Success)
	assert.NotContains(t, env.store.sessions, s.ID)
	assert.NotContains(t, env.cache.timetables, s.ID)

	_, resp = env.do(t, http.MethodGet, "/subjects", nil, cookie)
	assert.False(t, resp.Success)
	assert.Equal(t, "会话不存在或已过期", resp.Message)
}

func TestEndSessionClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	env.h.config.Environment = "production"
	cookie, _ := env.newSession(t)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	rec, resp := env.do(t, http.MethodDelete, "/sessions", nil, cookie)
	require.True(t, resp.Success)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(time.Now()))
	assert.Equal(t, "/", cleared.Path)
	assert.True(t, cleared.HttpOnly)
	assert.True(t, cleared.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cleared.SameSite)
}

func TestEndSessionKeepsSessionWhenCacheFails(t *testing.T) {
	env := newTestEnv(t)
	cookie, s := env.newSession(t)
	env.cache.deleteErr = errors.New("redis unavailable")

	_, resp := env.do(t, http.MethodDelete, "/sessions", nil, cookie)
	assert.False(t, resp.Success)
	assert.Contains(t, env.store.sessions, s.ID)
}
