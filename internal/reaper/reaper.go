package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/config"
)

type SessionStore interface {
	DeleteExpiredSessions(before time.Time) ([]string, error)
}

type TimetableStore interface {
	DeleteTimetable(sessionID string) error
}

// Reaper 定期删除长时间没有操作的会话以及它们缓存的课表
type Reaper struct {
	idleTimeout time.Duration
	sessions    SessionStore
	timetables  TimetableStore
	cron        *cron.Cron
	now         func() time.Time
}

func New(cfg *config.Config, sessions SessionStore, timetables TimetableStore) (*Reaper, error) {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))

	r := &Reaper{
		idleTimeout: time.Duration(cfg.Session.IdleTimeout) * time.Second,
		sessions:    sessions,
		timetables:  timetables,
		cron:        cron.New(cron.WithChain(cron.SkipIfStillRunning(logger))),
		now:         time.Now,
	}

	if _, err := r.cron.AddFunc(cfg.Session.ReapSchedule, r.Reap); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Reaper) Start() {
	r.cron.Start()
}

// Stop 停止调度，返回的 context 会在正在执行的任务结束后关闭
func (r *Reaper) Stop() context.Context {
	return r.cron.Stop()
}

func (r *Reaper) Reap() {
	before := r.now().Add(-r.idleTimeout)

	ids, err := r.sessions.DeleteExpiredSessions(before)
	if err != nil {
		slog.Error("无法删除过期会话", "error", err)
		return
	}

	for _, id := range ids {
		if err := r.timetables.DeleteTimetable(id); err != nil {
			// 课表缓存本身也会过期，这里失败不影响会话的删除
			slog.Error("无法删除过期会话的课表", "session", id, "error", err)
		}
	}

	if len(ids) > 0 {
		slog.Info("已删除过期会话", "count", len(ids))
	}
}
