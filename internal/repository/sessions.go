package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

func (r *Repository) CreateSession(s *domain.Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO sessions (id)
		VALUES ($1)
		RETURNING created_at, last_active_at
	`

	dst := []any{&s.CreatedAt, &s.LastActiveAt}
	if err := r.dbpool.QueryRowContext(ctx, query, s.ID).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// GetSessionByID 返回会话及其所有课程记录，课程记录按添加顺序排列
func (r *Repository) GetSessionByID(id string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			s.created_at,
			s.last_active_at,
			ss.semester,
			ss.faculty,
			ss.subject,
			ss.lecture_hours,
			ss.lab_hours
		FROM sessions s
		LEFT JOIN session_subjects ss ON s.id = ss.session_id
		WHERE s.id = $1
		ORDER BY ss.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var s *domain.Session

	for rows.Next() {
		var row struct {
			CreatedAt    time.Time
			LastActiveAt time.Time

			Semester     sql.NullString
			Faculty      sql.NullString
			Subject      sql.NullString
			LectureHours sql.NullInt32
			LabHours     sql.NullInt32
		}

		dst := []any{
			&row.CreatedAt,
			&row.LastActiveAt,
			&row.Semester,
			&row.Faculty,
			&row.Subject,
			&row.LectureHours,
			&row.LabHours,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if s == nil {
			// 第一次查到这个会话
			s = &domain.Session{
				ID:           id,
				Subjects:     make([]domain.SubjectRecord, 0),
				CreatedAt:    row.CreatedAt,
				LastActiveAt: row.LastActiveAt,
			}
		}

		// 会话中还没有任何课程
		if !row.Subject.Valid {
			continue
		}

		s.Subjects = append(s.Subjects, domain.SubjectRecord{
			Semester:     domain.Semester(row.Semester.String),
			Faculty:      row.Faculty.String,
			Subject:      row.Subject.String,
			LectureHours: row.LectureHours.Int32,
			LabHours:     row.LabHours.Int32,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s == nil {
		return nil, sql.ErrNoRows
	}

	return s, nil
}

// TouchSession 刷新会话的最后活跃时间
func (r *Repository) TouchSession(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE sessions
		SET last_active_at = NOW()
		WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSession(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// session_subjects 通过外键级联删除
	query := `
		DELETE FROM sessions WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// DeleteExpiredSessions 删除在 before 之前就不再活跃的会话，返回被删除会话的 ID
func (r *Repository) DeleteExpiredSessions(before time.Time) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM sessions
		WHERE last_active_at < $1
		RETURNING id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
