package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

func (r *Repository) InsertSubject(sessionID string, record *domain.SubjectRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO session_subjects (session_id, semester, faculty, subject, lecture_hours, lab_hours)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	args := []any{sessionID, string(record.Semester), record.Faculty, record.Subject, record.LectureHours, record.LabHours}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

// InsertSubjects 在一个事务中插入多条课程记录，要么全部成功要么全部失败
func (r *Repository) InsertSubjects(sessionID string, records []domain.SubjectRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO session_subjects (session_id, semester, faculty, subject, lecture_hours, lab_hours)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, record := range records {
		args := []any{sessionID, string(record.Semester), record.Faculty, record.Subject, record.LectureHours, record.LabHours}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSubjectsBySessionID(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM session_subjects WHERE session_id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, sessionID); err != nil {
		return err
	}

	return nil
}
