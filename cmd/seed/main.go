package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/config"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/repository"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/seed"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var sessionID string
	var csvPath string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 创建会话并插入随机课程, 2: 向已有会话插入随机课程, 3: 从 CSV 导入课程, 4: 为会话生成课表并打印)")
	flag.IntVar(&n, "n", 5, "要插入的课程数量")
	flag.StringVar(&sessionID, "session", "", "会话 ID")
	flag.StringVar(&csvPath, "csv", "", "CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的课程数量")
			return
		}

		s := &domain.Session{ID: uuid.NewString()}
		if err := repo.CreateSession(s); err != nil {
			slog.Error("无法创建会话", slog.String("error", err.Error()))
			return
		}

		insertRandomSubjects(repo, s.ID, n)
	case 2:
		if !checkSession(repo, sessionID) {
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的课程数量")
			return
		}

		insertRandomSubjects(repo, sessionID, n)
	case 3:
		if !checkSession(repo, sessionID) {
			return
		}

		file, err := os.Open(csvPath)
		if err != nil {
			slog.Error("打开文件失败", slog.String("error", err.Error()))
			return
		}
		defer file.Close()

		records, err := seed.ReadSubjectsCSV(file)
		if err != nil {
			slog.Error("解析 CSV 失败", slog.String("error", err.Error()))
			return
		}

		if err := repo.InsertSubjects(sessionID, records); err != nil {
			slog.Error("无法插入课程", slog.String("error", err.Error()))
			return
		}

		slog.Info("导入课程成功", slog.String("session", sessionID), slog.Int("count", len(records)))
	case 4:
		if !checkSession(repo, sessionID) {
			return
		}

		s, err := repo.GetSessionByID(sessionID)
		if err != nil {
			slog.Error("无法获取会话", slog.String("error", err.Error()))
			return
		}
		if len(s.Subjects) == 0 {
			slog.Error("会话中没有课程")
			return
		}

		timetable := scheduler.Generate(s.Subjects, domain.Days, domain.TimeSlots)
		printTimetable(timetable)
	default:
		slog.Error("指定的操作非法")
	}
}

func checkSession(repo *repository.Repository, sessionID string) bool {
	if _, err := uuid.Parse(sessionID); err != nil {
		slog.Error("请输入合法的会话 ID")
		return false
	}

	if _, err := repo.GetSessionByID(sessionID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			slog.Error("指定的会话不存在", slog.String("session", sessionID))
		default:
			slog.Error("无法获取会话", slog.String("error", err.Error()))
		}
		return false
	}

	return true
}

func insertRandomSubjects(repo *repository.Repository, sessionID string, n int) {
	cnt := 0
	for i := 0; i < n; i++ {
		record := utils.GenerateRandomSubject()
		if err := repo.InsertSubject(sessionID, &record); err != nil {
			slog.Error("无法插入课程", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}

	slog.Info("插入课程成功", slog.String("session", sessionID), slog.Int("count", cnt))
}

func printTimetable(t *domain.Timetable) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "\t%s\n", strings.Join(t.Days, "\t"))
	for i, slot := range t.TimeSlots {
		cells := make([]string, len(t.Days))
		for j := range t.Days {
			if cell := t.At(i, j); cell != nil {
				cells[j] = strings.ReplaceAll(cell.Label, "\n", " ")
			} else {
				cells[j] = "-"
			}
		}
		fmt.Fprintf(w, "%s\t%s\n", slot, strings.Join(cells, "\t"))
	}

	_ = w.Flush()
}
