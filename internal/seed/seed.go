package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/registry"
)

var requiredHeaders = []string{"semester", "faculty", "subject", "lectureHours", "labHours"}

// ReadSubjectsCSV 从 CSV 中读取课程记录，第一行为表头，列的顺序不限。
// 任意一行不合法都会返回错误并指出行号，此时不返回任何记录。
func ReadSubjectsCSV(r io.Reader) ([]domain.SubjectRecord, error) {
	reader := csv.NewReader(r)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("CSV 文件为空")
		}
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	columns := make(map[string]int)
	for i, header := range headers {
		columns[strings.TrimSpace(header)] = i
	}
	for _, header := range requiredHeaders {
		if _, ok := columns[header]; !ok {
			return nil, fmt.Errorf("缺少表头 %s", header)
		}
	}

	records := make([]domain.SubjectRecord, 0)
	line := 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("第 %d 行读取失败: %w", line, err)
		}

		record, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}

		records = append(records, record)
	}

	return records, nil
}

func parseRow(row []string, columns map[string]int) (domain.SubjectRecord, error) {
	semester := domain.Semester(strings.TrimSpace(row[columns["semester"]]))
	if semester == "" {
		semester = domain.Semester2nd
	}
	if !slices.Contains(domain.Semesters, semester) {
		return domain.SubjectRecord{}, fmt.Errorf("未知的学期 %q", semester)
	}

	lectureHours, err := parseHours(row[columns["lectureHours"]], domain.MaxLectureHours)
	if err != nil {
		return domain.SubjectRecord{}, fmt.Errorf("lectureHours: %w", err)
	}
	labHours, err := parseHours(row[columns["labHours"]], domain.MaxLabHours)
	if err != nil {
		return domain.SubjectRecord{}, fmt.Errorf("labHours: %w", err)
	}

	// faculty 和 subject 按原样保存，与接口添加课程时的规则一致
	record := domain.SubjectRecord{
		Semester:     semester,
		Faculty:      row[columns["faculty"]],
		Subject:      row[columns["subject"]],
		LectureHours: lectureHours,
		LabHours:     labHours,
	}

	if err := registry.Validate(record); err != nil {
		return domain.SubjectRecord{}, err
	}

	return record, nil
}

func parseHours(s string, max int) (int32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q 不是整数", s)
	}
	if n < 0 || n > max {
		return 0, fmt.Errorf("%d 不在 0~%d 之间", n, max)
	}

	return int32(n), nil
}
