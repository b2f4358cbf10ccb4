package utils

import (
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}

var commonSubjects = []string{
	"Mathematics", "Physics", "Chemistry", "Data Structures", "Operating Systems",
	"Computer Networks", "Database Systems", "Digital Logic", "Compiler Design", "Linear Algebra",
}

// GenerateRandomFacultyName 随机选择一个中文姓氏并转换成拼音，例如 "Dr. Wang"
func GenerateRandomFacultyName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	pinyinArray := pinyin.LazyConvert(surname, nil)

	name := ""
	for _, p := range pinyinArray {
		if p == "" {
			continue
		}
		name += strings.ToUpper(p[:1]) + p[1:]
	}

	return "Dr. " + name
}

func GenerateRandomSubject() domain.SubjectRecord {
	return domain.SubjectRecord{
		Semester:     domain.Semesters[rand.Intn(len(domain.Semesters))],
		Faculty:      GenerateRandomFacultyName(),
		Subject:      commonSubjects[rand.Intn(len(commonSubjects))],
		LectureHours: int32(rand.Intn(4) + 1), // 1~4
		LabHours:     int32(rand.Intn(3)),     // 0~2
	}
}
