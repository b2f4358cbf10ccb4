package scheduler

import (
	"fmt"

	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

func lectureLabel(record domain.SubjectRecord) string {
	return fmt.Sprintf("%s\n(%s)", record.Subject, record.Faculty)
}

func labLabel(record domain.SubjectRecord) string {
	return fmt.Sprintf("%s Lab\n(%s)", record.Subject, record.Faculty)
}
