package scheduler

import (
	"errors"
	"math/rand"

	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

type Scheduler struct {
	days  []string
	slots []string
	perm  PermFunc
}

func New(days []string, slots []string, opts ...Option) (*Scheduler, error) {
	if len(days) == 0 {
		return nil, errors.New("课表至少需要一天")
	}
	if len(slots) == 0 {
		return nil, errors.New("课表至少需要一个时间段")
	}

	s := &Scheduler{
		days:  append([]string{}, days...),
		slots: append([]string{}, slots...),
		perm:  rand.Perm,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Generate 使用默认的随机来源生成课表，维度不合法时 panic
func Generate(records []domain.SubjectRecord, days []string, slots []string) *domain.Timetable {
	s, err := New(days, slots)
	if err != nil {
		panic(err)
	}
	return s.Schedule(records)
}

// Schedule 按课程列表的顺序依次为每门课程放置理论课和实验课。
// 这是一个首次适配的贪心算法，不会回溯：找不到空位的课时会被直接丢弃，
// 因此返回的课表中被占用的格子可能少于所需的课时数。
func (s *Scheduler) Schedule(records []domain.SubjectRecord) *domain.Timetable {
	t := domain.NewTimetable(s.days, s.slots)

	for _, record := range records {
		for i := 0; i < int(record.LectureHours); i++ {
			s.placeLecture(t, record)
		}
		for i := 0; i < int(record.LabHours); i++ {
			s.placeLab(t, record)
		}
	}

	return t
}
