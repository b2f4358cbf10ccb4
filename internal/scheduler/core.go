package scheduler

import (
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

// placeLecture 在随机顺序的星期中，按时间段的固定顺序找到第一个空格子放置一节理论课
func (s *Scheduler) placeLecture(t *domain.Timetable, record domain.SubjectRecord) bool {
	for _, day := range s.perm(len(s.days)) {
		for slot := range s.slots {
			if t.IsFree(slot, day) {
				t.Assign(slot, day, domain.Assignment{
					Label: lectureLabel(record),
					IsLab: false,
				})
				return true
			}
		}
	}

	// 整个课表都没有空位，这节课被丢弃
	return false
}

// placeLab 找到第一个两个时间段都为空的位置放置一次实验课，两个格子的内容完全相同
func (s *Scheduler) placeLab(t *domain.Timetable, record domain.SubjectRecord) bool {
	for _, day := range s.perm(len(s.days)) {
		for start := 0; start+1 < len(s.slots); start++ {
			if t.IsFree(start, day) && t.IsFree(start+1, day) {
				lab := domain.Assignment{
					Label: labLabel(record),
					IsLab: true,
				}
				t.Assign(start, day, lab)
				t.Assign(start+1, day, lab)
				return true
			}
		}
	}

	return false
}
