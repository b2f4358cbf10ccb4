package registry

import (
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

// Registry 按添加顺序保存一个会话中的课程记录，允许重复
type Registry struct {
	records []domain.SubjectRecord
}

func New(records ...domain.SubjectRecord) *Registry {
	return &Registry{
		records: append([]domain.SubjectRecord{}, records...),
	}
}

// Validate 检查课程记录能否加入课程列表
func Validate(record domain.SubjectRecord) error {
	var fields []string

	if record.Faculty == "" {
		fields = append(fields, "faculty")
	}
	if record.Subject == "" {
		fields = append(fields, "subject")
	}
	if record.LectureHours < 1 {
		fields = append(fields, "lectureHours")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r *Registry) Add(record domain.SubjectRecord) error {
	if err := Validate(record); err != nil {
		return err
	}
	r.records = append(r.records, record)
	return nil
}

// List 返回课程记录的副本，调用方修改返回值不会影响课程列表
func (r *Registry) List() []domain.SubjectRecord {
	return append([]domain.SubjectRecord{}, r.records...)
}

func (r *Registry) Len() int {
	return len(r.records)
}

func (r *Registry) Clear() {
	r.records = nil
}
