package domain

type Semester string

const (
	Semester2nd Semester = "2nd Semester"
	Semester4th Semester = "4th Semester"
	Semester6th Semester = "6th Semester"
)

var Semesters = []Semester{Semester2nd, Semester4th, Semester6th}

// 表单中课时数的取值范围
const (
	MaxLectureHours = 10
	MaxLabHours     = 5
)

type SubjectRecord struct {
	Semester     Semester `json:"semester"`
	Faculty      string   `json:"faculty"`
	Subject      string   `json:"subject"`
	LectureHours int32    `json:"lectureHours"`
	LabHours     int32    `json:"labHours"` // 每次实验课占用两个连续的时间段
}
