package domain

import "time"

var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// 11-12 PM 与 1-2 PM 之间的午休不是一个时间段，不会被分配课程
var TimeSlots = []string{"9-10 AM", "10-11 AM", "11-12 PM", "1-2 PM", "2-3 PM", "3-4 PM"}

type Assignment struct {
	Label string `json:"label"`
	IsLab bool   `json:"isLab"`
}

// Timetable 是一周的课表，Cells[slot][day] 为 nil 表示该格子为空
type Timetable struct {
	Days        []string        `json:"days"`
	TimeSlots   []string        `json:"timeSlots"`
	Cells       [][]*Assignment `json:"cells"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

func NewTimetable(days []string, timeSlots []string) *Timetable {
	t := &Timetable{
		Days:        append([]string{}, days...),
		TimeSlots:   append([]string{}, timeSlots...),
		Cells:       make([][]*Assignment, len(timeSlots)),
		GeneratedAt: time.Now(),
	}
	for i := range t.Cells {
		t.Cells[i] = make([]*Assignment, len(days))
	}
	return t
}

func (t *Timetable) At(slot int, day int) *Assignment {
	return t.Cells[slot][day]
}

func (t *Timetable) IsFree(slot int, day int) bool {
	return t.Cells[slot][day] == nil
}

func (t *Timetable) Assign(slot int, day int, a Assignment) {
	t.Cells[slot][day] = &a
}

// Occupied 返回非空格子的数量
func (t *Timetable) Occupied() int {
	n := 0
	for _, row := range t.Cells {
		for _, cell := range row {
			if cell != nil {
				n++
			}
		}
	}
	return n
}

func (t *Timetable) MailData() TimetableMailData {
	data := TimetableMailData{
		Days: t.Days,
		Rows: make([]TimetableMailRow, len(t.TimeSlots)),
	}
	for i, slot := range t.TimeSlots {
		row := TimetableMailRow{
			TimeSlot: slot,
			Cells:    make([]string, len(t.Days)),
		}
		for j := range t.Days {
			if cell := t.Cells[i][j]; cell != nil {
				row.Cells[j] = cell.Label
			}
		}
		data.Rows[i] = row
	}
	return data
}
