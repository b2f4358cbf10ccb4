package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const MailTypeTimetable = "timetable"

type TimetableMailRow struct {
	TimeSlot string   `json:"timeSlot"`
	Cells    []string `json:"cells"`
}

type TimetableMailData struct {
	Days []string           `json:"days"`
	Rows []TimetableMailRow `json:"rows"`
}
