package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

func TestValidateTimetable(t *testing.T) {
	lab := domain.Assignment{Label: "Physics Lab\n(Dr. B)", IsLab: true}
	otherLab := domain.Assignment{Label: "Chemistry Lab\n(Dr. C)", IsLab: true}
	lecture := domain.Assignment{Label: "Math\n(Dr. A)"}

	tests := []struct {
		name    string
		build   func(tt *domain.Timetable)
		wantErr bool
	}{
		{"empty", func(tt *domain.Timetable) {}, false},
		{"lectures", func(tt *domain.Timetable) {
			tt.Assign(0, 0, lecture)
			tt.Assign(1, 0, lecture)
			tt.Assign(5, 4, lecture)
		}, false},
		{"paired lab", func(tt *domain.Timetable) {
			tt.Assign(2, 1, lab)
			tt.Assign(3, 1, lab)
		}, false},
		{"two identical labs back to back", func(tt *domain.Timetable) {
			for slot := 0; slot < 4; slot++ {
				tt.Assign(slot, 2, lab)
			}
		}, false},
		{"lone lab cell", func(tt *domain.Timetable) {
			tt.Assign(2, 1, lab)
		}, true},
		{"lab in last slot", func(tt *domain.Timetable) {
			tt.Assign(0, 1, lecture)
			tt.Assign(5, 1, lab)
		}, true},
		{"lab paired with lecture", func(tt *domain.Timetable) {
			tt.Assign(0, 3, lab)
			tt.Assign(1, 3, domain.Assignment{Label: lab.Label})
		}, true},
		{"lab paired with a different lab", func(tt *domain.Timetable) {
			tt.Assign(0, 3, lab)
			tt.Assign(1, 3, otherLab)
		}, true},
		{"odd run of identical labs", func(tt *domain.Timetable) {
			for slot := 0; slot < 3; slot++ {
				tt.Assign(slot, 0, lab)
			}
		}, true},
		{"wrong row count", func(tt *domain.Timetable) {
			tt.Cells = tt.Cells[:3]
		}, true},
		{"wrong column count", func(tt *domain.Timetable) {
			tt.Cells[2] = tt.Cells[2][:1]
		}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := domain.NewTimetable(domain.Days, domain.TimeSlots)
			tc.build(tt)

			err := ValidateTimetable(tt)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
