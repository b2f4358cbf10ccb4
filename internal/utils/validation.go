package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/timetable-generator/backend/internal/domain"
)

// ValidateTimetable 检查课表的结构是否合法：
// 维度与星期和时间段一致，每次实验课恰好占用同一天两个相邻且内容相同的格子
func ValidateTimetable(t *domain.Timetable) error {
	if len(t.Cells) != len(t.TimeSlots) {
		return fmt.Errorf("课表的行数 %d 与时间段数量 %d 不一致", len(t.Cells), len(t.TimeSlots))
	}
	for i, row := range t.Cells {
		if len(row) != len(t.Days) {
			return fmt.Errorf("课表第 %d 行的列数 %d 与星期数量 %d 不一致", i+1, len(row), len(t.Days))
		}
	}

	for day := range t.Days {
		for slot := 0; slot < len(t.TimeSlots); {
			cell := t.Cells[slot][day]
			if cell == nil || !cell.IsLab {
				slot++
				continue
			}

			// 实验课必须和下一个时间段成对出现
			if slot+1 >= len(t.TimeSlots) {
				return fmt.Errorf("%s 的实验课 %q 位于最后一个时间段，无法占用两个时间段", t.Days[day], cell.Label)
			}
			next := t.Cells[slot+1][day]
			if next == nil || !next.IsLab || next.Label != cell.Label {
				return fmt.Errorf("%s %s 的实验课 %q 没有占用两个连续的时间段", t.Days[day], t.TimeSlots[slot], cell.Label)
			}
			slot += 2
		}
	}

	return nil
}
