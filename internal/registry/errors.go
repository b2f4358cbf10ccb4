package registry

import (
	"fmt"
	"strings"
)

// ValidationError 表示课程记录不满足加入课程列表的条件，Fields 为所有不合法的字段
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("请填写所有必填项: %s", strings.Join(e.Fields, ", "))
}
