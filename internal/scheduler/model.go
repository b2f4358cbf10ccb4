package scheduler

import "math/rand"

// PermFunc 返回 [0, n) 的一个排列，用于决定本次放置时扫描星期的顺序
type PermFunc func(n int) []int

type Option func(*Scheduler)

// WithPermutation 替换默认的随机排列来源，测试时可以传入确定的排列
func WithPermutation(perm PermFunc) Option {
	return func(s *Scheduler) {
		s.perm = perm
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Scheduler) {
		s.perm = rng.Perm
	}
}
