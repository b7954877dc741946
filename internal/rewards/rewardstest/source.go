// Package rewardstest: заранее заданный источник случайности для тестов.
package rewardstest

import "sync"

// Source отдаёт значения из очередей по порядку.
// Для IntN значение берётся по модулю n, пустая очередь даёт 0.
type Source struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
}

// New создаёт источник с очередью для IntN.
func New(ints ...int) *Source {
	return &Source{ints: ints}
}

// WithFloats задаёт очередь для Float64.
func (s *Source) WithFloats(floats ...float64) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = floats
	return s
}

// Push добавляет значения в конец очереди IntN.
func (s *Source) Push(ints ...int) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, ints...)
	return s
}

// PushFloats добавляет значения в конец очереди Float64.
func (s *Source) PushFloats(floats ...float64) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = append(s.floats, floats...)
	return s
}

// IntN возвращает следующее значение из очереди в [0, n).
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}

// Float64 возвращает следующее значение из очереди; пустая очередь даёт 0.99 (ничего не выпало).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}
