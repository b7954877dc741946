// Package rewards: чистые функции расчёта случайных исходов:
// улов, урон нюка и спасённая рыба, самоподрыв, цена удочки, выплата слотов, игры с питомцем.
//
// Функции ничего не пишут в БД: на вход константы игры и источник случайности,
// на выход: структура с исходом. Сервисы применяют исход в одной транзакции.
package rewards

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"
)

// Source: источник случайных чисел. *rand.Rand из math/rand/v2 подходит как есть.
type Source interface {
	// IntN возвращает число в [0, n).
	IntN(n int) int
	// Float64 возвращает число в [0, 1).
	Float64() float64
}

// NewSource возвращает генератор, засеянный из crypto/rand.
// Генератор защищён мьютексом: обработчики команд вызывают его из разных горутин.
func NewSource() Source {
	seed := func() uint64 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err == nil {
			return binary.LittleEndian.Uint64(b[:])
		}
		return uint64(time.Now().UnixNano())
	}
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed(), seed()))}
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// Between возвращает равномерное число в [lo, hi] включительно.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}
