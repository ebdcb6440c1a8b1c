package engine

import (
	"container/heap"

	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Scheduler - двухбуферный планировщик тиков.
//
// Регистрации во время тика попадают в pending и начинают исполняться
// со следующего тика. Отписка ленивая: запись помечается невалидной и
// пропускается, даже если её очередь в текущем проходе ещё не наступила.
type Scheduler[T any] struct {
	active  actionQueue[T]
	running []*entry[T]
	pending []*entry[T]
	seq     uint64
	tick    int
	inTick  bool
}

func NewScheduler[T any]() *Scheduler[T] {
	return &Scheduler[T]{active: make(actionQueue[T], 0)}
}

// Register добавляет повторяющееся действие.
func (s *Scheduler[T]) Register(action Action[T], priority Priority, id string) {
	s.add(action, priority, id, false)
}

// RegisterOnce добавляет действие, которое исполнится один раз.
func (s *Scheduler[T]) RegisterOnce(action Action[T], priority Priority, id string) {
	s.add(action, priority, id, true)
}

func (s *Scheduler[T]) add(action Action[T], priority Priority, id string, once bool) {
	s.seq++
	e := &entry[T]{action: action, priority: priority, seq: s.seq, id: id, once: once, valid: true}
	if s.inTick {
		s.pending = append(s.pending, e)
		return
	}
	heap.Push(&s.active, e)
}

// Unsubscribe инвалидирует все записи с данным id (активные, текущего прохода и отложенные).
// Безопасен для уже исполненных и несуществующих id.
func (s *Scheduler[T]) Unsubscribe(id string) {
	n := 0
	for _, list := range [][]*entry[T]{s.active, s.running, s.pending} {
		for _, e := range list {
			if e.id == id && e.valid {
				e.valid = false
				n++
			}
		}
	}
	if n > 0 {
		logger.Log.WithFields(logrus.Fields{
			"component": "scheduler",
			"id":        id,
			"entries":   n,
			"tick":      s.tick,
		}).Debug("Unsubscribed")
	}
}

// Tick исполняет все активные записи по порядку, затем сливает отложенные
// и выбрасывает невалидные. Возвращает новый номер тика.
func (s *Scheduler[T]) Tick(env T) int {
	s.inTick = true
	s.running = s.active.drain()

	for _, e := range s.running {
		if !e.valid {
			continue
		}
		e.action(env)
		if e.once {
			e.valid = false
		}
	}

	s.inTick = false
	for _, e := range s.running {
		if e.valid {
			heap.Push(&s.active, e)
		}
	}
	for _, e := range s.pending {
		if e.valid {
			heap.Push(&s.active, e)
		}
	}
	s.running = nil
	s.pending = nil

	s.tick++
	return s.tick
}

// CurrentTick - число завершённых тиков (во время тика - номер текущего).
func (s *Scheduler[T]) CurrentTick() int { return s.tick }

func (s *Scheduler[T]) InTick() bool { return s.inTick }

// Len - число валидных активных записей.
func (s *Scheduler[T]) Len() int {
	n := 0
	for _, e := range s.active {
		if e.valid {
			n++
		}
	}
	for _, e := range s.running {
		if e.valid {
			n++
		}
	}
	return n
}

// Pending - число валидных записей, ждущих следующего тика.
func (s *Scheduler[T]) Pending() int {
	n := 0
	for _, e := range s.pending {
		if e.valid {
			n++
		}
	}
	return n
}

// EntryView - запись очереди для отладки.
type EntryView struct {
	ID       string `json:"id"`
	Priority string `json:"priority"`
	Seq      uint64 `json:"seq"`
	Once     bool   `json:"once"`
	Pending  bool   `json:"pending"`
}

// Entries возвращает валидные записи в порядке исполнения (отложенные в конце).
func (s *Scheduler[T]) Entries() []EntryView {
	// Инициализируем как пустой слайс, а не nil. Тогда в JSON это будет "[]", а не "null"
	result := make([]EntryView, 0, len(s.active)+len(s.pending))

	ordered := s.clonedQueue()
	for ordered.Len() > 0 {
		e := heap.Pop(&ordered).(*entry[T])
		result = append(result, EntryView{ID: e.id, Priority: e.priority.String(), Seq: e.seq, Once: e.once})
	}
	for _, e := range s.pending {
		if e.valid {
			result = append(result, EntryView{ID: e.id, Priority: e.priority.String(), Seq: e.seq, Once: e.once, Pending: true})
		}
	}
	return result
}

func (s *Scheduler[T]) clonedQueue() actionQueue[T] {
	q := make(actionQueue[T], 0, len(s.active))
	for _, e := range s.active {
		if e.valid {
			cp := *e
			q = append(q, &cp)
		}
	}
	heap.Init(&q)
	return q
}

// Clone копирует очередь между тиками. Функции действий разделяются:
// они получают окружение аргументом и не держат состояние.
func (s *Scheduler[T]) Clone() *Scheduler[T] {
	c := &Scheduler[T]{seq: s.seq, tick: s.tick}
	c.active = s.clonedQueue()
	for _, e := range s.pending {
		if e.valid {
			cp := *e
			c.pending = append(c.pending, &cp)
		}
	}
	return c
}
