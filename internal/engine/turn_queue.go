package engine

import "container/heap"

// Priority - полоса исполнения внутри тика. Меньше - раньше.
type Priority int

const (
	PriorityPlayerAction Priority = iota
	PriorityPlayerCallback
	PriorityAIAction
	PriorityAICallback
)

func (p Priority) String() string {
	switch p {
	case PriorityPlayerAction:
		return "player_action"
	case PriorityPlayerCallback:
		return "player_callback"
	case PriorityAIAction:
		return "ai_action"
	case PriorityAICallback:
		return "ai_callback"
	}
	return "unknown"
}

// Action - запланированное действие. Получает окружение при исполнении,
// поэтому не должно захватывать указатели на состояние мира.
type Action[T any] func(env T)

// entry обертка для элемента очереди приоритетов
type entry[T any] struct {
	action   Action[T]
	priority Priority
	seq      uint64 // порядок регистрации
	id       string
	once     bool
	valid    bool
	index    int // Индекс в куче
}

// actionQueue реализует heap.Interface: порядок (priority, seq).
type actionQueue[T any] []*entry[T]

func (pq actionQueue[T]) Len() int { return len(pq) }

func (pq actionQueue[T]) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}

func (pq actionQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *actionQueue[T]) Push(x any) {
	n := len(*pq)
	item := x.(*entry[T])
	item.index = n
	*pq = append(*pq, item)
}

func (pq *actionQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// drain извлекает все элементы в порядке исполнения.
func (pq *actionQueue[T]) drain() []*entry[T] {
	out := make([]*entry[T], 0, pq.Len())
	for pq.Len() > 0 {
		out = append(out, heap.Pop(pq).(*entry[T]))
	}
	return out
}
