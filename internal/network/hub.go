package network

import (
	"sync"
	"sync/atomic"

	"dungeon-sim/pkg/api"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID наблюдателя -> Личный канал
	subscribers map[string]chan api.ServerResponse
	buffer      int
	dropped     atomic.Uint64
}

func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 100
	}
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
		buffer:      buffer,
	}
}

// Register создает личный канал для наблюдателя
func (b *Broadcaster) Register(id string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, b.buffer)
	b.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет сообщение конкретному ID (Unicast)
func (b *Broadcaster) SendTo(id string, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[id]; ok {
		b.offer(id, ch, msg)
	}
}

// Broadcast отправляет всем наблюдателям
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		b.offer(id, ch, msg)
	}
}

// PublishState - Broadcast снимка мира.
func (b *Broadcaster) PublishState(state *api.StateView) {
	b.Broadcast(api.ServerResponse{Type: "STATE", State: state})
}

// offer не блокирует тик: медленный наблюдатель теряет сообщение.
func (b *Broadcaster) offer(id string, ch chan api.ServerResponse, msg api.ServerResponse) {
	select {
	case ch <- msg:
	default:
		b.dropped.Add(1)
		logger.Log.WithFields(logrus.Fields{
			"component":  "hub",
			"subscriber": id,
		}).Warn("Channel full, message dropped")
	}
}

// HasSubscriber проверяет, подключён ли наблюдатель
func (b *Broadcaster) HasSubscriber(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped - сколько сообщений потеряно из-за переполненных каналов.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}
