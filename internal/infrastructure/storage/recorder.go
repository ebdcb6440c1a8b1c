package storage

import (
	"sync"
	"time"

	"dungeon-sim/internal/domain"
)

// ReplayRecorder копит принятые команды в памяти; Flush пишет файл реплея.
type ReplayRecorder struct {
	mu      sync.Mutex
	service *ReplayService
	session domain.ReplaySession
}

func NewReplayRecorder(service *ReplayService, runID, scenario string, seed uint64) *ReplayRecorder {
	return &ReplayRecorder{
		service: service,
		session: domain.ReplaySession{
			RunID:     runID,
			Scenario:  scenario,
			Seed:      seed,
			Timestamp: time.Now().UnixNano(),
		},
	}
}

func (r *ReplayRecorder) Record(a domain.ReplayAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.Actions = append(r.session.Actions, a)
	return nil
}

// Session возвращает копию накопленной сессии.
func (r *ReplayRecorder) Session() domain.ReplaySession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session
	s.Actions = append([]domain.ReplayAction(nil), r.session.Actions...)
	return s
}

// Flush сохраняет сессию и возвращает путь файла.
func (r *ReplayRecorder) Flush() (string, error) {
	s := r.Session()
	return r.service.Save(&s)
}
