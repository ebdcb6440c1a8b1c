package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"dungeon-sim/internal/domain"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidReplay = errors.New("invalid replay file")

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(f)
}

func readBinary(r io.Reader) (*domain.ReplaySession, error) {
	// 1. Несжатый заголовок
	var fh FileHeader
	if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidReplay, err)
	}
	if string(fh.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidReplay)
	}
	if fh.Version != Version1 {
		return nil, fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalidReplay, fh.Version, Version1)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	// 2. Заголовок сессии
	var sh SessionHeader
	if err := binary.Read(dec, binary.LittleEndian, &sh); err != nil {
		return nil, fmt.Errorf("%w: session header: %v", ErrInvalidReplay, err)
	}
	strs := make([]byte, int(sh.RunIDLen)+int(sh.ScenarioLen))
	if _, err := io.ReadFull(dec, strs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReplay, err)
	}

	session := &domain.ReplaySession{
		RunID:     string(strs[:sh.RunIDLen]),
		Scenario:  string(strs[sh.RunIDLen:]),
		Seed:      sh.Seed,
		Timestamp: sh.Timestamp,
		Actions:   make([]domain.ReplayAction, 0, sh.ActionCount),
	}

	// 3. Действия
	for i := uint32(0); i < sh.ActionCount; i++ {
		var rec ActionRecord
		if err := binary.Read(dec, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: action %d: %v", ErrInvalidReplay, i, err)
		}
		session.Actions = append(session.Actions, domain.ReplayAction{
			Tick: int(rec.Tick),
			Command: domain.Command{
				Action:    domain.ActionType(rec.Action),
				Direction: domain.Direction(rec.Direction),
				Ticks:     int(rec.Ticks),
				Target:    domain.EntityID(rec.Target),
			},
		})
	}

	return session, nil
}
