package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dungeon-sim/internal/domain"

	"github.com/klauspost/compress/zstd"
)

const (
	MagicHeader string = `DSRP` // 4 байта
	Version1    uint32 = 1
)

// FileHeader пишется без сжатия: по нему файл опознаётся до распаковки.
type FileHeader struct {
	Magic   [4]byte // 4 байта
	Version uint32  // 4 байта
}

// SessionHeader - начало сжатого тела.
// binary.Write пишет его целиком: только массивы и числа.
type SessionHeader struct {
	Seed        uint64
	Timestamp   int64
	RunIDLen    uint16
	ScenarioLen uint16
	ActionCount uint32
}

// ActionRecord - запись действия фиксированной длины.
type ActionRecord struct {
	Tick      int32  // 4
	Action    uint8  // 1
	Direction uint8  // 1
	_         uint16 // выравнивание
	Ticks     int32  // 4
	Target    uint64 // 8
}

type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) (*ReplayService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create replay dir: %w", err)
	}
	return &ReplayService{SaveDir: dir}, nil
}

// Save пишет сессию в новый файл и возвращает его путь.
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("replay_%d_%d.dsrp", session.Seed, session.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeBinary(f, session); err != nil {
		return "", err
	}
	return path, f.Sync()
}

func writeBinary(w io.Writer, s *domain.ReplaySession) error {
	fh := FileHeader{Version: Version1}
	copy(fh.Magic[:], MagicHeader)
	if err := binary.Write(w, binary.LittleEndian, &fh); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if len(s.RunID) > 0xFFFF || len(s.Scenario) > 0xFFFF {
		return fmt.Errorf("run id or scenario too long")
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	sh := SessionHeader{
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		RunIDLen:    uint16(len(s.RunID)),
		ScenarioLen: uint16(len(s.Scenario)),
		ActionCount: uint32(len(s.Actions)),
	}
	if err := binary.Write(bw, binary.LittleEndian, &sh); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write session header: %w", err)
	}
	if _, err := bw.WriteString(s.RunID); err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.WriteString(s.Scenario); err != nil {
		enc.Close()
		return err
	}

	for _, act := range s.Actions {
		rec := ActionRecord{
			Tick:      int32(act.Tick),
			Action:    uint8(act.Command.Action),
			Direction: uint8(act.Command.Direction),
			Ticks:     int32(act.Command.Ticks),
			Target:    uint64(act.Command.Target),
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			enc.Close()
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
