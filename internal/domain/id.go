package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityID - упакованный идентификатор (Kind + Generation + Index)
type EntityID uint64

// NilEntityID никогда не выдаётся аллокатором.
const NilEntityID EntityID = 0

// Конфигурация битов
const (
	bitsIndex = 40
	bitsGen   = 16
	bitsKind  = 8

	// Сдвиги
	shiftGen  = bitsIndex
	shiftKind = bitsIndex + bitsGen

	// Маски (для извлечения значений)
	maskIndex = (1 << bitsIndex) - 1 // 0x000000FFFFFFFFFF
	maskGen   = (1 << bitsGen) - 1   // 0xFFFF
	maskKind  = (1 << bitsKind) - 1  // 0xFF
)

// PackEntityID создает ID из компонентов
func PackEntityID(kind Kind, gen uint16, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(gen) & maskGen) << shiftGen
	id |= (uint64(kind) & maskKind) << shiftKind
	return EntityID(id)
}

func (id EntityID) Kind() Kind {
	return Kind((id >> shiftKind) & maskKind)
}

// Generation растёт при перевыпуске идентичности (перенос игрока при перемотке).
func (id EntityID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// Fresh возвращает ID того же слота со следующим поколением.
func (id EntityID) Fresh() EntityID {
	return PackEntityID(id.Kind(), id.Generation()+1, id.Index())
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	// Удаляем кавычки, если есть
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// String для логов: выводим красиво [kind:gen:idx]
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d:%d]", id.Kind(), id.Generation(), id.Index())
}

// Key - стабильный строковый ключ для подписок планировщика.
func (id EntityID) Key() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseEntityID принимает десятичную форму из JSON или форму String().
func ParseEntityID(s string) (EntityID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		parts := strings.Split(s[1:len(s)-1], ":")
		if len(parts) != 3 {
			return NilEntityID, fmt.Errorf("malformed entity id %q", s)
		}
		kind := ParseKind(parts[0])
		gen, err := strconv.ParseUint(parts[1], 10, 16)
		if err != nil {
			return NilEntityID, fmt.Errorf("malformed entity id %q: %w", s, err)
		}
		idx, err := strconv.ParseUint(parts[2], 10, bitsIndex)
		if err != nil {
			return NilEntityID, fmt.Errorf("malformed entity id %q: %w", s, err)
		}
		return PackEntityID(kind, uint16(gen), idx), nil
	}
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilEntityID, fmt.Errorf("malformed entity id %q: %w", s, err)
	}
	return EntityID(val), nil
}

// IDAllocator выдаёт последовательные индексы. Нулевое значение готово к работе.
type IDAllocator struct {
	next uint64
}

func (a *IDAllocator) Next(kind Kind) EntityID {
	a.next++
	return PackEntityID(kind, 0, a.next)
}

// Issued - сколько индексов уже выдано.
func (a *IDAllocator) Issued() uint64 {
	return a.next
}
