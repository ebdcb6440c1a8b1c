package domain

import "strings"

// Position - координаты клетки сетки. Ось Y растёт вниз.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction - одно из четырёх кардинальных направлений (или отсутствие движения).
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// CardinalDirections в фиксированном порядке обхода соседей.
var CardinalDirections = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

var directionToString = map[Direction]string{
	DirNone:  "NONE",
	DirUp:    "UP",
	DirDown:  "DOWN",
	DirLeft:  "LEFT",
	DirRight: "RIGHT",
}

var directionStringToDir = map[string]Direction{
	"NONE":  DirNone,
	"UP":    DirUp,
	"DOWN":  DirDown,
	"LEFT":  DirLeft,
	"RIGHT": DirRight,
}

// ParseDirection конвертирует строку из JSON в Direction.
// Второе значение false для нераспознанной строки.
func ParseDirection(s string) (Direction, bool) {
	d, ok := directionStringToDir[strings.ToUpper(s)]
	return d, ok
}

func (d Direction) String() string {
	if val, ok := directionToString[d]; ok {
		return val
	}
	return "UNKNOWN"
}

// Offset возвращает смещение (dx, dy) для направления.
func (d Direction) Offset() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Valid reports whether d is one of the four movement directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// Layer - слой отрисовки и порядок хранения внутри клетки.
type Layer uint8

const (
	LayerFloor Layer = iota
	LayerItem
	LayerDoor
	LayerCharacter

	layerCount
)

func (l Layer) String() string {
	switch l {
	case LayerFloor:
		return "FLOOR"
	case LayerItem:
		return "ITEM"
	case LayerDoor:
		return "DOOR"
	case LayerCharacter:
		return "CHARACTER"
	}
	return "UNKNOWN"
}
