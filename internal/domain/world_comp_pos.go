package domain

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// ManhattanTo - расстояние по сетке без диагоналей.
func (p Position) ManhattanTo(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

// ChebyshevTo - расстояние с учётом диагоналей (радиус квадрата).
func (p Position) ChebyshevTo(other Position) int {
	return max(abs(p.X-other.X), abs(p.Y-other.Y))
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	return p.ChebyshevTo(other) == 1
}

// IsCardinallyAdjacent - сосед по одной из четырёх сторон.
func (p Position) IsCardinallyAdjacent(other Position) bool {
	return p.ManhattanTo(other) == 1
}

// Shift возвращает новую позицию со смещением.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Translate сдвигает позицию на одну клетку в направлении d.
func (p Position) Translate(d Direction) Position {
	dx, dy := d.Offset()
	return p.Shift(dx, dy)
}

// CardinalNeighbours returns the four neighbours in Up, Down, Left, Right order.
func (p Position) CardinalNeighbours() [4]Position {
	var out [4]Position
	for i, d := range CardinalDirections {
		out[i] = p.Translate(d)
	}
	return out
}

// DirectionTo returns the direction of a cardinal neighbour, or DirNone.
func (p Position) DirectionTo(other Position) Direction {
	for _, d := range CardinalDirections {
		if p.Translate(d) == other {
			return d
		}
	}
	return DirNone
}

// Less orders positions row by row.
func (p Position) Less(other Position) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
