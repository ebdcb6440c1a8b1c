package systems

import (
	"container/heap"

	"dungeon-sim/internal/domain"
)

// MaxSearchDistance - после этой стоимости поиск прекращается.
const MaxSearchDistance = 200

// PathFinder - Dijkstra по 4-связной сетке с телепортами.
type PathFinder struct {
	MaxDistance int

	// Searches считает вызовы NextStep (для метрик).
	Searches uint64
}

func NewPathFinder(maxDistance int) *PathFinder {
	if maxDistance <= 0 {
		maxDistance = MaxSearchDistance
	}
	return &PathFinder{MaxDistance: maxDistance}
}

type pathNode struct {
	pos   domain.Position
	dist  int
	seq   uint64 // порядок вставки для стабильной развязки
	index int
}

// frontier - очередь с приоритетом по (dist, seq).
type frontier []*pathNode

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*f)
	*f = append(*f, n)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*f = old[0 : n-1]
	return item
}

// NextStep возвращает клетку рядом с src на кратчайшем пути к dst.
// Если src или dst не проиндексированы или пути нет, возвращается src.
//
// Вес ребра равен весу клетки назначения. Клетка с телепортом раскрывается
// в свои точки выхода с той же дистанцией вместо обычных соседей.
func (pf *PathFinder) NextStep(m *domain.GameMap, src, dst domain.Position, e *domain.Entity) domain.Position {
	pf.Searches++
	if src == dst || m.CellAt(src) == nil || m.CellAt(dst) == nil {
		return src
	}

	dist := map[domain.Position]int{src: 0}
	prev := make(map[domain.Position]domain.Position)
	visited := make(map[domain.Position]bool)

	var seq uint64
	pq := &frontier{}
	heap.Push(pq, &pathNode{pos: src, dist: 0, seq: seq})

	relax := func(from, to domain.Position, d int) {
		if old, ok := dist[to]; ok && old <= d {
			return
		}
		dist[to] = d
		prev[to] = from
		seq++
		heap.Push(pq, &pathNode{pos: to, dist: d, seq: seq})
	}

	for pq.Len() > 0 {
		curr := heap.Pop(pq).(*pathNode)
		if visited[curr.pos] || curr.dist > dist[curr.pos] {
			continue
		}
		if curr.pos == dst || curr.dist > pf.MaxDistance {
			break
		}
		visited[curr.pos] = true

		if curr.pos != src {
			if dests, ok := teleportTargets(m, curr.pos, e); ok {
				for _, p := range dests {
					if !visited[p] {
						relax(curr.pos, p, curr.dist)
					}
				}
				continue
			}
		}

		for _, n := range curr.pos.CardinalNeighbours() {
			if visited[n] || !m.CanEnter(e, n) {
				continue
			}
			relax(curr.pos, n, curr.dist+m.Weight(n))
		}
	}

	if _, reached := prev[dst]; !reached {
		return src
	}
	step := dst
	for {
		p := prev[step]
		if p == src {
			return step
		}
		step = p
	}
}

func teleportTargets(m *domain.GameMap, p domain.Position, e *domain.Entity) ([]domain.Position, bool) {
	for _, r := range m.EntitiesAt(p) {
		if t, ok := domain.As[domain.Teleporter](r); ok {
			return t.Destinations(m, r, e), true
		}
	}
	return nil, false
}
