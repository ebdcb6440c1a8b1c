package domain

// CanEnter - может ли e войти в клетку p. Пустая клетка всегда проходима,
// иначе разрешить вход должен каждый житель (кроме самого e).
func (m *GameMap) CanEnter(e *Entity, p Position) bool {
	c := m.cells[p]
	if c == nil {
		return true
	}
	for _, resident := range c.Entities() {
		if resident == e {
			continue
		}
		b, ok := As[Blocker](resident)
		if !ok || !b.CanEnter(m, resident, e) {
			return false
		}
	}
	return true
}

// MoveTo перемещает e в p. Возвращает false, если вход запрещён или e уже там.
//
// Порядок: все OnVacated старой клетки, затем перенос (с историей позиций),
// затем все OnOverlap новой клетки. Списки жителей снимаются до вызова колбэков.
func (m *GameMap) MoveTo(e *Entity, p Position) bool {
	if e.Pos == p || !m.has(e) {
		return false
	}
	if !m.CanEnter(e, p) {
		return false
	}

	for _, resident := range m.others(e.Pos, e) {
		if !m.has(resident) {
			continue
		}
		if v, ok := As[VacateHandler](resident); ok {
			v.OnVacated(m, resident, e)
		}
	}

	// Колбэк мог уничтожить или уже переместить сущность
	if !m.has(e) || e.Pos == p {
		return false
	}

	m.detach(e)
	e.setPosition(p)
	m.attach(e)

	isPlayer := m.IsPlayer(e)
	for _, resident := range m.others(p, e) {
		if !m.has(e) || e.Pos != p {
			break
		}
		if !m.has(resident) || resident.Pos != p {
			continue
		}
		if o, ok := As[OverlapHandler](resident); ok {
			o.OnOverlap(m, resident, e)
			continue
		}
		if !isPlayer {
			continue
		}
		// Подбор: игрок "перекрывает" предмет сам
		if c, ok := As[Collectable](resident); ok && c.Collectable() {
			if o, ok := As[OverlapHandler](e); ok {
				o.OnOverlap(m, e, resident)
			}
		}
	}
	return true
}

// MoveBy - MoveTo на соседнюю клетку.
func (m *GameMap) MoveBy(e *Entity, d Direction) bool {
	return m.MoveTo(e, e.Pos.Translate(d))
}

func (m *GameMap) has(e *Entity) bool {
	return m.registry[e.ID] == e
}

func (m *GameMap) others(p Position, e *Entity) []*Entity {
	c := m.cells[p]
	if c == nil {
		return nil
	}
	all := c.Entities()
	out := all[:0]
	for _, r := range all {
		if r != e {
			out = append(out, r)
		}
	}
	return out
}
