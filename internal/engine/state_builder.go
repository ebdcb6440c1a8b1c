package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/logic"
	"dungeon-sim/pkg/api"
)

// BuildState создает неизменяемый снимок мира для наблюдателей.
func (g *Game) BuildState() *api.StateView {
	state := &api.StateView{
		GameID:           g.ID,
		Name:             g.Name,
		Tick:             g.CurrentTick(),
		EnemiesDestroyed: g.enemiesDestroyed,
		Entities:         make([]api.EntityView, 0, g.Map.Count()),
	}
	if p := g.Map.Player(); p != nil {
		state.PlayerID = p.ID.Key()
	}

	for _, e := range g.Map.Entities() {
		view := api.EntityView{
			ID:    e.ID.Key(),
			Kind:  e.Kind.String(),
			Layer: e.Layer.String(),
		}
		view.Pos.X = e.Pos.X
		view.Pos.Y = e.Pos.Y
		if e.MovementFactor != 1 {
			view.MovementFactor = e.MovementFactor
		}
		if bp, ok := domain.As[domain.BattleParticipant](e); ok {
			s := bp.Stats()
			view.Stats = &api.StatsView{Health: s.Health, Attack: s.Attack, Defence: s.Defence, Hostile: bp.Hostile()}
		}
		if _, ok := domain.As[domain.CircuitMember](e); ok {
			active := g.Logic.IsActive(e.ID)
			view.Active = &active
		}
		state.Entities = append(state.Entities, view)
	}

	for _, c := range g.Logic.Conductors() {
		role := "wire"
		if c.Kind == logic.KindSwitch {
			role = "switch"
		}
		node := api.CircuitNodeView{ID: c.ID.Key(), Role: role, Active: c.Activated(), Tick: c.ActivatedTick()}
		for _, s := range c.Sources() {
			node.Sources = append(node.Sources, s.Key())
		}
		state.Circuit = append(state.Circuit, node)
	}
	for _, l := range g.Logic.Consumers() {
		state.Circuit = append(state.Circuit, api.CircuitNodeView{
			ID: l.ID.Key(), Role: "consumer", Rule: l.Rule.Name(), Active: l.Activated(),
		})
	}
	return state
}

// Digest - хеш состояния мира без идентификатора игры. Два прогона одного
// сценария с одним сидом и командами дают одинаковые дайджесты.
func (g *Game) Digest() string {
	state := g.BuildState()
	state.GameID = ""
	raw, err := json.Marshal(state)
	if err != nil {
		// StateView состоит только из сериализуемых полей
		panic(err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
