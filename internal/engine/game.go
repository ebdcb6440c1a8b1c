package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/logic"
	"dungeon-sim/internal/systems"
	"dungeon-sim/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TimeTravelTicks - на сколько тиков назад отправляет портал времени.
const TimeTravelTicks = 30

// Ключи подписок планировщика.
const (
	keyPlayerMove     = "playerMoves"
	keyPlayerInteract = "playerInteracts"
	keyTickers        = "tickers"
)

// BattleResolver считает бой между игроком и врагом, меняя их BattleStats.
type BattleResolver interface {
	Resolve(player, enemy *domain.Entity)
}

// NoBattles оставляет характеристики без изменений.
type NoBattles struct{}

func (NoBattles) Resolve(_, _ *domain.Entity) {}

// EntityFactory создаёт сущности во время игры (спавн).
type EntityFactory interface {
	Build(kind domain.Kind, pos domain.Position, ids *domain.IDAllocator) (*domain.Entity, error)
}

// TickObserver получает уведомление после каждого тика и после перемотки.
type TickObserver interface {
	ObserveTick(g *Game, elapsed time.Duration)
}

// Game - корень симуляции: карта, логическая сеть, планировщик и генератор случайных чисел.
// Не потокобезопасен; для конкурентного доступа используется Session.
type Game struct {
	ID     string
	Name   string
	Config Config

	Map        *domain.GameMap
	Logic      *logic.Network
	Scheduler  *Scheduler[*Game]
	PathFinder *systems.PathFinder
	Battles    BattleResolver
	Factory    EntityFactory

	pcg *rand.PCG
	rng *rand.Rand
	ids domain.IDAllocator

	enemiesDestroyed int
	history          *History
	observers        []TickObserver
	initialised      bool
}

// NewGame создаёт пустую игру. Сущности добавляются через AddEntity, затем вызывается Init.
func NewGame(name string, cfg Config, factory EntityFactory) *Game {
	pcg := rand.NewPCG(cfg.Seed, cfg.Seed^0x9E3779B97F4A7C15)
	g := &Game{
		ID:         uuid.NewString(),
		Name:       name,
		Config:     cfg,
		Map:        domain.NewGameMap(),
		Scheduler:  NewScheduler[*Game](),
		PathFinder: systems.NewPathFinder(cfg.MaxPathDistance),
		Battles:    NoBattles{},
		Factory:    factory,
		pcg:        pcg,
		rng:        rand.New(pcg),
		history:    NewHistory(cfg.HistoryDepth),
	}
	g.Logic = logic.NewNetwork(g)
	g.Map.SetEnv(g)
	return g
}

// IDs - аллокатор идентификаторов игры.
func (g *Game) IDs() *domain.IDAllocator { return &g.ids }

// AddEntity кладёт сущность на карту. После Init новые участники сразу планируются.
func (g *Game) AddEntity(e *domain.Entity) error {
	if err := g.Map.AddEntity(e); err != nil {
		return err
	}
	if e.Kind == domain.KindPlayer && g.Map.Player() == nil {
		g.Map.SetPlayer(e.ID)
	}
	if g.initialised {
		g.schedule(e)
	}
	return nil
}

// Init связывает логическую сеть и порталы, регистрирует действия и сохраняет
// начальный снимок.
func (g *Game) Init() error {
	if g.initialised {
		return nil
	}
	if g.Map.Player() == nil {
		return ErrNoPlayer
	}

	entities := g.Map.Entities()
	if err := g.buildCircuit(entities); err != nil {
		return err
	}
	g.pairPortals(entities)
	for _, e := range entities {
		if in, ok := domain.As[domain.Initializer](e); ok {
			in.OnInit(g.Map, e)
		}
	}

	g.Scheduler.Register(runTickers, PriorityPlayerCallback, keyTickers)
	for _, e := range entities {
		g.schedule(e)
	}
	g.initialised = true
	g.history.Push(g.Snapshot())

	logger.Log.WithFields(logrus.Fields{
		"component": "game",
		"game_id":   g.ID,
		"name":      g.Name,
		"entities":  g.Map.Count(),
		"actions":   g.Scheduler.Len(),
		"seed":      g.Config.Seed,
	}).Info("Game initialised")
	return nil
}

func (g *Game) buildCircuit(entities []*domain.Entity) error {
	for _, e := range entities {
		member, ok := domain.As[domain.CircuitMember](e)
		if !ok {
			continue
		}
		switch member.CircuitRole() {
		case domain.RoleWire:
			g.Logic.AddConductor(e.ID, e.Pos, logic.KindWire)
		case domain.RoleSwitch:
			g.Logic.AddConductor(e.ID, e.Pos, logic.KindSwitch)
		case domain.RoleConsumer:
			rule, err := logic.ParseRule(member.RuleName())
			if err != nil {
				return fmt.Errorf("entity %s: %w", e.ID, err)
			}
			g.Logic.AddConsumer(e.ID, e.Pos, rule)
		}
	}
	g.Logic.Bind()
	return nil
}

// pairPortals связывает порталы одного цвета попарно в порядке обхода карты.
func (g *Game) pairPortals(entities []*domain.Entity) {
	waiting := make(map[string]*domain.Entity)
	for _, e := range entities {
		p, ok := domain.As[domain.Pairable](e)
		if !ok {
			continue
		}
		key := p.PairKey()
		other, found := waiting[key]
		if !found {
			waiting[key] = e
			continue
		}
		delete(waiting, key)
		p.Bind(other.ID)
		if op, ok := domain.As[domain.Pairable](other); ok {
			op.Bind(e.ID)
		}
	}
	for key, e := range waiting {
		logger.Log.WithFields(logrus.Fields{
			"component": "game",
			"portal":    e.ID.String(),
			"colour":    key,
		}).Warn("Portal has no partner")
	}
}

// schedule регистрирует действие ИИ для участника.
func (g *Game) schedule(e *domain.Entity) {
	if _, ok := domain.As[domain.Actor](e); ok {
		g.Scheduler.Register(actorAction(e.ID), PriorityAIAction, e.ID.Key())
	}
}

func actorAction(id domain.EntityID) Action[*Game] {
	return func(g *Game) {
		e := g.Map.Entity(id)
		if e == nil {
			return
		}
		if a, ok := domain.As[domain.Actor](e); ok {
			a.Act(g.Map, e)
		}
	}
}

func runTickers(g *Game) {
	tick := g.CurrentTick()
	for _, e := range g.Map.Entities() {
		if t, ok := domain.As[domain.Ticker](e); ok {
			t.OnTick(g.Map, e, tick)
		}
	}
}

// AddObserver подписывает наблюдателя тиков.
func (g *Game) AddObserver(o TickObserver) {
	g.observers = append(g.observers, o)
}

// --- domain.Env ---

// CurrentTick - число завершённых тиков (во время тика - номер текущего).
func (g *Game) CurrentTick() int { return g.Scheduler.CurrentTick() }

func (g *Game) Circuit() domain.Circuit { return g.Logic }

func (g *Game) Paths() domain.PathPlanner { return g.PathFinder }

func (g *Game) Rand() *rand.Rand { return g.rng }

func (g *Game) Unsubscribe(key string) { g.Scheduler.Unsubscribe(key) }

// Battle передаёт бой резолверу и убирает павших.
func (g *Game) Battle(player, enemy *domain.Entity) {
	ep, ok := domain.As[domain.BattleParticipant](enemy)
	if !ok || !ep.Hostile() {
		return
	}
	pp, ok := domain.As[domain.BattleParticipant](player)
	if !ok {
		return
	}

	g.Battles.Resolve(player, enemy)

	fields := logrus.Fields{
		"component":     "game",
		"tick":          g.CurrentTick(),
		"enemy":         enemy.ID.String(),
		"player_health": pp.Stats().Health,
		"enemy_health":  ep.Stats().Health,
	}
	logger.Log.WithFields(fields).Debug("Battle resolved")

	if !ep.Stats().Alive() {
		g.Map.Destroy(enemy)
	}
	if !pp.Stats().Alive() {
		logger.Log.WithFields(fields).Info("Player died")
		g.Map.Destroy(player)
	}
}

func (g *Game) RecordKill(e *domain.Entity) {
	g.enemiesDestroyed++
	logger.Log.WithFields(logrus.Fields{
		"component": "game",
		"tick":      g.CurrentTick(),
		"entity":    e.ID.String(),
		"total":     g.enemiesDestroyed,
	}).Debug("Enemy destroyed")
}

// Spawn создаёт сущность через фабрику и планирует её действия.
func (g *Game) Spawn(kind domain.Kind, pos domain.Position) (*domain.Entity, error) {
	if g.Factory == nil {
		return nil, fmt.Errorf("spawn %s: no entity factory", kind)
	}
	e, err := g.Factory.Build(kind, pos, &g.ids)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", kind, err)
	}
	if err := g.Map.AddEntity(e); err != nil {
		return nil, err
	}
	g.schedule(e)
	return e, nil
}

func (g *Game) EnemiesDestroyed() int { return g.enemiesDestroyed }

// --- Команды игрока ---

// TickMove двигает игрока в направлении d и продвигает симуляцию на тик.
func (g *Game) TickMove(d domain.Direction) (int, error) {
	if !d.Valid() {
		return g.CurrentTick(), fmt.Errorf("move %s: %w", d, ErrInvalidCommand)
	}
	if g.Map.Player() == nil {
		return g.CurrentTick(), ErrNoPlayer
	}
	g.Scheduler.RegisterOnce(func(g *Game) {
		p := g.Map.Player()
		if s, ok := domain.As[domain.Steerable](p); ok {
			s.Steer(g.Map, p, d)
		}
	}, PriorityPlayerAction, keyPlayerMove)
	t := g.tick()
	if g.timeTravelTriggered() {
		return g.travelBack(t)
	}
	return t, nil
}

func (g *Game) timeTravelTriggered() bool {
	for _, e := range g.Map.Entities() {
		if tt, ok := domain.As[domain.TimeTrigger](e); ok && tt.TimeTravelActive() {
			return true
		}
	}
	return false
}

// travelBack перематывает на TimeTravelTicks назад, но не дальше начала игры
// и самого старого сохранённого снимка.
func (g *Game) travelBack(t int) (int, error) {
	n := min(TimeTravelTicks, t)
	if oldest, ok := g.history.Oldest(); ok && t-n < oldest {
		n = t - oldest
	}
	if n <= 0 {
		return t, nil
	}
	logger.Log.WithFields(logrus.Fields{
		"component": "game",
		"game_id":   g.ID,
		"tick":      t,
		"ticks":     n,
	}).Info("⏳ Time travelling portal triggered")
	return g.Rewind(n)
}

// TickIdle продвигает симуляцию без действия игрока.
func (g *Game) TickIdle() int {
	return g.tick()
}

// Interact проверяет цель до планирования: отказ не меняет состояние.
func (g *Game) Interact(id domain.EntityID) (int, error) {
	player := g.Map.Player()
	if player == nil {
		return g.CurrentTick(), ErrNoPlayer
	}
	res := systems.ValidateInteraction(g.Map, player, id)
	if !res.Valid {
		if res.Unknown {
			return g.CurrentTick(), fmt.Errorf("interact %s: %w", id, ErrUnknownEntity)
		}
		return g.CurrentTick(), fmt.Errorf("interact %s: %s: %w", id, res.Message, ErrNotInteractable)
	}

	g.Scheduler.RegisterOnce(func(g *Game) {
		target := g.Map.Entity(id)
		p := g.Map.Player()
		if target == nil || p == nil {
			return
		}
		if in, ok := domain.As[domain.Interactable](target); ok {
			in.Interact(g.Map, target, p)
		}
	}, PriorityPlayerAction, keyPlayerInteract)
	return g.tick(), nil
}

// Apply исполняет проверенную команду.
func (g *Game) Apply(cmd domain.Command) (int, error) {
	switch cmd.Action {
	case domain.ActionIdle:
		return g.TickIdle(), nil
	case domain.ActionMove:
		return g.TickMove(cmd.Direction)
	case domain.ActionInteract:
		return g.Interact(cmd.Target)
	case domain.ActionRewind:
		return g.Rewind(cmd.Ticks)
	}
	return g.CurrentTick(), fmt.Errorf("action %s: %w", cmd.Action, ErrInvalidCommand)
}

func (g *Game) tick() int {
	start := time.Now()
	t := g.Scheduler.Tick(g)
	g.history.Push(g.Snapshot())
	elapsed := time.Since(start)
	g.notify(elapsed)

	logger.Log.WithFields(logrus.Fields{
		"component": "game",
		"game_id":   g.ID,
		"tick":      t,
		"entities":  g.Map.Count(),
		"elapsed":   elapsed,
	}).Debug("Tick complete")
	return t
}

func (g *Game) notify(elapsed time.Duration) {
	for _, o := range g.observers {
		o.ObserveTick(g, elapsed)
	}
}
