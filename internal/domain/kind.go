package domain

import "strings"

// Kind - тип сущности. Хранится в старших битах EntityID.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPlayer
	KindWall
	KindBoulder
	KindSwitch
	KindWire
	KindLightBulb
	KindSwitchDoor
	KindPortal
	KindSwampTile
	KindTreasure
	KindExit
	KindZombieToast
	KindMercenary
	KindAssassin
	KindZombieSpawner
	KindTimeTravellingPortal
)

var kindToString = map[Kind]string{
	KindPlayer:               "player",
	KindWall:                 "wall",
	KindBoulder:              "boulder",
	KindSwitch:               "switch",
	KindWire:                 "wire",
	KindLightBulb:            "light_bulb",
	KindSwitchDoor:           "switch_door",
	KindPortal:               "portal",
	KindSwampTile:            "swamp_tile",
	KindTreasure:             "treasure",
	KindExit:                 "exit",
	KindZombieToast:          "zombie_toast",
	KindMercenary:            "mercenary",
	KindAssassin:             "assassin",
	KindZombieSpawner:        "zombie_toast_spawner",
	KindTimeTravellingPortal: "time_travelling_portal",
}

var kindStringToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindToString))
	for k, s := range kindToString {
		m[s] = k
	}
	return m
}()

// String возвращает строковое представление (для логов и дебага)
func (k Kind) String() string {
	if val, ok := kindToString[k]; ok {
		return val
	}
	return "unknown"
}

// ParseKind конвертирует строку в Kind (нужно для загрузки сценариев)
func ParseKind(s string) Kind {
	if val, ok := kindStringToKind[strings.ToLower(s)]; ok {
		return val
	}
	return KindUnknown
}

// DefaultLayer - слой, на котором живёт сущность данного типа.
func (k Kind) DefaultLayer() Layer {
	switch k {
	case KindPlayer, KindBoulder, KindZombieToast, KindMercenary, KindAssassin, KindWall, KindZombieSpawner:
		return LayerCharacter
	case KindSwitchDoor, KindPortal, KindTimeTravellingPortal, KindExit:
		return LayerDoor
	case KindTreasure, KindWire, KindLightBulb:
		return LayerItem
	}
	return LayerFloor
}
