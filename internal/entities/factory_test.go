package entities_test

import (
	"errors"
	"testing"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/entities"
)

func TestFactory_Create(t *testing.T) {
	f := entities.NewFactory(entities.DefaultParams())

	tests := []struct {
		name    string
		spec    entities.Spec
		wantErr error
	}{
		{"player", spec(domain.KindPlayer, 0, 0), nil},
		{"door with rule", entities.Spec{Kind: domain.KindSwitchDoor, Logic: "xor"}, nil},
		{"bulb default rule", spec(domain.KindLightBulb, 0, 0), nil},
		{"unknown kind", spec(domain.KindUnknown, 0, 0), entities.ErrUnknownKind},
		{"portal without colour", spec(domain.KindPortal, 0, 0), entities.ErrInvalidAttribute},
		{"bad rule", entities.Spec{Kind: domain.KindLightBulb, Logic: "nand"}, entities.ErrInvalidAttribute},
		{"negative swamp", entities.Spec{Kind: domain.KindSwampTile, MovementFactor: -2}, entities.ErrInvalidAttribute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids domain.IDAllocator
			e, err := f.Create(tt.spec, &ids)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
				}
				if ids.Issued() != 0 {
					t.Error("failed Create consumed an id")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if e.Kind != tt.spec.Kind || e.ID.Kind() != tt.spec.Kind {
				t.Errorf("kind = %s / %s, want %s", e.Kind, e.ID.Kind(), tt.spec.Kind)
			}
			if e.Layer != tt.spec.Kind.DefaultLayer() {
				t.Errorf("Layer = %s, want %s", e.Layer, tt.spec.Kind.DefaultLayer())
			}
		})
	}
}

func TestBehaviour_CloneIsIndependent(t *testing.T) {
	var ids domain.IDAllocator
	f := entities.NewFactory(entities.DefaultParams())
	e, err := f.Create(spec(domain.KindMercenary, 0, 0), &ids)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	c := e.Clone()
	orig, _ := domain.As[domain.BattleParticipant](e)
	copied, _ := domain.As[domain.BattleParticipant](c)
	copied.Stats().Health = 1
	if orig.Stats().Health == 1 {
		t.Error("clone shares battle stats with the original")
	}
}
