package api

import "testing"

func TestPayloadValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload Validator
		wantErr bool
	}{
		{"move up", DirectionPayload{Direction: "up"}, false},
		{"move empty", DirectionPayload{}, true},
		{"move diagonal", DirectionPayload{Direction: "UP_LEFT"}, true},
		{"interact", EntityPayload{TargetID: "42"}, false},
		{"interact empty", EntityPayload{}, true},
		{"rewind", RewindPayload{Ticks: 2}, false},
		{"rewind zero", RewindPayload{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
