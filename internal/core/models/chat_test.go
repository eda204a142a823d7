package models

import (
	"reflect"
	"testing"
)

func TestChat_Validate(t *testing.T) {
	tests := []struct {
		name    string
		chat    Chat
		wantErr bool
	}{
		{"valid", Chat{ChatName: "Family", SourceDir: "/exports/Family"}, false},
		{"missing name", Chat{SourceDir: "/exports/x"}, true},
		{"blank name", Chat{ChatName: "  ", SourceDir: "/exports/x"}, true},
		{"missing source", Chat{ChatName: "Family"}, true},
		{"negative count", Chat{ChatName: "Family", SourceDir: "/x", MessageCount: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chat.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParticipants(t *testing.T) {
	c := Chat{Participants: []string{"Alice", "Bob Smith"}}
	joined := c.ParticipantList()
	if joined != "Alice, Bob Smith" {
		t.Errorf("ParticipantList() = %q", joined)
	}
	if got := SplitParticipants(joined); !reflect.DeepEqual(got, c.Participants) {
		t.Errorf("SplitParticipants() = %v", got)
	}
	if got := SplitParticipants(""); len(got) != 0 || got == nil {
		t.Errorf("SplitParticipants(\"\") = %#v", got)
	}
}
