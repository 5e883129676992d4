package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastsToStudents(t *testing.T) {
	tests := []struct {
		notifType string
		want      bool
	}{
		{TypeNotice, true},
		{TypeMachine, true},
		{TypeComplaint, true},
		{TypeGeneral, false},
		{TypeOther, false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BroadcastsToStudents(tt.notifType), "type %q", tt.notifType)
	}
}
