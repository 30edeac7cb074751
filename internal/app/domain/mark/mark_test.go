package mark_test

import (
	"buttonhandler/internal/app/domain/mark"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    mark.Mark
		wantErr bool
	}{
		{"CHAT", mark.Chat, false},
		{"log", mark.Log, false},
		{" chat ", mark.Chat, false},
		{"", "", true},
		{"STAFF", "", true},
	}

	for _, tt := range tests {
		got, err := mark.Parse(tt.in)
		if tt.wantErr {
			assert.Errorf(t, err, "метка %q", tt.in)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
