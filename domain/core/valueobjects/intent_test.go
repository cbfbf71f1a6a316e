package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		input string
		want  Intent
	}{
		{"NO_ACTION", IntentNoAction},
		{"CREATE_NEW", IntentCreateNew},
		{"UPDATE", IntentUpdate},
		{"update", IntentUpdate},
		{"  CREATE_NEW  ", IntentCreateNew},
		{"DELETE", IntentNoAction},
		{"", IntentNoAction},
		{"garbage", IntentNoAction},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseIntent(tt.input), "input %q", tt.input)
	}
}

func TestIntentIsValid(t *testing.T) {
	assert.True(t, IntentNoAction.IsValid())
	assert.True(t, IntentCreateNew.IsValid())
	assert.True(t, IntentUpdate.IsValid())
	assert.False(t, Intent("ARCHIVE").IsValid())
	assert.False(t, Intent("").IsValid())
}
