package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFocusedCardTruncatesContent(t *testing.T) {
	long := strings.Repeat("a", 500)
	card := &Card{ID: 7, Title: "Long card", Content: long}

	focused := NewFocusedCard(card)

	assert.Equal(t, int64(7), focused.ID)
	assert.Equal(t, "Long card", focused.Title)
	assert.True(t, strings.HasSuffix(focused.Content, "..."))
	assert.LessOrEqual(t, len(focused.Content), FocusedCardContentLimit+3)
}

func TestNewFocusedCardShortContentUntouched(t *testing.T) {
	card := &Card{ID: 1, Title: "Short", Content: "brief note"}

	focused := NewFocusedCard(card)

	assert.Equal(t, "brief note", focused.Content)
}

func TestTruncateContentRuneSafe(t *testing.T) {
	content := strings.Repeat("ü", 250)

	got := TruncateContent(content, 200)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 200, len([]rune(strings.TrimSuffix(got, "..."))))
}

func TestSessionTouch(t *testing.T) {
	session := NewSession("user-1")
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, 0, session.MessageCount)

	session.Touch()
	session.Touch()

	assert.Equal(t, 2, session.MessageCount)
	assert.NotEmpty(t, session.LastActivity)
}
