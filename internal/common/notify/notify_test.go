package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)
	n.Success("Assessment completed successfully!")
	n.Error("Failed to load history")
	n.Info("Refreshing")

	assert.Equal(t, "✔ Assessment completed successfully!\n✖ Failed to load history\n• Refreshing\n", buf.String())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	_, ok := r.Last()
	assert.False(t, ok)

	r.Success("a")
	r.Error("b")
	r.Error("c")

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, Message{Level: LevelError, Text: "c"}, last)
	assert.Equal(t, 2, r.Count(LevelError))
	assert.Len(t, r.Messages(), 3)
}

func TestDiscardImplementsNotifier(t *testing.T) {
	var n Notifier = Discard{}
	n.Error("ignored")
}
