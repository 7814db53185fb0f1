package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputRegularChar(t *testing.T) {
	event := parseInput([]byte{'q'})
	require.NotNil(t, event)
	assert.Equal(t, 'q', event.Key)
	assert.Equal(t, KeyChar, event.Type)
}

func TestParseInputCtrlC(t *testing.T) {
	event := parseInput([]byte{3})
	require.NotNil(t, event)
	assert.Equal(t, rune(3), event.Key)
	assert.Equal(t, KeyChar, event.Type)
}

func TestParseInputBareEscape(t *testing.T) {
	event := parseInput([]byte{27})
	require.NotNil(t, event)
	assert.Equal(t, KeyEscape, event.Type)
}

func TestParseInputCSISequenceSwallowed(t *testing.T) {
	// Up arrow: ESC [ A
	assert.Nil(t, parseInput([]byte{27, '[', 'A'}))
}

func TestParseInputEmpty(t *testing.T) {
	assert.Nil(t, parseInput(nil))
}
