// Package interaction reads keyboard input in raw mode and delivers it
// as discrete key events on a channel.
package interaction

import (
	"os"

	"golang.org/x/sys/unix"
)

// KeyEvent is one decoded keypress.
type KeyEvent struct {
	Key  rune
	Type KeyType
}

type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
)

// KeyboardReader owns the terminal's raw mode for its lifetime. Close
// restores the saved termios state.
type KeyboardReader struct {
	oldState *unix.Termios
	input    chan KeyEvent
	stop     chan struct{}
}

func NewKeyboardReader() (*KeyboardReader, error) {
	kr := &KeyboardReader{
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}
	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}
	go kr.readInput()
	return kr, nil
}

func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 3)
	for {
		select {
		case <-kr.stop:
			return
		default:
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				continue
			}
			event := parseInput(buf[:n])
			if event == nil {
				continue
			}
			select {
			case kr.input <- *event:
			case <-kr.stop:
				return
			}
		}
	}
}

// parseInput decodes one raw read. Arrow keys and other CSI sequences
// are swallowed; the dashboard only acts on single characters, Ctrl+C,
// and a bare ESC.
func parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}
	if buf[0] == 3 {
		return &KeyEvent{Key: 3, Type: KeyChar}
	}
	if buf[0] == 27 {
		if len(buf) == 1 {
			return &KeyEvent{Key: 27, Type: KeyEscape}
		}
		return nil
	}
	return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
}

// Events returns the keyboard event channel.
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops the read loop and restores the terminal.
func (kr *KeyboardReader) Close() error {
	close(kr.stop)
	return kr.disableRawMode()
}
