package tensor

import "fmt"

// Mode is one axis of the tensor.
type Mode uint8

const (
	// ModeUser is the row axis.
	ModeUser Mode = iota
	// ModeItem is the column axis.
	ModeItem
	// ModeWord is the vocabulary axis.
	ModeWord
)

// Modes lists all axes in file-naming order.
var Modes = []Mode{ModeUser, ModeItem, ModeWord}

// Key returns the coordinate of e along the mode.
func (m Mode) Key(e Entry) uint32 {
	switch m {
	case ModeUser:
		return e.User
	case ModeItem:
		return e.Item
	default:
		return e.Word
	}
}

// String returns the mode name used in shard file names.
func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "user"
	case ModeItem:
		return "prod"
	case ModeWord:
		return "word"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}
