package fitting

import (
	"errors"
	"fmt"
	"strings"
)

// Slot names one of the three image inputs of a fitting.
type Slot int

const (
	SlotModel Slot = iota
	SlotTop
	SlotBottom
)

// Slots lists every slot in display order.
var Slots = []Slot{SlotModel, SlotTop, SlotBottom}

var ErrUnknownSlot = errors.New("fitting: unknown slot")

func (s Slot) String() string {
	switch s {
	case SlotModel:
		return "model"
	case SlotTop:
		return "top"
	case SlotBottom:
		return "bottom"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

func (s Slot) valid() bool {
	return s >= SlotModel && s <= SlotBottom
}

// ParseSlot resolves a slot from its name, ignoring case and surrounding space.
func ParseSlot(name string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "model":
		return SlotModel, nil
	case "top":
		return SlotTop, nil
	case "bottom":
		return SlotBottom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
}
