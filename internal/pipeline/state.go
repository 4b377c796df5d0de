package pipeline

import (
	"strings"

	"github.com/dmitrymomot/anzen/schema"
)

// Slot identifies one optional entry of an execution context.
type Slot uint16

const (
	SlotID Slot = 1 << iota
	SlotURL
	SlotAuth
	SlotSegments
	SlotSearchParams
	SlotBody
	SlotFormData
	SlotChildren
	SlotNamedSlots
)

var slotNames = []struct {
	slot Slot
	name string
}{
	{SlotID, "id"},
	{SlotURL, "url"},
	{SlotAuth, "auth"},
	{SlotSegments, "segments"},
	{SlotSearchParams, "searchParams"},
	{SlotBody, "body"},
	{SlotFormData, "formData"},
	{SlotChildren, "children"},
	{SlotNamedSlots, "slots"},
}

// Has reports whether every slot in other is set in s.
func (s Slot) Has(other Slot) bool {
	return s&other == other
}

// Names lists the set slots in declaration order.
func (s Slot) Names() []string {
	var names []string
	for _, sn := range slotNames {
		if s.Has(sn.slot) {
			names = append(names, sn.name)
		}
	}
	return names
}

func (s Slot) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// State accumulates validated values while the stages run. A slot is
// marked only after its stage succeeded.
type State[A any] struct {
	Auth         A
	Segments     schema.Values
	SearchParams schema.Values
	Body         any
	FormData     schema.Values

	slots    Slot
	cleanups []func()
}

// Cleanup registers fn to run when the run is over, after the handler
// returned or a stage failed. Functions run in reverse registration order.
func (s *State[A]) Cleanup(fn func()) {
	s.cleanups = append(s.cleanups, fn)
}

func (s *State[A]) cleanup() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil
}

// Mark records slot as present.
func (s *State[A]) Mark(slot Slot) {
	s.slots |= slot
}

// Has reports whether slot is present.
func (s *State[A]) Has(slot Slot) bool {
	return s.slots.Has(slot)
}

// Slots returns the present slots.
func (s *State[A]) Slots() Slot {
	return s.slots
}
