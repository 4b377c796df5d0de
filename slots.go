package anzen

import "github.com/dmitrymomot/anzen/internal/pipeline"

// Slot identifies an optional entry of an execution context. Slots combine
// as a bit set; Has reports whether all given slots are present.
type Slot = pipeline.Slot

const (
	SlotID           = pipeline.SlotID
	SlotURL          = pipeline.SlotURL
	SlotAuth         = pipeline.SlotAuth
	SlotSegments     = pipeline.SlotSegments
	SlotSearchParams = pipeline.SlotSearchParams
	SlotBody         = pipeline.SlotBody
	SlotFormData     = pipeline.SlotFormData
	SlotChildren     = pipeline.SlotChildren
	SlotNamedSlots   = pipeline.SlotNamedSlots
)
