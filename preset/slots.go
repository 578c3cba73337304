package preset

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-voice/voice"
)

// SlotCount is the number of settings slots.
const SlotCount = 4

// Slot is one settings slot. An empty slot holds default parameters.
type Slot struct {
	Name   string
	Params voice.Parameters
	Empty  bool
}

func defaultSlot(i int) Slot {
	return Slot{
		Name:   fmt.Sprintf("Slot %d", i+1),
		Params: voice.DefaultParameters(),
		Empty:  true,
	}
}

// Slots holds SlotCount settings slots and the index of the current one.
// It is safe for concurrent use.
type Slots struct {
	mu      sync.Mutex
	slots   [SlotCount]Slot
	current int
}

// NewSlots returns empty slots named "Slot 1" to "Slot 4".
func NewSlots() *Slots {
	s := &Slots{}
	for i := range s.slots {
		s.slots[i] = defaultSlot(i)
	}
	return s
}

func validSlot(i int) bool {
	return i >= 0 && i < SlotCount
}

// Save stores p in slot i and renames it when name is not empty.
func (s *Slots) Save(i int, p voice.Parameters, name string) bool {
	if !validSlot(i) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot := &s.slots[i]
	slot.Params, slot.Empty = p, false
	if name != "" {
		slot.Name = name
	}
	return true
}

// Load returns the update restoring slot i. It reports false for empty or
// invalid slots.
func (s *Slots) Load(i int) (voice.ParameterUpdate, bool) {
	if !validSlot(i) {
		return voice.ParameterUpdate{}, false
	}

	s.mu.Lock()
	slot := s.slots[i]
	s.mu.Unlock()

	if slot.Empty {
		return voice.ParameterUpdate{}, false
	}

	return FromParameters(slot.Name, "", slot.Params).Update(), true
}

// Clear resets slot i, including its name.
func (s *Slots) Clear(i int) bool {
	if !validSlot(i) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[i] = defaultSlot(i)
	return true
}

// Rename sets the name of slot i.
func (s *Slots) Rename(i int, name string) bool {
	if !validSlot(i) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[i].Name = name
	return true
}

// Info returns slot i.
func (s *Slots) Info(i int) (Slot, bool) {
	if !validSlot(i) {
		return Slot{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.slots[i], true
}

// All returns a copy of every slot.
func (s *Slots) All() []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Slot(nil), s.slots[:]...)
}

// SetCurrent selects slot i.
func (s *Slots) SetCurrent(i int) bool {
	if !validSlot(i) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = i
	return true
}

// Current returns the selected slot index.
func (s *Slots) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

type slotJSON struct {
	Name        string              `json:"name"`
	F0Ratio     float64             `json:"f0_ratio"`
	Formants    voice.FormantRatios `json:"formant_ratios"`
	FormantLink bool                `json:"formant_link"`
	Empty       bool                `json:"is_empty"`
}

type slotsJSON struct {
	Slots   []slotJSON `json:"slots"`
	Current int        `json:"current_slot_index"`
}

// MarshalJSON implements json.Marshaler.
func (s *Slots) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := slotsJSON{Current: s.current}
	for _, slot := range s.slots {
		out.Slots = append(out.Slots, slotJSON{
			Name:        slot.Name,
			F0Ratio:     slot.Params.F0Ratio,
			Formants:    slot.Params.Formants,
			FormantLink: slot.Params.FormantLink,
			Empty:       slot.Empty,
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. Missing slots stay empty and
// extra slots are ignored.
func (s *Slots) UnmarshalJSON(data []byte) error {
	var in slotsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("preset: decode slots: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.slots {
		s.slots[i] = defaultSlot(i)
		if i >= len(in.Slots) {
			continue
		}

		js := in.Slots[i]
		if js.Name != "" {
			s.slots[i].Name = js.Name
		}
		s.slots[i].Empty = js.Empty
		if !js.Empty {
			s.slots[i].Params = voice.Parameters{
				F0Ratio:     js.F0Ratio,
				Formants:    js.Formants,
				FormantLink: js.FormantLink,
			}
		}
	}

	s.current = 0
	if validSlot(in.Current) {
		s.current = in.Current
	}
	return nil
}
