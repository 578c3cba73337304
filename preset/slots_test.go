package preset

import (
	"encoding/json"
	"testing"

	"github.com/cwbudde/algo-voice/voice"
)

func TestSlotsSaveLoadClear(t *testing.T) {
	s := NewSlots()
	p := voice.Parameters{F0Ratio: 1.5, Formants: voice.FormantRatios{F1: 1.1, F2: 1.2, F3: 1.3}}

	if _, ok := s.Load(0); ok {
		t.Fatal("Load() of empty slot reported ok")
	}

	if !s.Save(2, p, "bright") {
		t.Fatal("Save() = false")
	}

	u, ok := s.Load(2)
	if !ok {
		t.Fatal("Load() = false after Save()")
	}

	e := newEngine()
	e.SetParameters(u)
	if e.Parameters() != p {
		t.Fatalf("loaded parameters = %+v, want %+v", e.Parameters(), p)
	}

	info, _ := s.Info(2)
	if info.Name != "bright" || info.Empty {
		t.Fatalf("Info() = %+v", info)
	}

	if !s.Save(2, p, "") {
		t.Fatal("Save() = false")
	}
	if info, _ := s.Info(2); info.Name != "bright" {
		t.Fatalf("Save() with empty name renamed slot to %q", info.Name)
	}

	if !s.Clear(2) {
		t.Fatal("Clear() = false")
	}
	info, _ = s.Info(2)
	if info.Name != "Slot 3" || !info.Empty {
		t.Fatalf("Info() after Clear() = %+v", info)
	}
}

func TestSlotsInvalidIndex(t *testing.T) {
	s := NewSlots()

	for _, i := range []int{-1, SlotCount} {
		if s.Save(i, voice.DefaultParameters(), "") || s.Clear(i) || s.Rename(i, "x") || s.SetCurrent(i) {
			t.Fatalf("index %d accepted", i)
		}
		if _, ok := s.Load(i); ok {
			t.Fatalf("Load(%d) reported ok", i)
		}
		if _, ok := s.Info(i); ok {
			t.Fatalf("Info(%d) reported ok", i)
		}
	}
}

func TestSlotsRenameAndCurrent(t *testing.T) {
	s := NewSlots()

	if !s.Rename(0, "first") || !s.SetCurrent(3) {
		t.Fatal("Rename()/SetCurrent() = false")
	}

	all := s.All()
	if len(all) != SlotCount || all[0].Name != "first" || all[1].Name != "Slot 2" {
		t.Fatalf("All() = %+v", all)
	}
	if !all[0].Empty {
		t.Fatal("Rename() filled the slot")
	}
	if s.Current() != 3 {
		t.Fatalf("Current() = %d, want 3", s.Current())
	}
}

func TestSlotsJSON(t *testing.T) {
	s := NewSlots()
	s.Save(1, voice.Parameters{F0Ratio: 0.8, Formants: voice.FormantRatios{F1: 1, F2: 1, F3: 1}, FormantLink: true}, "low")
	s.SetCurrent(1)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	back := NewSlots()
	if err := json.Unmarshal(data, back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if back.Current() != 1 {
		t.Fatalf("Current() = %d, want 1", back.Current())
	}
	for i := 0; i < SlotCount; i++ {
		a, _ := s.Info(i)
		b, _ := back.Info(i)
		if a != b {
			t.Fatalf("slot %d = %+v, want %+v", i, b, a)
		}
	}

	if err := json.Unmarshal([]byte(`{"slots":[{"name":"x","is_empty":false,"f0_ratio":1.1}],"current_slot_index":9}`), back); err != nil {
		t.Fatal(err)
	}
	if info, _ := back.Info(0); info.Name != "x" || info.Empty || info.Params.F0Ratio != 1.1 {
		t.Fatalf("partial slot = %+v", info)
	}
	if info, _ := back.Info(1); !info.Empty {
		t.Fatal("missing slot should be empty")
	}
	if back.Current() != 0 {
		t.Fatalf("out-of-range current = %d, want 0", back.Current())
	}
}
