package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ValueKind discriminates the two cases of EventFlagValue. The set is closed;
// consumers may switch on it exhaustively.
type ValueKind uint8

const (
	KindState ValueKind = iota
	KindQuantity
)

// EventFlagValue is the observed value of a flag: either a binary state or a
// counter-like 32-bit quantity.
type EventFlagValue struct {
	kind     ValueKind
	state    bool
	quantity int32
}

// StateValue wraps a boolean flag state.
func StateValue(state bool) EventFlagValue {
	return EventFlagValue{kind: KindState, state: state}
}

// QuantityValue wraps a counter value.
func QuantityValue(quantity int32) EventFlagValue {
	return EventFlagValue{kind: KindQuantity, quantity: quantity}
}

func (v EventFlagValue) Kind() ValueKind { return v.kind }

// State returns the boolean payload; ok is false for Quantity values.
func (v EventFlagValue) State() (state bool, ok bool) {
	return v.state, v.kind == KindState
}

// Quantity returns the numeric payload; ok is false for State values.
func (v EventFlagValue) Quantity() (int32, bool) {
	return v.quantity, v.kind == KindQuantity
}

// String renders the lowercase boolean literal for states and the plain
// decimal representation for quantities. Downstream log parsers rely on this.
func (v EventFlagValue) String() string {
	if v.kind == KindQuantity {
		return strconv.FormatInt(int64(v.quantity), 10)
	}
	return strconv.FormatBool(v.state)
}

type valueJSON struct {
	Kind     string `json:"kind"`
	State    *bool  `json:"state,omitempty"`
	Quantity *int32 `json:"quantity,omitempty"`
}

func (v EventFlagValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindQuantity:
		return json.Marshal(valueJSON{Kind: "quantity", Quantity: &v.quantity})
	default:
		return json.Marshal(valueJSON{Kind: "state", State: &v.state})
	}
}

func (v *EventFlagValue) UnmarshalJSON(data []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "state":
		var state bool
		if raw.State != nil {
			state = *raw.State
		}
		*v = StateValue(state)
	case "quantity":
		var q int32
		if raw.Quantity != nil {
			q = *raw.Quantity
		}
		*v = QuantityValue(q)
	default:
		return fmt.Errorf("event flag value: unknown kind %q", raw.Kind)
	}
	return nil
}

// EventFlag is one immutable observation of one flag's value at one instant.
// Buffers preserve insertion order; records are never re-sorted by timestamp.
type EventFlag struct {
	Time  time.Time      `json:"ts"`
	Flag  uint32         `json:"flag"`
	Value EventFlagValue `json:"value"`
}

// FromState builds a record carrying a boolean state. Any flag id is
// accepted, including zero; the id-to-meaning mapping is external.
func FromState(t time.Time, flag uint32, state bool) EventFlag {
	return EventFlag{Time: t, Flag: flag, Value: StateValue(state)}
}

// FromQuantity builds a record carrying a counter value.
func FromQuantity(t time.Time, flag uint32, quantity int32) EventFlag {
	return EventFlag{Time: t, Flag: flag, Value: QuantityValue(quantity)}
}

// timeLayout is local wall-clock time at millisecond precision.
const timeLayout = "2006-01-02 15:04:05.000"

// String renders "<time> - <flag> - <value>" with the flag right-aligned in a
// minimum 10-character field. External log consumers parse this exact layout.
func (e EventFlag) String() string {
	return fmt.Sprintf("%s - %10d - %s", e.Time.Format(timeLayout), e.Flag, e.Value)
}
