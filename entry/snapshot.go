package entry

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

const snapshotVersion = 1

type snapshot struct {
	Version    int             `json:"version"`
	Type       string          `json:"type"`
	Attributes []wireAttribute `json:"attributes"`
	Roles      []string        `json:"roles"`
}

type wireAttribute struct {
	Name  string    `json:"name"`
	Value wireValue `json:"value"`
}

type wireValue struct {
	Kind   string      `json:"kind"`
	String *string     `json:"string,omitempty"`
	Bytes  []byte      `json:"bytes,omitempty"`
	Bool   *bool       `json:"bool,omitempty"`
	Int    *int64      `json:"int,omitempty"`
	Time   *wireTime   `json:"time,omitempty"`
	List   []wireValue `json:"list,omitempty"`
}

// wireTime holds an instant as Unix seconds and nanoseconds so that years
// outside 0000-9999 survive.
type wireTime struct {
	Sec  int64 `json:"sec"`
	Nsec int64 `json:"nsec"`
}

// MarshalBinary encodes the object type, attributes and roles of e.
func (e *Entry) MarshalBinary() ([]byte, error) {
	snap := snapshot{
		Version:    snapshotVersion,
		Type:       e.objectType,
		Attributes: make([]wireAttribute, 0, len(e.attrs)),
		Roles:      e.Roles(),
	}
	for _, name := range e.Names() {
		snap.Attributes = append(snap.Attributes, wireAttribute{
			Name:  name,
			Value: toWire(e.Get(name)),
		})
	}
	return json.Marshal(snap)
}

// UnmarshalBinary replaces the state of e with a snapshot produced by
// MarshalBinary. On failure e is left untouched and the error is a
// *DecodeError.
func (e *Entry) UnmarshalBinary(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return decodeErr("malformed snapshot", err)
	}
	if snap.Version != snapshotVersion {
		return decodeErr(fmt.Sprintf("version %d", snap.Version), ErrUnsupportedVersion)
	}

	attrs := make(map[string]attribute, len(snap.Attributes))
	for _, wa := range snap.Attributes {
		if wa.Name == "" {
			return decodeErr("attribute without name", nil)
		}
		v, err := fromWire(wa.Value, false)
		if err != nil {
			return decodeErr(fmt.Sprintf("attribute %q", wa.Name), err)
		}
		if v.IsAbsent() {
			return decodeErr(fmt.Sprintf("attribute %q has no value", wa.Name), nil)
		}
		if _, dup := attrs[fold(wa.Name)]; dup {
			return decodeErr(fmt.Sprintf("duplicate attribute %q", wa.Name), nil)
		}
		attrs[fold(wa.Name)] = attribute{name: wa.Name, value: v}
	}

	e.objectType = snap.Type
	e.attrs = attrs
	e.SetRoles(snap.Roles)
	return nil
}

// Serialize is MarshalBinary.
func (e *Entry) Serialize() ([]byte, error) {
	return e.MarshalBinary()
}

// Restore is UnmarshalBinary.
func (e *Entry) Restore(data []byte) error {
	return e.UnmarshalBinary(data)
}

func toWire(v Value) wireValue {
	w := wireValue{Kind: v.kind.String()}
	switch v.kind {
	case KindString:
		// JSON strings cannot carry invalid UTF-8.
		if utf8.ValidString(v.s) {
			s := v.s
			w.String = &s
		} else {
			w.Bytes = []byte(v.s)
		}
	case KindBool:
		b := v.b
		w.Bool = &b
	case KindInt:
		i := v.i
		w.Int = &i
	case KindTime:
		w.Time = &wireTime{Sec: v.t.Unix(), Nsec: int64(v.t.Nanosecond())}
	case KindList:
		w.List = make([]wireValue, len(v.list))
		for i, e := range v.list {
			w.List[i] = toWire(e)
		}
	}
	return w
}

func fromWire(w wireValue, inList bool) (Value, error) {
	switch w.Kind {
	case "absent":
		return Value{}, nil
	case "string":
		switch {
		case w.String != nil:
			return String(*w.String), nil
		case w.Bytes != nil:
			return String(string(w.Bytes)), nil
		default:
			return Value{}, fmt.Errorf("string value missing")
		}
	case "bool":
		if w.Bool == nil {
			return Value{}, fmt.Errorf("bool value missing")
		}
		return Bool(*w.Bool), nil
	case "int":
		if w.Int == nil {
			return Value{}, fmt.Errorf("int value missing")
		}
		return Int(*w.Int), nil
	case "time":
		if w.Time == nil {
			return Value{}, fmt.Errorf("time value missing")
		}
		if w.Time.Nsec < 0 || w.Time.Nsec >= int64(time.Second) {
			return Value{}, fmt.Errorf("time nanoseconds %d out of range", w.Time.Nsec)
		}
		return Time(time.Unix(w.Time.Sec, w.Time.Nsec)), nil
	case "list":
		if inList {
			return Value{}, fmt.Errorf("nested list")
		}
		vals := make([]Value, 0, len(w.List))
		for _, e := range w.List {
			v, err := fromWire(e, true)
			if err != nil {
				return Value{}, err
			}
			if v.IsAbsent() {
				return Value{}, fmt.Errorf("absent list element")
			}
			vals = append(vals, v)
		}
		return Value{kind: KindList, list: vals}, nil
	default:
		return Value{}, fmt.Errorf("unknown value kind %q", w.Kind)
	}
}
