package amatino

import (
	"fmt"
)

type unitKind uint8

const (
	globalUnit unitKind = iota + 1
	customUnit
)

// Denomination is the unit a value is expressed in: either a global unit,
// such as a major currency, or a custom unit defined inside an entity. The
// zero value is invalid.
type Denomination struct {
	kind unitKind
	id   int64
}

// GlobalDenomination denominates in the global unit with id.
func GlobalDenomination(id int64) Denomination {
	return Denomination{kind: globalUnit, id: id}
}

// CustomDenomination denominates in the custom unit with id.
func CustomDenomination(id int64) Denomination {
	return Denomination{kind: customUnit, id: id}
}

func (d Denomination) IsGlobal() bool { return d.kind == globalUnit }
func (d Denomination) IsCustom() bool { return d.kind == customUnit }
func (d Denomination) IsZero() bool   { return d.kind == 0 }

// ID returns the unit id, whichever kind of unit it is.
func (d Denomination) ID() int64 { return d.id }

func (d Denomination) String() string {
	switch d.kind {
	case globalUnit:
		return fmt.Sprintf("global unit %d", d.id)
	case customUnit:
		return fmt.Sprintf("custom unit %d", d.id)
	}
	return "no denomination"
}

// wireIDs returns the global and custom unit ids as sent to the API, one of
// which is always nil.
func (d Denomination) wireIDs() (global, custom *int64) {
	id := d.id
	switch d.kind {
	case globalUnit:
		return &id, nil
	case customUnit:
		return nil, &id
	}
	return nil, nil
}

func (d Denomination) validate() error {
	if d.IsZero() {
		return ErrInvalidDenomination
	}
	return nil
}

// put writes the denomination into a request body under keys suffixed with
// suffix, "_denomination" or "_id" depending on the resource.
func (d Denomination) put(m map[string]any, suffix string) {
	global, custom := d.wireIDs()
	m["global_unit"+suffix] = global
	m["custom_unit"+suffix] = custom
}

func denominationFromIDs(global, custom *int64) (Denomination, error) {
	switch {
	case global != nil && custom == nil:
		return GlobalDenomination(*global), nil
	case custom != nil && global == nil:
		return CustomDenomination(*custom), nil
	}
	return Denomination{}, ErrInvalidDenomination
}
