package amatino

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/s0up4200/amatino/api"
)

const (
	globalUnitPath     = "/units"
	globalUnitListPath = "/units/list"
	globalUnitKey      = "global_unit_id"

	customUnitPath = "/custom_units"
	customUnitKey  = "custom_unit_id"
)

// Custom unit bounds.
const (
	MinCustomUnitCodeLength = 3
	MaxCustomUnitCodeLength = 64
	MaxCustomUnitNameLength = 1024
	MaxCustomUnitDescLength = 1024
	MinCustomUnitExponent   = 0
	MaxCustomUnitExponent   = 6
	MinCustomUnitPriority   = -10000
	MaxCustomUnitPriority   = 10000
)

// Unit is the data shared by global and custom units.
type Unit struct {
	ID          int64
	Code        string
	Name        string
	Priority    int64
	Description string
	Exponent    int64
}

// GlobalUnit is a unit of account available to every entity, such as a major
// currency. Global units are read only.
type GlobalUnit struct {
	Unit
}

// Denomination returns the denomination for values expressed in u.
func (u GlobalUnit) Denomination() Denomination {
	return GlobalDenomination(u.ID)
}

// CustomUnit is a unit of account defined inside one entity.
type CustomUnit struct {
	Unit
	EntityID string
}

// Denomination returns the denomination for values expressed in u.
func (u CustomUnit) Denomination() Denomination {
	return CustomDenomination(u.ID)
}

// RetrieveGlobalUnit fetches one global unit.
func (c *Client) RetrieveGlobalUnit(ctx context.Context, id int64) (GlobalUnit, error) {
	resp, err := c.call(ctx, api.MethodGet, globalUnitPath, nil, api.NewParameters("", api.IntTarget(globalUnitKey, id)))
	if err != nil {
		return GlobalUnit{}, err
	}
	return firstOrObject(resp.Raw(), decodeGlobalUnit)
}

// ListGlobalUnits fetches every global unit.
func (c *Client) ListGlobalUnits(ctx context.Context) ([]GlobalUnit, error) {
	resp, err := c.call(ctx, api.MethodGet, globalUnitListPath, nil, api.Parameters{})
	if err != nil {
		return nil, err
	}
	return api.DeserialiseMany(resp, decodeGlobalUnit)
}

// CustomUnitFields are the caller supplied values of a custom unit.
type CustomUnitFields struct {
	Code        string
	Name        string
	Exponent    int64
	Description string
	Priority    int64
}

type customUnitArgs struct {
	id          *int64
	code        api.ConstrainedString
	name        api.ConstrainedString
	description api.ConstrainedString
	exponent    api.ConstrainedInteger
	priority    api.ConstrainedInteger
}

func newCustomUnitArgs(f CustomUnitFields) (customUnitArgs, error) {
	var a customUnitArgs
	var err error
	if a.code, err = api.NewBoundedString(f.Code, "code", MinCustomUnitCodeLength, MaxCustomUnitCodeLength); err != nil {
		return a, err
	}
	if a.name, err = api.NewConstrainedString(f.Name, "name", MaxCustomUnitNameLength); err != nil {
		return a, err
	}
	if a.description, err = api.NewConstrainedString(f.Description, "description", MaxCustomUnitDescLength); err != nil {
		return a, err
	}
	if a.exponent, err = api.NewBoundedInteger(f.Exponent, "exponent", MinCustomUnitExponent, MaxCustomUnitExponent); err != nil {
		return a, err
	}
	if a.priority, err = api.NewBoundedInteger(f.Priority, "priority", MinCustomUnitPriority, MaxCustomUnitPriority); err != nil {
		return a, err
	}
	return a, nil
}

func (a customUnitArgs) Serialise() any {
	m := map[string]any{
		"code":        a.code.Serialise(),
		"name":        a.name.Serialise(),
		"priority":    a.priority.Serialise(),
		"description": a.description.Serialise(),
		"exponent":    a.exponent.Serialise(),
	}
	if a.id != nil {
		m[customUnitKey] = *a.id
	}
	return m
}

// CreateCustomUnit creates a custom unit in entityID.
func (c *Client) CreateCustomUnit(ctx context.Context, entityID string, f CustomUnitFields) (CustomUnit, error) {
	args, err := newCustomUnitArgs(f)
	if err != nil {
		return CustomUnit{}, err
	}
	resp, err := c.send(ctx, api.MethodPost, customUnitPath, args, api.NewParameters(entityID))
	if err != nil {
		return CustomUnit{}, err
	}
	return api.DeserialiseFirst(resp, customUnitDecoder(entityID))
}

// RetrieveCustomUnit fetches one custom unit.
func (c *Client) RetrieveCustomUnit(ctx context.Context, entityID string, id int64) (CustomUnit, error) {
	units, err := c.RetrieveCustomUnits(ctx, entityID, id)
	if err != nil {
		return CustomUnit{}, err
	}
	if len(units) == 0 {
		return CustomUnit{}, &api.UnexpectedResponseTypeError{Expected: "non-empty list", Actual: "empty list"}
	}
	return units[0], nil
}

// RetrieveCustomUnits fetches several custom units in one request.
func (c *Client) RetrieveCustomUnits(ctx context.Context, entityID string, ids ...int64) ([]CustomUnit, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no custom unit ids", ErrInvalidArgument)
	}
	targets := make([]api.Target, len(ids))
	for i, id := range ids {
		targets[i] = api.IntTarget(customUnitKey, id)
	}
	resp, err := c.call(ctx, api.MethodGet, customUnitPath, nil, api.NewParameters(entityID, targets...))
	if err != nil {
		return nil, err
	}
	return api.DeserialiseMany(resp, customUnitDecoder(entityID))
}

// CustomUnitUpdate holds replacement values for UpdateCustomUnit. Nil fields
// keep the unit's current value.
type CustomUnitUpdate struct {
	Code        *string
	Name        *string
	Exponent    *int64
	Description *string
	Priority    *int64
}

// UpdateCustomUnit replaces unit's fields and returns the updated unit.
func (c *Client) UpdateCustomUnit(ctx context.Context, unit CustomUnit, u CustomUnitUpdate) (CustomUnit, error) {
	f := CustomUnitFields{
		Code:        unit.Code,
		Name:        unit.Name,
		Exponent:    unit.Exponent,
		Description: unit.Description,
		Priority:    unit.Priority,
	}
	if u.Code != nil {
		f.Code = *u.Code
	}
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Exponent != nil {
		f.Exponent = *u.Exponent
	}
	if u.Description != nil {
		f.Description = *u.Description
	}
	if u.Priority != nil {
		f.Priority = *u.Priority
	}

	args, err := newCustomUnitArgs(f)
	if err != nil {
		return CustomUnit{}, err
	}
	id := unit.ID
	args.id = &id

	resp, err := c.send(ctx, api.MethodPut, customUnitPath, args, api.NewParameters(unit.EntityID))
	if err != nil {
		return CustomUnit{}, err
	}
	updated, err := api.DeserialiseFirst(resp, customUnitDecoder(unit.EntityID))
	if err != nil {
		return CustomUnit{}, err
	}
	if updated.ID != unit.ID {
		return CustomUnit{}, &MismatchedIDError{Resource: "custom unit", Want: fmt.Sprint(unit.ID), Got: fmt.Sprint(updated.ID)}
	}
	return updated, nil
}

func decodeUnit(obj api.Object, idKey string) (Unit, error) {
	var u Unit
	var description *string
	err := requireAll(obj,
		field{idKey, &u.ID},
		field{"code", &u.Code},
		field{"name", &u.Name},
		field{"priority", &u.Priority},
		field{"description", &description},
		field{"exponent", &u.Exponent},
	)
	u.Description = derefString(description)
	return u, err
}

func decodeGlobalUnit(data json.RawMessage) (GlobalUnit, error) {
	obj, err := api.AsObject(data)
	if err != nil {
		return GlobalUnit{}, err
	}
	u, err := decodeUnit(obj, globalUnitKey)
	if err != nil {
		return GlobalUnit{}, err
	}
	return GlobalUnit{Unit: u}, nil
}

func customUnitDecoder(entityID string) api.DecodeFunc[CustomUnit] {
	return func(data json.RawMessage) (CustomUnit, error) {
		obj, err := api.AsObject(data)
		if err != nil {
			return CustomUnit{}, err
		}
		u, err := decodeUnit(obj, customUnitKey)
		if err != nil {
			return CustomUnit{}, err
		}
		return CustomUnit{Unit: u, EntityID: entityID}, nil
	}
}
