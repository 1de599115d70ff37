package amatino

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/s0up4200/amatino/api"
)

const (
	accountPath = "/accounts"
	accountKey  = "account_id"

	MaxAccountNameLength        = 1024
	MaxAccountDescriptionLength = 1024
)

// Account is a record of value of one type, in one denomination, inside an
// entity. Accounts may be nested under a parent of the same type.
type Account struct {
	ID                   int64
	EntityID             string
	Name                 string
	Type                 AMType
	Description          string
	ParentAccountID      *int64
	Denomination         Denomination
	CounterpartyEntityID *string
	Colour               Color
}

// AccountFields are the caller supplied values of an account.
type AccountFields struct {
	Name                 string
	Type                 AMType
	Denomination         Denomination
	Description          string
	ParentAccountID      *int64
	CounterpartyEntityID *string
	Colour               Color
}

type accountArgs struct {
	id           *int64
	name         api.ConstrainedString
	amType       AMType
	description  api.ConstrainedString
	parent       *int64
	denomination Denomination
	counterparty *string
	colour       Color
}

func newAccountArgs(f AccountFields) (accountArgs, error) {
	if !f.Type.Valid() {
		return accountArgs{}, fmt.Errorf("%w: account type %d", ErrInvalidArgument, int(f.Type))
	}
	if err := f.Denomination.validate(); err != nil {
		return accountArgs{}, err
	}
	if f.Colour != "" {
		if _, err := ParseColor(string(f.Colour)); err != nil {
			return accountArgs{}, err
		}
	}
	name, err := api.NewConstrainedString(f.Name, "name", MaxAccountNameLength)
	if err != nil {
		return accountArgs{}, err
	}
	description, err := api.NewConstrainedString(f.Description, "description", MaxAccountDescriptionLength)
	if err != nil {
		return accountArgs{}, err
	}
	return accountArgs{
		name:         name,
		amType:       f.Type,
		description:  description,
		parent:       f.ParentAccountID,
		denomination: f.Denomination,
		counterparty: f.CounterpartyEntityID,
		colour:       f.Colour,
	}, nil
}

func (a accountArgs) Serialise() any {
	m := map[string]any{
		"name":                   a.name.Serialise(),
		"type":                   int(a.amType),
		"description":            a.description.Serialise(),
		"parent_account_id":      a.parent,
		"counterparty_entity_id": a.counterparty,
		"colour":                 a.colour.serialise(),
	}
	a.denomination.put(m, "_id")
	if a.id != nil {
		m[accountKey] = *a.id
	}
	return m
}

// CreateAccount creates an account in entityID.
func (c *Client) CreateAccount(ctx context.Context, entityID string, f AccountFields) (Account, error) {
	args, err := newAccountArgs(f)
	if err != nil {
		return Account{}, err
	}
	resp, err := c.send(ctx, api.MethodPost, accountPath, args, api.NewParameters(entityID))
	if err != nil {
		return Account{}, err
	}
	return api.DeserialiseFirst(resp, accountDecoder(entityID))
}

// RetrieveAccount fetches one account.
func (c *Client) RetrieveAccount(ctx context.Context, entityID string, id int64) (Account, error) {
	resp, err := c.call(ctx, api.MethodGet, accountPath, nil, api.NewParameters(entityID, api.IntTarget(accountKey, id)))
	if err != nil {
		return Account{}, err
	}
	return api.DeserialiseFirst(resp, accountDecoder(entityID))
}

// FetchParent retrieves account's parent, or nil when it has none.
func (c *Client) FetchParent(ctx context.Context, account Account) (*Account, error) {
	if account.ParentAccountID == nil {
		return nil, nil
	}
	parent, err := c.RetrieveAccount(ctx, account.EntityID, *account.ParentAccountID)
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

// AccountUpdate holds replacement values for UpdateAccount. Nil fields keep
// the account's current value. Set ClearParent to make the account top level.
type AccountUpdate struct {
	Name                 *string
	Type                 *AMType
	Denomination         *Denomination
	Description          *string
	ParentAccountID      *int64
	ClearParent          bool
	CounterpartyEntityID *string
	Colour               *Color
}

// UpdateAccount replaces account's fields and returns the updated account.
func (c *Client) UpdateAccount(ctx context.Context, account Account, u AccountUpdate) (Account, error) {
	f := AccountFields{
		Name:                 account.Name,
		Type:                 account.Type,
		Denomination:         account.Denomination,
		Description:          account.Description,
		ParentAccountID:      account.ParentAccountID,
		CounterpartyEntityID: account.CounterpartyEntityID,
		Colour:               account.Colour,
	}
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Type != nil {
		f.Type = *u.Type
	}
	if u.Denomination != nil {
		f.Denomination = *u.Denomination
	}
	if u.Description != nil {
		f.Description = *u.Description
	}
	if u.ParentAccountID != nil {
		f.ParentAccountID = u.ParentAccountID
	}
	if u.ClearParent {
		f.ParentAccountID = nil
	}
	if u.CounterpartyEntityID != nil {
		f.CounterpartyEntityID = u.CounterpartyEntityID
	}
	if u.Colour != nil {
		f.Colour = *u.Colour
	}

	args, err := newAccountArgs(f)
	if err != nil {
		return Account{}, err
	}
	id := account.ID
	args.id = &id

	resp, err := c.send(ctx, api.MethodPut, accountPath, args, api.NewParameters(account.EntityID))
	if err != nil {
		return Account{}, err
	}
	updated, err := api.DeserialiseFirst(resp, accountDecoder(account.EntityID))
	if err != nil {
		return Account{}, err
	}
	if updated.ID != account.ID {
		return Account{}, &MismatchedIDError{Resource: "account", Want: fmt.Sprint(account.ID), Got: fmt.Sprint(updated.ID)}
	}
	return updated, nil
}

type accountDelete struct {
	id          int64
	replacement int64
}

func (a accountDelete) Serialise() any {
	return map[string]any{
		accountKey:               a.id,
		"replacement_account_id": a.replacement,
	}
}

// DeleteAccount deletes account. Its transactions are moved to the
// replacement account, which must be of the same type.
func (c *Client) DeleteAccount(ctx context.Context, account Account, replacementID int64) error {
	if replacementID == account.ID {
		return fmt.Errorf("%w: an account cannot replace itself", ErrInvalidArgument)
	}
	_, err := c.send(ctx, api.MethodDelete, accountPath, accountDelete{id: account.ID, replacement: replacementID}, api.NewParameters(account.EntityID))
	return err
}

func accountDecoder(entityID string) api.DecodeFunc[Account] {
	return func(data json.RawMessage) (Account, error) {
		obj, err := api.AsObject(data)
		if err != nil {
			return Account{}, err
		}

		a := Account{EntityID: entityID}
		var description *string
		var colour *string
		var globalID, customID *int64
		err = requireAll(obj,
			field{accountKey, &a.ID},
			field{"name", &a.Name},
			field{"type", &a.Type},
			field{"parent_account_id", &a.ParentAccountID},
			field{"global_unit_id", &globalID},
			field{"custom_unit_id", &customID},
			field{"counterparty_entity_id", &a.CounterpartyEntityID},
			field{"description", &description},
			field{"colour", &colour},
		)
		if err != nil {
			return Account{}, err
		}
		if a.Denomination, err = denominationFromIDs(globalID, customID); err != nil {
			return Account{}, fmt.Errorf("account %d: %w", a.ID, err)
		}
		a.Description = derefString(description)
		a.Colour = Color(derefString(colour))
		return a, nil
	}
}
