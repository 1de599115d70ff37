package amatino

import (
	"context"
	"encoding/json"

	"github.com/s0up4200/amatino/api"
)

const (
	entityPath = "/entities"

	maxEntityNameLength        = 1024
	maxEntityDescriptionLength = 1024
)

// Entity is a person, company, project or other thing whose finances are
// recorded. Entities hold Accounts, Transactions and Custom Units.
type Entity struct {
	ID               string
	Name             string
	Description      string
	RegionID         int64
	OwnerID          int64
	Active           bool
	PermissionsGraph map[string]any
}

type entityCreate struct {
	name        api.ConstrainedString
	description api.ConstrainedString
	regionID    *int64
}

func (a entityCreate) Serialise() any {
	return map[string]any{
		"name":        a.name.Serialise(),
		"description": a.description.Serialise(),
		"region_id":   a.regionID,
	}
}

type entityUpdate struct {
	entityID         string
	name             api.ConstrainedString
	description      api.ConstrainedString
	ownerID          int64
	permissionsGraph map[string]any
}

func (a entityUpdate) Serialise() any {
	return map[string]any{
		"entity_id":         a.entityID,
		"name":              a.name.Serialise(),
		"description":       a.description.Serialise(),
		"owner_id":          a.ownerID,
		"permissions_graph": a.permissionsGraph,
	}
}

// CreateEntity creates an entity. A nil regionID lets the API choose where
// the entity's data is stored.
func (c *Client) CreateEntity(ctx context.Context, name, description string, regionID *int64) (Entity, error) {
	n, err := api.NewConstrainedString(name, "name", maxEntityNameLength)
	if err != nil {
		return Entity{}, err
	}
	d, err := api.NewConstrainedString(description, "description", maxEntityDescriptionLength)
	if err != nil {
		return Entity{}, err
	}

	resp, err := c.send(ctx, api.MethodPost, entityPath, entityCreate{name: n, description: d, regionID: regionID}, api.Parameters{})
	if err != nil {
		return Entity{}, err
	}
	return api.DeserialiseFirst(resp, decodeEntity)
}

// RetrieveEntity fetches one entity by id.
func (c *Client) RetrieveEntity(ctx context.Context, entityID string) (Entity, error) {
	resp, err := c.call(ctx, api.MethodGet, entityPath, nil, api.NewParameters(entityID))
	if err != nil {
		return Entity{}, err
	}
	return api.DeserialiseFirst(resp, decodeEntity)
}

// EntityUpdate holds replacement values for UpdateEntity. Nil fields keep
// the entity's current value.
type EntityUpdate struct {
	Name             *string
	Description      *string
	OwnerID          *int64
	PermissionsGraph map[string]any
}

// UpdateEntity replaces entity's mutable fields and returns the updated
// entity. entity itself is unchanged.
func (c *Client) UpdateEntity(ctx context.Context, entity Entity, u EntityUpdate) (Entity, error) {
	name, description, ownerID, graph := entity.Name, entity.Description, entity.OwnerID, entity.PermissionsGraph
	if u.Name != nil {
		name = *u.Name
	}
	if u.Description != nil {
		description = *u.Description
	}
	if u.OwnerID != nil {
		ownerID = *u.OwnerID
	}
	if u.PermissionsGraph != nil {
		graph = u.PermissionsGraph
	}

	n, err := api.NewConstrainedString(name, "name", maxEntityNameLength)
	if err != nil {
		return Entity{}, err
	}
	d, err := api.NewConstrainedString(description, "description", maxEntityDescriptionLength)
	if err != nil {
		return Entity{}, err
	}

	args := entityUpdate{entityID: entity.ID, name: n, description: d, ownerID: ownerID, permissionsGraph: graph}
	resp, err := c.send(ctx, api.MethodPut, entityPath, args, api.NewParameters(entity.ID))
	if err != nil {
		return Entity{}, err
	}
	updated, err := api.DeserialiseFirst(resp, decodeEntity)
	if err != nil {
		return Entity{}, err
	}
	if updated.ID != entity.ID {
		return Entity{}, &MismatchedIDError{Resource: "entity", Want: entity.ID, Got: updated.ID}
	}
	return updated, nil
}

// DeleteEntity deletes an entity. Deleted entities can be restored.
func (c *Client) DeleteEntity(ctx context.Context, entityID string) error {
	_, err := c.call(ctx, api.MethodDelete, entityPath, nil, api.NewParameters(entityID))
	return err
}

func decodeEntity(data json.RawMessage) (Entity, error) {
	obj, err := api.AsObject(data)
	if err != nil {
		return Entity{}, err
	}

	var e Entity
	var description *string
	var region *int64
	err = requireAll(obj,
		field{"entity_id", &e.ID},
		field{"name", &e.Name},
		field{"description", &description},
		field{"storage_region", &region},
		field{"owner", &e.OwnerID},
		field{"active", &e.Active},
		field{"permissions_graph", &e.PermissionsGraph},
	)
	if err != nil {
		return Entity{}, err
	}
	e.Description = derefString(description)
	if region != nil {
		e.RegionID = *region
	}
	return e, nil
}
