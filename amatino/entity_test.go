package amatino

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/amatino/api"
)

const entityJSON = `{
	"entity_id": "b5a3bd94",
	"name": "Mega Corp",
	"description": null,
	"storage_region": 1,
	"owner": 7,
	"active": true,
	"permissions_graph": {"7": {"write": true}}
}`

func TestCreateEntity(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `[`+entityJSON+`]`)

	entity, err := client.CreateEntity(context.Background(), "Mega Corp", "", nil)
	require.NoError(t, err)

	assert.Equal(t, testEntityID, entity.ID)
	assert.Equal(t, "Mega Corp", entity.Name)
	assert.Empty(t, entity.Description)
	assert.Equal(t, int64(1), entity.RegionID)
	assert.Equal(t, int64(7), entity.OwnerID)
	assert.True(t, entity.Active)
	assert.Contains(t, entity.PermissionsGraph, "7")

	got := rec.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/entities", got.Path)
	assert.Empty(t, got.Query)
	assert.JSONEq(t, `[{"name":"Mega Corp","description":"","region_id":null}]`, got.Body)
}

func TestCreateEntityRejectsLongName(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `[]`)

	_, err := client.CreateEntity(context.Background(), strings.Repeat("n", maxEntityNameLength+1), "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrConstraint)
	assert.Zero(t, rec.count())
}

func TestRetrieveEntity(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `[`+entityJSON+`]`)

	entity, err := client.RetrieveEntity(context.Background(), testEntityID)
	require.NoError(t, err)
	assert.Equal(t, "Mega Corp", entity.Name)

	got := rec.last(t)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, testEntityID, got.Query.Get("entity_id"))
	assert.Empty(t, got.Body)
}

func TestRetrieveEntityMissingKey(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `[{"entity_id": "b5a3bd94", "name": "Mega Corp"}]`)

	_, err := client.RetrieveEntity(context.Background(), testEntityID)
	require.Error(t, err)

	var missing *api.MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "description", missing.Key)
}

func TestRetrieveEntityNullRequiredKey(t *testing.T) {
	body := strings.Replace(entityJSON, `"entity_id": "b5a3bd94"`, `"entity_id": null`, 1)
	client, _ := newTestClient(t, http.StatusOK, `[`+body+`]`)

	_, err := client.RetrieveEntity(context.Background(), testEntityID)
	var unexpected *api.UnexpectedResponseTypeError
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, "entity_id", unexpected.Key)
	assert.ErrorIs(t, err, api.ErrInvalidResponse)
}

func TestUpdateEntity(t *testing.T) {
	original := Entity{ID: testEntityID, Name: "Mega Corp", OwnerID: 7}

	t.Run("sends merged values", func(t *testing.T) {
		client, rec := newTestClient(t, http.StatusOK, `[`+strings.Replace(entityJSON, "Mega Corp", "Giga Corp", 1)+`]`)

		name := "Giga Corp"
		updated, err := client.UpdateEntity(context.Background(), original, EntityUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Giga Corp", updated.Name)
		assert.Equal(t, "Mega Corp", original.Name)

		got := rec.last(t)
		assert.Equal(t, http.MethodPut, got.Method)
		assert.JSONEq(t, `[{"entity_id":"b5a3bd94","name":"Giga Corp","description":"","owner_id":7,"permissions_graph":null}]`, got.Body)
	})

	t.Run("mismatched id", func(t *testing.T) {
		client, _ := newTestClient(t, http.StatusOK, `[`+strings.Replace(entityJSON, testEntityID, "other", 1)+`]`)

		_, err := client.UpdateEntity(context.Background(), original, EntityUpdate{})
		var mismatch *MismatchedIDError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "other", mismatch.Got)
	})
}

func TestDeleteEntity(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, ``)

	require.NoError(t, client.DeleteEntity(context.Background(), testEntityID))

	got := rec.last(t)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, testEntityID, got.Query.Get("entity_id"))
}
