package amatino

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/amatino/api"
)

const globalUnitJSON = `{
	"global_unit_id": 5,
	"code": "USD",
	"name": "US Dollar",
	"priority": 1,
	"description": null,
	"exponent": 2
}`

const customUnitJSON = `{
	"custom_unit_id": 8,
	"code": "PTS",
	"name": "Points",
	"priority": 10,
	"description": "Loyalty points",
	"exponent": 0
}`

func TestGlobalUnits(t *testing.T) {
	t.Run("retrieve one", func(t *testing.T) {
		client, rec := newTestClient(t, http.StatusOK, globalUnitJSON)

		unit, err := client.RetrieveGlobalUnit(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "USD", unit.Code)
		assert.Equal(t, int64(2), unit.Exponent)
		assert.Equal(t, GlobalDenomination(5), unit.Denomination())

		got := rec.last(t)
		assert.Equal(t, "/units", got.Path)
		assert.Equal(t, "5", got.Query.Get("global_unit_id"))
		assert.False(t, got.Query.Has("entity_id"))
	})

	t.Run("list", func(t *testing.T) {
		client, rec := newTestClient(t, http.StatusOK, `[`+globalUnitJSON+`,`+strings.Replace(globalUnitJSON, "USD", "EUR", 1)+`]`)

		units, err := client.ListGlobalUnits(context.Background())
		require.NoError(t, err)
		require.Len(t, units, 2)
		assert.Equal(t, "EUR", units[1].Code)
		assert.Equal(t, "/units/list", rec.last(t).Path)
	})
}

func TestCreateCustomUnit(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `[`+customUnitJSON+`]`)

	unit, err := client.CreateCustomUnit(context.Background(), testEntityID, CustomUnitFields{
		Code:        "PTS",
		Name:        "Points",
		Description: "Loyalty points",
		Priority:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), unit.ID)
	assert.Equal(t, testEntityID, unit.EntityID)
	assert.Equal(t, CustomDenomination(8), unit.Denomination())

	got := rec.last(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/custom_units", got.Path)
	assert.JSONEq(t, `[{"code":"PTS","name":"Points","priority":10,"description":"Loyalty points","exponent":0}]`, got.Body)
}

func TestCustomUnitConstraints(t *testing.T) {
	valid := CustomUnitFields{Code: "PTS", Name: "Points"}

	tests := []struct {
		name      string
		mutate    func(*CustomUnitFields)
		field     string
		wantBound string
	}{
		{name: "short code", mutate: func(f *CustomUnitFields) { f.Code = "PT" }, field: "code", wantBound: "minimum"},
		{name: "long code", mutate: func(f *CustomUnitFields) { f.Code = strings.Repeat("P", 65) }, field: "code", wantBound: "maximum"},
		{name: "long name", mutate: func(f *CustomUnitFields) { f.Name = strings.Repeat("n", 1025) }, field: "name", wantBound: "maximum"},
		{name: "negative exponent", mutate: func(f *CustomUnitFields) { f.Exponent = -1 }, field: "exponent", wantBound: "minimum"},
		{name: "large exponent", mutate: func(f *CustomUnitFields) { f.Exponent = 7 }, field: "exponent", wantBound: "maximum"},
		{name: "priority too high", mutate: func(f *CustomUnitFields) { f.Priority = 10001 }, field: "priority", wantBound: "maximum"},
		{name: "priority too low", mutate: func(f *CustomUnitFields) { f.Priority = -10001 }, field: "priority", wantBound: "minimum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, rec := newTestClient(t, http.StatusOK, `[]`)
			fields := valid
			tt.mutate(&fields)

			_, err := client.CreateCustomUnit(context.Background(), testEntityID, fields)
			var constraint *api.ConstraintError
			require.True(t, errors.As(err, &constraint), "got %v", err)
			assert.Equal(t, tt.field, constraint.Name)
			assert.Equal(t, tt.wantBound, constraint.Bound)
			assert.Zero(t, rec.count())
		})
	}

	t.Run("bounds are inclusive", func(t *testing.T) {
		client, _ := newTestClient(t, http.StatusOK, `[`+customUnitJSON+`]`)
		fields := CustomUnitFields{Code: "PTS", Name: "Points", Exponent: 6, Priority: -10000}

		_, err := client.CreateCustomUnit(context.Background(), testEntityID, fields)
		assert.NoError(t, err)
	})
}

func TestRetrieveCustomUnits(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `[`+customUnitJSON+`,`+strings.Replace(customUnitJSON, `"custom_unit_id": 8`, `"custom_unit_id": 9`, 1)+`]`)

	units, err := client.RetrieveCustomUnits(context.Background(), testEntityID, 8, 9)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, int64(9), units[1].ID)

	got := rec.last(t)
	assert.Equal(t, []string{"8", "9"}, got.Query["custom_unit_id"])

	_, err = client.RetrieveCustomUnits(context.Background(), testEntityID)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateCustomUnit(t *testing.T) {
	unit := CustomUnit{Unit: Unit{ID: 8, Code: "PTS", Name: "Points"}, EntityID: testEntityID}
	client, rec := newTestClient(t, http.StatusOK, `[`+customUnitJSON+`]`)

	priority := int64(10)
	description := "Loyalty points"
	updated, err := client.UpdateCustomUnit(context.Background(), unit, CustomUnitUpdate{Priority: &priority, Description: &description})
	require.NoError(t, err)
	assert.Equal(t, int64(10), updated.Priority)

	got := rec.last(t)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.JSONEq(t, `[{"custom_unit_id":8,"code":"PTS","name":"Points","priority":10,"description":"Loyalty points","exponent":0}]`, got.Body)
}
