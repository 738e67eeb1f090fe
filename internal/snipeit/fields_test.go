package snipeit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateField_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"null", `null`, ""},
		{"plain string", `"2023-01-01"`, "2023-01-01"},
		{"object with datetime", `{"datetime": "2023-01-01T00:00:00Z", "formatted": "Jan 1, 2023"}`, "2023-01-01T00:00:00Z"},
		{"object with formatted only", `{"formatted": "Jan 1, 2023"}`, "Jan 1, 2023"},
		{"object with neither", `{"something_else": "x"}`, ""},
		{"unexpected shape", `42`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DateField
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, d.Raw())
			assert.Equal(t, tt.want == "", d.IsZero())
		})
	}
}

func TestCustomFields_UnmarshalPreservesOrder(t *testing.T) {
	in := `{
		"Zebra Field": {"field": "_snipeit_zebra_1", "value": "z"},
		"Alpha Field": {"field": "_snipeit_alpha_2", "value": "a"},
		"MAC Address": {"field": "_snipeit_mac_address_3", "value": null}
	}`
	var cf CustomFields
	require.NoError(t, json.Unmarshal([]byte(in), &cf))
	require.Len(t, cf, 3)
	assert.Equal(t, "Zebra Field", cf[0].Name)
	assert.Equal(t, "Alpha Field", cf[1].Name)
	assert.Equal(t, "z", cf[0].Value)
	assert.Equal(t, "", cf[2].Value)
}

func TestCustomFields_UnmarshalEmptyShapes(t *testing.T) {
	for _, in := range []string{`null`, `[]`} {
		var cf CustomFields
		require.NoError(t, json.Unmarshal([]byte(in), &cf))
		assert.Empty(t, cf)
	}
}

func TestCustomFields_NumericValue(t *testing.T) {
	var cf CustomFields
	require.NoError(t, json.Unmarshal([]byte(`{"SAP Asset Number": {"field": "_snipeit_sap_1", "value": 900123}}`), &cf))
	require.Len(t, cf, 1)
	assert.Equal(t, "900123", cf[0].Value)
}

func TestSAPAssetNumber(t *testing.T) {
	tests := []struct {
		name   string
		fields CustomFields
		want   string
	}{
		{
			name: "exact primary name wins",
			fields: CustomFields{
				{Name: "SAP Asset Number", Value: "second"},
				{Name: "SAP Asset Number / ID", Value: "first"},
			},
			want: "first",
		},
		{
			name: "exact secondary name",
			fields: CustomFields{
				{Name: "Warranty", Value: "x"},
				{Name: "SAP Asset Number", Value: "sap-2"},
			},
			want: "sap-2",
		},
		{
			name: "fuzzy scan on display name, supply order",
			fields: CustomFields{
				{Name: "Old SAP Ref", Value: "old"},
				{Name: "New SAP Ref", Value: "new"},
			},
			want: "old",
		},
		{
			name: "fuzzy scan on internal field name",
			fields: CustomFields{
				{Name: "Finance Code", Field: "_snipeit_sap_asset_9", Value: "fin-1"},
			},
			want: "fin-1",
		},
		{
			name: "case-insensitive fuzzy",
			fields: CustomFields{
				{Name: "Sap Nummer", Value: "de-1"},
			},
			want: "de-1",
		},
		{
			name: "no match",
			fields: CustomFields{
				{Name: "MAC Address", Value: "aa:bb"},
			},
			want: "",
		},
		{name: "empty", fields: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SAPAssetNumber(tt.fields))
		})
	}
}
