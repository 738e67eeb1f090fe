package snipeit

import "strings"

// Exact custom-field names the remote schema uses for the SAP reference,
// checked in priority order before falling back to a fuzzy scan.
var sapFieldNames = []string{
	"SAP Asset Number / ID",
	"SAP Asset Number",
}

// SAPAssetNumber resolves the SAP reference code from an asset's custom
// fields: exact well-known names first, then the first field (in supply
// order) whose display name or internal field name contains "sap"
// case-insensitively. Returns "" when nothing matches.
func SAPAssetNumber(fields CustomFields) string {
	for _, want := range sapFieldNames {
		for _, f := range fields {
			if f.Name == want {
				return f.Value
			}
		}
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.Name), "sap") ||
			strings.Contains(strings.ToLower(f.Field), "sap") {
			return f.Value
		}
	}
	return ""
}
