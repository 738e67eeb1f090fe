package config

import "os"

const defaultAPIURL = "http://localhost:8080"

// APIURL returns the base URL for the asset audit API.
// It can be overridden with the ASSET_AUDIT_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("ASSET_AUDIT_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// Token returns the shared API secret sent in the X-API-Token header.
// Set via ASSET_AUDIT_TOKEN; defaults to the dev token.
func Token() string {
	if v := os.Getenv("ASSET_AUDIT_TOKEN"); v != "" {
		return v
	}
	return "dev-token"
}
