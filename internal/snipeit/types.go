package snipeit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NamedRef is the {id, name} shape the remote uses for nested references
// (model, category, location, status label).
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Assignee is the user (or other holder) an asset is checked out to.
type Assignee struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// DisplayName returns the assignee's name, falling back to username.
func (a *Assignee) DisplayName() string {
	if a == nil {
		return ""
	}
	if a.Name != "" {
		return a.Name
	}
	return a.Username
}

// User is the remote's current-user shape.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Location is the remote location shape. Parent is nil for top-level
// locations.
type Location struct {
	ID     int64     `json:"id"`
	Name   string    `json:"name"`
	Parent *NamedRef `json:"parent"`
}

// DateField decodes the remote's inconsistent date encodings: absent/null,
// a plain string, or an object carrying "datetime" and/or "formatted".
// The object form prefers datetime over formatted.
type DateField struct {
	raw string
}

// Raw returns the extracted date string, or "" when the field was absent,
// null, or carried neither datetime nor formatted.
func (d DateField) Raw() string { return d.raw }

// IsZero reports whether no date value was supplied.
func (d DateField) IsZero() bool { return d.raw == "" }

func (d *DateField) UnmarshalJSON(data []byte) error {
	d.raw = ""
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.raw = s
		return nil
	}
	var obj struct {
		Datetime  string `json:"datetime"`
		Formatted string `json:"formatted"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Unexpected shape (number, array): treat as no value.
		return nil
	}
	if obj.Datetime != "" {
		d.raw = obj.Datetime
	} else {
		d.raw = obj.Formatted
	}
	return nil
}

func (d DateField) MarshalJSON() ([]byte, error) {
	if d.raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(d.raw)
}

// CustomField is one entry from the remote's custom_fields object. Name is
// the JSON key (the field's display name), Field the internal column name.
type CustomField struct {
	Name  string
	Field string
	Value string
}

// CustomFields preserves the order the remote supplied the fields in, which
// the SAP resolver's first-match rule depends on. A plain map would lose it.
type CustomFields []CustomField

func (cf *CustomFields) UnmarshalJSON(data []byte) error {
	*cf = nil
	switch {
	case string(data) == "null":
		return nil
	case len(data) > 0 && data[0] == '[':
		// The remote sends an empty array when an asset has no custom fields.
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("custom_fields: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)
		var body struct {
			Field string          `json:"field"`
			Value json.RawMessage `json:"value"`
		}
		if err := dec.Decode(&body); err != nil {
			return err
		}
		*cf = append(*cf, CustomField{
			Name:  name,
			Field: body.Field,
			Value: rawToString(body.Value),
		})
	}
	return nil
}

// rawToString renders a custom field value as text: strings unquoted,
// numbers as-is, null/objects as empty.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// Asset is the raw remote hardware shape, trimmed to the fields the audit
// service consumes.
type Asset struct {
	ID            int64        `json:"id"`
	AssetTag      string       `json:"asset_tag"`
	Name          string       `json:"name"`
	Serial        string       `json:"serial"`
	Model         *NamedRef    `json:"model"`
	Category      *NamedRef    `json:"category"`
	StatusLabel   *NamedRef    `json:"status_label"`
	Location      *NamedRef    `json:"location"`
	RTDLocation   *NamedRef    `json:"rtd_location"`
	AssignedTo    *Assignee    `json:"assigned_to"`
	LastAuditDate DateField    `json:"last_audit_date"`
	NextAuditDate DateField    `json:"next_audit_date"`
	CustomFields  CustomFields `json:"custom_fields"`
}

// CurrentLocation returns the checked-out location if set, else the
// default (rtd) location.
func (a *Asset) CurrentLocation() *NamedRef {
	if a.Location != nil {
		return a.Location
	}
	return a.RTDLocation
}
