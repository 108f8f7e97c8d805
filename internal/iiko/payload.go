package iiko

import (
	"encoding/json"

	"github.com/j-veylop/iiko-checker-tui/internal/models"
)

// TokenFrom extracts a non-empty "token" field from an access token response.
func TokenFrom(data any) (string, bool) {
	obj, ok := data.(map[string]any)
	if !ok {
		return "", false
	}
	token, ok := obj["token"].(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// OrganizationsFrom extracts the "organizations" array of an organizations
// response. A present but empty array is valid. Entries without a string id
// are skipped; optional fields of an unexpected type are left unset.
func OrganizationsFrom(data any) ([]models.Organization, bool) {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}
	items, ok := obj["organizations"].([]any)
	if !ok {
		return nil, false
	}

	orgs := make([]models.Organization, 0, len(items))
	for _, item := range items {
		if org, ok := organizationFrom(item); ok {
			orgs = append(orgs, org)
		}
	}
	return orgs, true
}

func organizationFrom(item any) (models.Organization, bool) {
	entry, ok := item.(map[string]any)
	if !ok {
		return models.Organization{}, false
	}
	id, _ := entry["id"].(string)
	if id == "" {
		return models.Organization{}, false
	}
	name, _ := entry["name"].(string)

	return models.Organization{
		ID:                id,
		Name:              name,
		Description:       optionalString(entry["description"]),
		Country:           optionalString(entry["country"]),
		RestaurantAddress: optionalString(entry["restaurantAddress"]),
	}, true
}

func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// TerminalGroupsFrom extracts the "terminalGroups" array of a terminal groups response.
func TerminalGroupsFrom(data any) ([]models.TerminalGroup, bool) {
	var payload struct {
		TerminalGroups *[]models.TerminalGroup `json:"terminalGroups"`
	}
	if !reshape(data, &payload) || payload.TerminalGroups == nil {
		return nil, false
	}
	return *payload.TerminalGroups, true
}

// ErrorDescription returns the "errorDescription" of an error body, if any.
func ErrorDescription(data any) string {
	obj, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	desc, _ := obj["errorDescription"].(string)
	return desc
}

// reshape converts a decoded JSON value into a typed target.
func reshape(data any, target any) bool {
	if _, ok := data.(map[string]any); !ok {
		return false
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, target) == nil
}
