package models

// Organization is one entry of the organizations list. Nullable upstream
// fields are pointers.
type Organization struct {
	Description       *string `json:"description"`
	Country           *string `json:"country"`
	RestaurantAddress *string `json:"restaurantAddress"`
	ID                string  `json:"id"`
	Name              string  `json:"name"`
}

// Label returns the name shown in the organization picker.
func (o Organization) Label() string {
	if o.Name != "" {
		return o.Name
	}
	return o.ID
}

// TerminalGroup is the per-organization block of a terminal groups response.
type TerminalGroup struct {
	OrganizationID string         `json:"organizationId"`
	Items          []TerminalItem `json:"items"`
}

// TerminalItem is a single terminal group.
type TerminalItem struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	Address        string `json:"address"`
}
