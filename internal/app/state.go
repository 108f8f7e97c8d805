// Package app provides the main Bubble Tea application model, the session
// state and the controller that drives iiko calls.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/iiko-checker-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// Operation identifies one of the four iiko actions.
type Operation int

const (
	// OpNone means no operation; used as the idle value of the busy latch.
	OpNone Operation = iota
	// OpAuthenticate requests an access token.
	OpAuthenticate
	// OpOrganizations lists organizations.
	OpOrganizations
	// OpTerminalGroups lists terminal groups of the selected organization.
	OpTerminalGroups
	// OpNomenclature fetches the menu of the selected organization.
	OpNomenclature
)

// Operations lists the runnable operations in display order.
var Operations = []Operation{OpAuthenticate, OpOrganizations, OpTerminalGroups, OpNomenclature}

// String returns the human-readable action name.
func (o Operation) String() string {
	switch o {
	case OpAuthenticate:
		return "Get Access Token"
	case OpOrganizations:
		return "Get Organizations"
	case OpTerminalGroups:
		return "Get Terminal Groups"
	case OpNomenclature:
		return "Get Nomenclature"
	default:
		return "None"
	}
}

// Phase is the session lifecycle stage derived from the state.
type Phase int

const (
	// PhaseUnauthenticated has no token; only authenticate is enabled.
	PhaseUnauthenticated Phase = iota
	// PhaseAuthenticated has a token but no selected organization.
	PhaseAuthenticated
	// PhaseOrganizationSelected has a token and a selected organization.
	PhaseOrganizationSelected
)

// String returns the string representation of a Phase.
func (p Phase) String() string {
	switch p {
	case PhaseUnauthenticated:
		return "Unauthenticated"
	case PhaseAuthenticated:
		return "Authenticated"
	case PhaseOrganizationSelected:
		return "Organization selected"
	default:
		return "Unknown"
	}
}

// Session holds the credentials and selection of the running process.
// It is never persisted.
type Session struct {
	APILogin               string
	Token                  string
	SelectedOrganizationID string
}

// State is the shared application state read by tabs and mutated by the
// Controller.
type State struct {
	mu sync.RWMutex

	session             Session
	organizations       []models.Organization
	organizationsLoaded bool
	pending             Operation

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty, unauthenticated state.
func NewState() *State {
	return &State{
		organizations: make([]models.Organization, 0),
		notifications: make([]Notification, 0),
	}
}

// Session returns a copy of the current session.
func (s *State) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// APILogin returns the login the next authenticate call will use.
func (s *State) APILogin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.APILogin
}

// SetAPILogin replaces the login.
func (s *State) SetAPILogin(login string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.APILogin = login
}

// Token returns the session token, or "" before authentication.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// SetToken stores the session token.
func (s *State) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Token = token
}

// IsAuthenticated reports whether a token is held.
func (s *State) IsAuthenticated() bool {
	return s.Token() != ""
}

// SetOrganizations replaces the organization list and selects the first
// entry. An empty list clears the selection.
func (s *State) SetOrganizations(orgs []models.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.organizations = make([]models.Organization, len(orgs))
	copy(s.organizations, orgs)
	s.organizationsLoaded = true

	s.session.SelectedOrganizationID = ""
	if len(orgs) > 0 {
		s.session.SelectedOrganizationID = orgs[0].ID
	}
}

// Organizations returns a copy of the organization list.
func (s *State) Organizations() []models.Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orgs := make([]models.Organization, len(s.organizations))
	copy(orgs, s.organizations)
	return orgs
}

// OrganizationsLoaded reports whether an organizations call has succeeded.
func (s *State) OrganizationsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.organizationsLoaded
}

// SelectedOrganizationID returns the selected organization id, or "".
func (s *State) SelectedOrganizationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.SelectedOrganizationID
}

// SelectedOrganization returns the selected organization, or nil.
func (s *State) SelectedOrganization() *models.Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.organizations {
		if s.organizations[i].ID == s.session.SelectedOrganizationID {
			org := s.organizations[i]
			return &org
		}
	}
	return nil
}

// SelectOrganization selects a loaded organization by id. Unknown ids are
// ignored.
func (s *State) SelectOrganization(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, org := range s.organizations {
		if org.ID == id {
			s.session.SelectedOrganizationID = id
			return true
		}
	}
	return false
}

// Phase derives the lifecycle stage from the session.
func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.session.Token == "":
		return PhaseUnauthenticated
	case s.session.SelectedOrganizationID == "":
		return PhaseAuthenticated
	default:
		return PhaseOrganizationSelected
	}
}

// CanRun reports whether op is enabled: nothing is in flight and its
// preconditions hold.
func (s *State) CanRun(op Operation) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending == OpNone && s.preconditionsLocked(op)
}

func (s *State) preconditionsLocked(op Operation) bool {
	switch op {
	case OpAuthenticate:
		return s.session.APILogin != ""
	case OpOrganizations:
		return s.session.Token != ""
	case OpTerminalGroups, OpNomenclature:
		return s.session.Token != "" && s.session.SelectedOrganizationID != ""
	default:
		return false
	}
}

// TryAcquire takes the busy latch for op when it is enabled.
func (s *State) TryAcquire(op Operation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != OpNone || !s.preconditionsLocked(op) {
		return false
	}
	s.pending = op
	return true
}

// Release frees the busy latch.
func (s *State) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = OpNone
}

// Pending returns the operation in flight, or OpNone.
func (s *State) Pending() Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Busy reports whether an operation is in flight.
func (s *State) Busy() bool {
	return s.Pending() != OpNone
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
