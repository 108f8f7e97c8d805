package app

import (
	"time"

	"github.com/j-veylop/iiko-checker-tui/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// RunOperationMsg asks the controller to run an iiko operation.
type RunOperationMsg struct {
	Op Operation
}

// CallCompletedMsg carries the outcome of one iiko call back to the update loop.
type CallCompletedMsg struct {
	RequestBody any
	Data        any
	Method      string
	URL         string
	Op          Operation
	Status      int
	DurationMs  int
}

// CallRecordedMsg is sent after the controller has journaled a call.
type CallRecordedMsg struct {
	RecordID string
	Op       Operation
	Status   int
	Success  bool
}

// ArchiveUpdatedMsg is sent to every tab after a call reached the archive.
type ArchiveUpdatedMsg struct {
	RecordID string
}

// SetAPILoginMsg updates the login used by the next authenticate call.
type SetAPILoginMsg struct {
	Login string
}

// SelectOrganizationMsg selects a loaded organization.
type SelectOrganizationMsg struct {
	ID string
}

// SelectRecordMsg makes a logged call the active one.
type SelectRecordMsg struct {
	ID string
}

// ClearActivityMsg empties the activity log.
type ClearActivityMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// CopyToClipboardMsg requests copying text to clipboard.
type CopyToClipboardMsg struct {
	Text  string
	Label string
}

// ClipboardResultMsg contains the result of a clipboard operation.
type ClipboardResultMsg struct {
	Error   error
	Label   string
	Success bool
}
