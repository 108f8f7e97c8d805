package app

import (
	"context"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/iiko-checker-tui/internal/iiko"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
)

// Gateway issues the four iiko calls. *iiko.Client implements it.
type Gateway interface {
	Authenticate(ctx context.Context, apiLogin string) iiko.Result
	ListOrganizations(ctx context.Context, token string) iiko.Result
	ListTerminalGroups(ctx context.Context, token string, organizationIDs []string) iiko.Result
	GetNomenclature(ctx context.Context, token, organizationID string) iiko.Result
}

// Journal stores completed calls. Both *activity.Log and *services.Manager
// implement it.
type Journal interface {
	Record(method, url string, status int, requestBody, responseBody any, durationMs int) models.CallRecord
	Select(id string) bool
	Clear()
	Active() *models.CallRecord
	Records() []models.CallRecord
}

// Controller runs iiko operations against the shared State. It is only used
// from the Bubble Tea update loop; the network exchange itself runs inside
// the returned tea.Cmd.
type Controller struct {
	state   *State
	gateway Gateway
	journal Journal
}

// NewController creates a controller.
func NewController(state *State, gateway Gateway, journal Journal) *Controller {
	return &Controller{
		state:   state,
		gateway: gateway,
		journal: journal,
	}
}

// Run takes the busy latch and returns the command performing op. It returns
// nil without side effects when op is disabled: another call is in flight or
// a precondition (login, token, selected organization) is missing.
func (c *Controller) Run(op Operation) tea.Cmd {
	if !c.state.TryAcquire(op) {
		return nil
	}

	sess := c.state.Session()
	gw := c.gateway

	switch op {
	case OpAuthenticate:
		req := iiko.AccessTokenRequest{APILogin: sess.APILogin}
		return func() tea.Msg {
			res := gw.Authenticate(context.Background(), sess.APILogin)
			return completed(op, http.MethodPost, req, res)
		}

	case OpOrganizations:
		return func() tea.Msg {
			res := gw.ListOrganizations(context.Background(), sess.Token)
			return completed(op, http.MethodGet, nil, res)
		}

	case OpTerminalGroups:
		ids := []string{sess.SelectedOrganizationID}
		req := iiko.TerminalGroupsRequest{OrganizationIDs: ids}
		return func() tea.Msg {
			res := gw.ListTerminalGroups(context.Background(), sess.Token, ids)
			return completed(op, http.MethodPost, req, res)
		}

	case OpNomenclature:
		req := iiko.NomenclatureRequest{OrganizationID: sess.SelectedOrganizationID}
		return func() tea.Msg {
			res := gw.GetNomenclature(context.Background(), sess.Token, sess.SelectedOrganizationID)
			return completed(op, http.MethodPost, req, res)
		}
	}

	c.state.Release()
	return nil
}

func completed(op Operation, method string, requestBody any, res iiko.Result) CallCompletedMsg {
	return CallCompletedMsg{
		Op:          op,
		Method:      method,
		URL:         res.URL,
		RequestBody: requestBody,
		Status:      res.Status,
		Data:        res.Data,
		DurationMs:  res.DurationMs,
	}
}

// Complete journals the outcome of a call, releases the busy latch and, on a
// 200 with the expected payload, updates the session. It reports whether the
// call succeeded.
func (c *Controller) Complete(msg CallCompletedMsg) (models.CallRecord, bool) {
	defer c.state.Release()

	rec := c.journal.Record(msg.Method, msg.URL, msg.Status, msg.RequestBody, msg.Data, msg.DurationMs)
	if msg.Status != http.StatusOK {
		return rec, false
	}

	switch msg.Op {
	case OpAuthenticate:
		token, ok := iiko.TokenFrom(msg.Data)
		if !ok {
			return rec, false
		}
		c.state.SetToken(token)

	case OpOrganizations:
		orgs, ok := iiko.OrganizationsFrom(msg.Data)
		if !ok {
			return rec, false
		}
		c.state.SetOrganizations(orgs)

	case OpTerminalGroups:
		if _, ok := iiko.TerminalGroupsFrom(msg.Data); !ok {
			return rec, false
		}
	}

	return rec, true
}

// SetAPILogin replaces the login used by the next authenticate call.
func (c *Controller) SetAPILogin(login string) {
	c.state.SetAPILogin(login)
}

// SelectOrganization changes the selected organization.
func (c *Controller) SelectOrganization(id string) bool {
	return c.state.SelectOrganization(id)
}

// SelectRecord makes a logged call the active one.
func (c *Controller) SelectRecord(id string) bool {
	return c.journal.Select(id)
}

// ClearActivity empties the activity log.
func (c *Controller) ClearActivity() {
	c.journal.Clear()
}

// Active returns the active call record, or nil.
func (c *Controller) Active() *models.CallRecord {
	return c.journal.Active()
}
