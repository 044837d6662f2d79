package ui

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"subcon/internal/api"
	"subcon/internal/config"
	"subcon/internal/models"
	"subcon/internal/ui/components"
	"subcon/internal/util"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Banner texts
const (
	msgFetched       = "Subscription status fetched successfully!"
	msgUpdated       = "Subscription updated successfully!"
	msgMissingFields = "Please fill all fields for update."
)

// SubscriptionService is the remote API the console talks to
type SubscriptionService interface {
	GetSubscriptionStatus(ctx context.Context, userID string) (models.Subscription, error)
	UpdateSubscription(ctx context.Context, update models.UpdateRequest) (models.Subscription, error)
}

// MessageKind distinguishes success banners from error banners
type MessageKind int

const (
	MessageSuccess MessageKind = iota
	MessageError
)

// Banner is the transient status message shown above both panels
type Banner struct {
	Text string
	Kind MessageKind

	// seq ties the banner to the clear scheduled when it was shown
	seq int
}

type focusTarget int

const (
	focusLookupUser focusTarget = iota
	focusLookupButton
	focusUpdateUser
	focusPlan
	focusEffectiveDate
	focusUpdateButton
	focusCount
)

func (f focusTarget) inLookupPanel() bool {
	return f == focusLookupUser || f == focusLookupButton
}

// Model is the subscription console: a lookup panel and an update panel
// sharing one status banner
type Model struct {
	LookupInput     textinput.Model
	UpdateUserInput textinput.Model
	DateInput       textinput.Model
	Plans           components.PlanListModel
	Spinner         spinner.Model

	LookupLoading bool
	UpdateLoading bool

	// Last fetched subscription and last update response, nil when absent
	Subscription   json.RawMessage
	UpdateResponse json.RawMessage

	Banner *Banner

	Width  int
	Height int

	focus     focusTarget
	bannerSeq int

	// Scroll positions of the two JSON boxes
	lookupOffset int
	updateOffset int

	service  SubscriptionService
	logger   logrus.FieldLogger
	ttl      time.Duration
	location *time.Location
	now      func() time.Time
	schedule func(d time.Duration, msg tea.Msg) tea.Cmd
}

// NewModel creates the console with inputs prefilled from cfg
func NewModel(service SubscriptionService, cfg *config.Config, logger logrus.FieldLogger) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		LookupInput:     newInput("e.g., USER_001", cfg.DefaultUserID),
		UpdateUserInput: newInput("e.g., USER_001", cfg.DefaultUserID),
		DateInput:       newInput(api.EffectiveDateLayout, ""),
		Plans:           components.NewPlanListModel(planListMaxWidth, planListHeight),
		Spinner:         s,
		service:         service,
		logger:          logger,
		ttl:             cfg.MessageTTL,
		location:        time.Local,
		now:             time.Now,
		schedule:        tick,
	}
	if m.ttl <= 0 {
		m.ttl = config.DefaultMessageTTL
	}

	m.DateInput.SetValue(api.FormatEffectiveDate(m.now().In(m.location)))
	m.Plans.Select(models.PlanMonthlySpiritual)
	m.setFocus(focusLookupUser)

	return m
}

const (
	planListMaxWidth = 36
	planListHeight   = 11
)

// planListWidth fits the picker inside an update panel on a terminal of the
// given width
func planListWidth(termWidth int) int {
	w := termWidth - 8
	if w > planListMaxWidth || termWidth <= 0 {
		return planListMaxWidth
	}
	if w < 12 {
		return 12
	}
	return w
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 128
	ti.Width = 30
	ti.SetValue(value)
	return ti
}

func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, textinput.Blink)
}

// Messages
type statusFetchedMsg struct {
	userID       string
	subscription json.RawMessage
	err          error
}

type updateSubmittedMsg struct {
	request  models.UpdateRequest
	response json.RawMessage
	err      error
}

type clearBannerMsg struct {
	seq int
}

// Commands
func fetchStatus(service SubscriptionService, userID string) tea.Cmd {
	return func() tea.Msg {
		sub, err := service.GetSubscriptionStatus(context.Background(), userID)
		return statusFetchedMsg{userID: userID, subscription: sub, err: err}
	}
}

func submitUpdate(service SubscriptionService, req models.UpdateRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := service.UpdateSubscription(context.Background(), req)
		return updateSubmittedMsg{request: req, response: resp, err: err}
	}
}

// FetchStatus starts a lookup for userID. A lookup already in flight is not
// cancelled; whichever response arrives last is what the panel shows.
func (m Model) FetchStatus(userID string) (Model, tea.Cmd) {
	m.Banner = nil
	return m.startFetch(userID)
}

func (m Model) startFetch(userID string) (Model, tea.Cmd) {
	m.LookupLoading = true
	m.Subscription = nil
	m.lookupOffset = 0
	m.logger.WithField("user_id", userID).Debug("fetching subscription status")
	return m, fetchStatus(m.service, userID)
}

// SubmitUpdate validates the update panel and, if every field is filled,
// sends the plan change
func (m Model) SubmitUpdate() (Model, tea.Cmd) {
	m.UpdateResponse = nil
	m.updateOffset = 0
	m.Banner = nil

	userID := strings.TrimSpace(m.UpdateUserInput.Value())
	plan := m.Plans.Selected()
	date := m.DateInput.Value()

	if util.AnyBlank(userID, string(plan), date) {
		cmd := m.showMessage(msgMissingFields, MessageError)
		return m, cmd
	}

	effectiveDate, err := api.NormalizeEffectiveDate(date, m.location)
	if err != nil {
		cmd := m.showMessage("Error: "+err.Error(), MessageError)
		return m, cmd
	}

	req := models.UpdateRequest{
		UserID:        userID,
		NewPlan:       plan,
		EffectiveDate: effectiveDate,
	}

	m.UpdateLoading = true
	m.logger.WithFields(logrus.Fields{
		"user_id":        req.UserID,
		"plan":           req.NewPlan,
		"effective_date": req.EffectiveDate,
	}).Debug("submitting subscription update")

	return m, submitUpdate(m.service, req)
}

// showMessage replaces the banner and schedules its removal after the TTL
func (m *Model) showMessage(text string, kind MessageKind) tea.Cmd {
	m.bannerSeq++
	m.Banner = &Banner{Text: text, Kind: kind, seq: m.bannerSeq}
	return m.schedule(m.ttl, clearBannerMsg{seq: m.bannerSeq})
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Plans.SetSize(planListWidth(msg.Width), planListHeight)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case statusFetchedMsg:
		m.LookupLoading = false
		if msg.err != nil {
			m.logger.WithError(msg.err).WithField("user_id", msg.userID).Info("subscription status lookup failed")
			cmd := m.showMessage(api.DescribeError("Error: ", msg.err), MessageError)
			return m, cmd
		}
		m.Subscription = msg.subscription
		cmd := m.showMessage(msgFetched, MessageSuccess)
		return m, cmd

	case updateSubmittedMsg:
		m.UpdateLoading = false
		if msg.err != nil {
			m.logger.WithError(msg.err).WithField("user_id", msg.request.UserID).Info("subscription update failed")
			cmd := m.showMessage(api.DescribeError("Error updating subscription: ", msg.err), MessageError)
			return m, cmd
		}
		m.UpdateResponse = msg.response
		clearCmd := m.showMessage(msgUpdated, MessageSuccess)

		// Refresh the lookup panel for the user that was just updated
		m.LookupInput.SetValue(msg.request.UserID)
		var fetch tea.Cmd
		m, fetch = m.startFetch(msg.request.UserID)
		return m, tea.Batch(clearCmd, fetch)

	case clearBannerMsg:
		if m.Banner != nil && m.Banner.seq == msg.seq {
			m.Banner = nil
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		cmd := m.setFocus((m.focus + 1) % focusCount)
		return m, cmd
	case "shift+tab":
		cmd := m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, cmd
	case "up", "down":
		if m.focus != focusPlan {
			next := m.focus + 1
			if msg.String() == "up" {
				next = m.focus + focusCount - 1
			}
			cmd := m.setFocus(next % focusCount)
			return m, cmd
		}
	case "ctrl+n":
		m.DateInput.SetValue(api.FormatEffectiveDate(m.now().In(m.location)))
		return m, nil
	case "pgdown", "pgup":
		m.scrollJSON(msg.String() == "pgdown")
		return m, nil
	case "enter":
		// Enter submits from the buttons and the lookup field only; the update
		// panel's fields need ctrl+s
		switch m.focus {
		case focusLookupUser, focusLookupButton:
			return m.FetchStatus(m.LookupInput.Value())
		case focusUpdateButton:
			return m.SubmitUpdate()
		}
	case "ctrl+s":
		if m.focus.inLookupPanel() {
			return m.FetchStatus(m.LookupInput.Value())
		}
		return m.SubmitUpdate()
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input or the plan picker
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusLookupUser:
		m.LookupInput, cmd = m.LookupInput.Update(msg)
	case focusUpdateUser:
		m.UpdateUserInput, cmd = m.UpdateUserInput.Update(msg)
	case focusEffectiveDate:
		m.DateInput, cmd = m.DateInput.Update(msg)
	case focusPlan:
		m.Plans, cmd = m.Plans.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f focusTarget) tea.Cmd {
	m.focus = f
	m.LookupInput.Blur()
	m.UpdateUserInput.Blur()
	m.DateInput.Blur()

	switch f {
	case focusLookupUser:
		return m.LookupInput.Focus()
	case focusUpdateUser:
		return m.UpdateUserInput.Focus()
	case focusEffectiveDate:
		return m.DateInput.Focus()
	}
	return nil
}

// scrollJSON moves the JSON box of the focused panel by half a page
func (m *Model) scrollJSON(down bool) {
	if m.focus.inLookupPanel() {
		vp := jsonViewport(m.Subscription, noSubscriptionText, m.lookupOffset)
		scroll(&vp, down)
		m.lookupOffset = vp.YOffset
		return
	}
	vp := jsonViewport(m.UpdateResponse, noUpdateResponseText, m.updateOffset)
	scroll(&vp, down)
	m.updateOffset = vp.YOffset
}
