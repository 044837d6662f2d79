package ui

import (
	"fmt"
	"strings"

	"subcon/internal/util"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

const (
	noSubscriptionText   = "No data fetched yet."
	noUpdateResponseText = "No update response yet."

	// maxJSONLines is the tallest a JSON box grows before it scrolls
	maxJSONLines = 12
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("22")).
			Background(lipgloss.Color("157")).
			Padding(0, 2)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("52")).
			Background(lipgloss.Color("217")).
			Padding(0, 2)

	lookupPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(0, 1)

	updatePanelStyle = lookupPanelStyle.
				BorderForeground(lipgloss.Color("99"))

	headingStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("240")).
			Padding(0, 2)

	focusedButtonStyle = buttonStyle.
				Background(lipgloss.Color("63")).
				Bold(true)

	jsonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

// View renders the UI
func (m Model) View() string {
	titleBar := titleStyle.Render("Subscription Manager")

	panels := []string{m.lookupView(), m.updateView()}
	var body string
	if m.Width > 0 && m.Width < lipgloss.Width(panels[0])+lipgloss.Width(panels[1]) {
		body = lipgloss.JoinVertical(lipgloss.Left, panels...)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	}

	help := helpStyle.Render("tab/shift+tab move • enter/ctrl+s submit • pgup/pgdn scroll • ctrl+n date now • esc quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		m.bannerView(),
		body,
		help,
	)
}

func (m Model) bannerView() string {
	if m.Banner == nil {
		return ""
	}

	text := m.Banner.Text
	if m.Width > 8 {
		text = util.Truncate(text, m.Width-6)
	}

	if m.Banner.Kind == MessageSuccess {
		return successStyle.Render(text)
	}
	return errorStyle.Render(text)
}

func (m Model) lookupView() string {
	button := m.button("Get Status", "Fetching...", m.LookupLoading, m.focus == focusLookupButton)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		headingStyle.Render("Get Subscription Status"),
		"",
		labelStyle.Render("User ID:"),
		m.LookupInput.View(),
		"",
		button,
		"",
		headingStyle.Render("Current Subscription:"),
		renderJSON(m.Subscription, noSubscriptionText, m.lookupOffset),
	)

	return lookupPanelStyle.Render(content)
}

func (m Model) updateView() string {
	button := m.button("Update Subscription", "Updating...", m.UpdateLoading, m.focus == focusUpdateButton)

	planMarker := " "
	if m.focus == focusPlan {
		planMarker = "›"
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		headingStyle.Render("Update Subscription"),
		"",
		labelStyle.Render("User ID:"),
		m.UpdateUserInput.View(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, planMarker, m.Plans.View()),
		labelStyle.Render("Effective Date:"),
		m.DateInput.View(),
		"",
		button,
		"",
		headingStyle.Render("Update Response:"),
		renderJSON(m.UpdateResponse, noUpdateResponseText, m.updateOffset),
	)

	return updatePanelStyle.Render(content)
}

func (m Model) button(label, loadingLabel string, loading, focused bool) string {
	style := buttonStyle
	if focused {
		style = focusedButtonStyle
	}
	if loading {
		return style.Render(fmt.Sprintf("%s %s", m.Spinner.View(), loadingLabel))
	}
	return style.Render(label)
}

// jsonViewport sizes a viewport to the widest line of the pretty-printed
// record, so lines are never wrapped, and caps its height at maxJSONLines
func jsonViewport(raw []byte, empty string, offset int) viewport.Model {
	content := empty
	if raw != nil {
		content = util.PrettyJSON(raw)
	}

	lines := strings.Split(content, "\n")
	width := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > width {
			width = w
		}
	}
	height := len(lines)
	if height > maxJSONLines {
		height = maxJSONLines
	}

	vp := viewport.New(width, height)
	vp.SetContent(content)
	vp.SetYOffset(offset)
	return vp
}

func scroll(vp *viewport.Model, down bool) {
	if down {
		vp.HalfViewDown()
		return
	}
	vp.HalfViewUp()
}

func renderJSON(raw []byte, empty string, offset int) string {
	vp := jsonViewport(raw, empty, offset)
	return jsonStyle.Render(vp.View())
}
