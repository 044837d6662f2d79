package components

import (
	"subcon/internal/models"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PlanItem represents a plan in the picker
type PlanItem struct {
	Plan models.Plan
}

// FilterValue returns the filter value for the plan item
func (i PlanItem) FilterValue() string {
	return string(i.Plan)
}

// Title returns the title for the plan item
func (i PlanItem) Title() string {
	return i.Plan.Label()
}

// Description returns the description for the plan item
func (i PlanItem) Description() string {
	return string(i.Plan)
}

// PlanListModel is the plan picker of the update panel
type PlanListModel struct {
	List list.Model
}

// NewPlanListModel creates a picker over models.Plans with the first plan selected
func NewPlanListModel(width, height int) PlanListModel {
	items := make([]list.Item, len(models.Plans))
	for i, plan := range models.Plans {
		items[i] = PlanItem{Plan: plan}
	}

	listModel := list.New(items, list.NewDefaultDelegate(), width, height)
	listModel.Title = "New Plan"
	listModel.SetShowStatusBar(false)
	listModel.SetFilteringEnabled(false)
	listModel.SetShowHelp(false)
	listModel.SetShowPagination(false)
	listModel.DisableQuitKeybindings()
	listModel.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true)

	return PlanListModel{
		List: listModel,
	}
}

// Selected returns the highlighted plan
func (m PlanListModel) Selected() models.Plan {
	if item, ok := m.List.SelectedItem().(PlanItem); ok {
		return item.Plan
	}
	return ""
}

// Select highlights plan; unknown plans leave the selection unchanged
func (m *PlanListModel) Select(plan models.Plan) {
	for i, item := range m.List.Items() {
		if p, ok := item.(PlanItem); ok && p.Plan == plan {
			m.List.Select(i)
			return
		}
	}
}

// SetSize resizes the picker
func (m *PlanListModel) SetSize(width, height int) {
	m.List.SetSize(width, height)
}

// Update handles plan picker updates
func (m PlanListModel) Update(msg tea.Msg) (PlanListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// View renders the plan picker
func (m PlanListModel) View() string {
	return m.List.View()
}
