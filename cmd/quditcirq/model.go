package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quditcirq"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
	focusSelectTarget
	focusInputParam
)

// Model is the TUI application state. The circuit is the single
// source of truth; the engine is rebuilt whenever the circuit changes,
// because a mutated circuit invalidates a bound engine.
type Model struct {
	circ *quditcirq.Circuit
	eng  *quditcirq.Engine
	it   quditcirq.Iterator // stepping cursor, valid while eng != nil

	cursorQudit int
	width       int
	height      int
	focus       focus
	statusMsg   string

	gateMenu []menuCategory
	menuCat  int
	menuItem int

	// target-selection / parameter-input state
	pendingItem *menuItem
	targetQudit int
	paramInput  textinput.Model
}

func initialModel(circ *quditcirq.Circuit) Model {
	ti := textinput.New()
	ti.Placeholder = "pi/2"
	ti.CharLimit = 24
	ti.Width = 20
	return Model{
		circ:       circ,
		gateMenu:   buildGateMenu(circ.D()),
		paramInput: ti,
	}
}

// nextCReg picks the classical register for the next measurement: one
// per measurement in order, clamped to the last register.
func (m *Model) nextCReg() int {
	c := m.circ.MeasurementCount()
	if c >= m.circ.NC() {
		c = m.circ.NC() - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// invalidateEngine drops the engine after any circuit mutation.
func (m *Model) invalidateEngine() {
	m.eng = nil
}

// placeItem runs the selected menu item's builder and reports the
// outcome in the status line.
func (m *Model) placeItem(item *menuItem, params []float64) {
	if err := item.build(m, params); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = fmt.Sprintf("added %s at step %d", item.name, m.circ.StepCount()-1)
	m.invalidateEngine()
}

// runAll executes the whole circuit on a fresh engine.
func (m *Model) runAll() {
	eng := quditcirq.NewEngine(m.circ)
	if err := eng.Run(); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.eng = eng
	m.it = m.circ.End()
	m.statusMsg = fmt.Sprintf("executed %d steps", m.circ.StepCount())
}

// stepOnce executes the next step, binding a fresh engine first if
// none is live.
func (m *Model) stepOnce() {
	if m.eng == nil {
		m.eng = quditcirq.NewEngine(m.circ)
		m.it = m.circ.Begin()
	}
	if m.it.Done() {
		m.statusMsg = "end of circuit"
		return
	}
	ref, err := m.it.Ref()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	if err := m.eng.Execute(ref); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = fmt.Sprintf("executed step %d", ref.IP)
	m.it.Next()
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursorQudit > 0 {
					m.cursorQudit--
				}
			case "down", "j":
				if m.cursorQudit < m.circ.NQ()-1 {
					m.cursorQudit++
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "m":
				if err := m.circ.MeasureZ(m.cursorQudit, m.nextCReg()); err != nil {
					m.statusMsg = err.Error()
				} else {
					m.invalidateEngine()
				}
			case "r":
				m.runAll()
			case "s":
				m.stepOnce()
			case "R":
				if m.eng != nil {
					m.eng.Reset()
					m.it = m.circ.Begin()
					m.statusMsg = "engine reset"
				}
			case "ctrl+s":
				if err := os.WriteFile("circuit.json", []byte(m.circ.ToJSON(true)), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("save error: %v", err)
				} else {
					m.statusMsg = "saved circuit.json"
				}
			}

		case focusMenu:
			cat := m.gateMenu[m.menuCat]
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(cat.items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(m.gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := &m.gateMenu[m.menuCat].items[m.menuItem]
				m.pendingItem = item
				switch {
				case item.needsParam:
					m.paramInput.SetValue("")
					m.paramInput.Focus()
					m.focus = focusInputParam
				case item.needsTarget:
					if m.circ.NQ() < 2 {
						m.statusMsg = "need at least two qudits"
						m.focus = focusCircuit
						break
					}
					m.targetQudit = m.otherQudit(m.cursorQudit)
					m.focus = focusSelectTarget
				default:
					m.placeItem(item, nil)
					m.focus = focusCircuit
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.pendingItem = nil
			case "up", "k":
				for next := m.targetQudit - 1; next >= 0; next-- {
					if next != m.cursorQudit {
						m.targetQudit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQudit + 1; next < m.circ.NQ(); next++ {
					if next != m.cursorQudit {
						m.targetQudit = next
						break
					}
				}
			case "enter":
				m.placeItem(m.pendingItem, nil)
				m.pendingItem = nil
				m.focus = focusCircuit
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.paramInput.Blur()
				m.pendingItem = nil
			case "enter":
				val, ok := parseAngle(m.paramInput.Value())
				if !ok {
					m.statusMsg = "invalid parameter — use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
					break
				}
				m.placeItem(m.pendingItem, []float64{val})
				m.paramInput.Blur()
				m.pendingItem = nil
				m.focus = focusCircuit
			default:
				var cmd tea.Cmd
				m.paramInput, cmd = m.paramInput.Update(msg)
				return m, cmd
			}
		}
	}

	return m, nil
}

// otherQudit returns a qudit index different from q.
func (m *Model) otherQudit(q int) int {
	if q+1 < m.circ.NQ() {
		return q + 1
	}
	return q - 1
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	jsonWidth := m.width / 3
	stepsWidth := m.width - jsonWidth - 4
	controlsHeight := 6
	panelHeight := max(m.height-controlsHeight-2, 6)

	stepsPanel := m.renderStepsPanel(stepsWidth, panelHeight/2)
	statePanel := m.renderStatePanel(stepsWidth, panelHeight-panelHeight/2)
	jsonPanel := m.renderJSONPanel(jsonWidth, panelHeight)
	controls := m.renderControlsPanel(m.width-4, controlsHeight-2)

	left := lipgloss.JoinVertical(lipgloss.Left, stepsPanel, statePanel)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, left, jsonPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controls)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}
	if m.focus == focusInputParam {
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}
	return frame
}
