package main

import (
	"fmt"
	"math/cmplx"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStepsPanel lists the circuit timeline, one step per line.
func (m Model) renderStepsPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Circuit"))
	sb.WriteString("  ")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("nq=%d nc=%d d=%d", m.circ.NQ(), m.circ.NC(), m.circ.D())))
	sb.WriteString("\n\n")

	// qudit rail with the cursor
	for q := 0; q < m.circ.NQ(); q++ {
		label := fmt.Sprintf("q[%d]", q)
		if q == m.cursorQudit && m.focus == focusCircuit {
			sb.WriteString(cursorStyle.Render("▸ " + label))
		} else if m.focus == focusSelectTarget && q == m.targetQudit {
			sb.WriteString(targetSelectStyle.Render("◎ " + label))
		} else if m.circ.Measured(q) {
			sb.WriteString(dimStyle.Render("  " + label + " (measured)"))
		} else {
			sb.WriteString(quditLabelStyle.Render("  " + label))
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	lines := strings.Split(m.circ.String(), "\n")
	// drop the header line; the panel title already carries it
	if len(lines) > 1 {
		lines = lines[1:]
	}
	executed := -1
	if m.eng != nil {
		executed = m.stepsExecuted()
	}
	for i, line := range lines {
		if i < executed {
			sb.WriteString(doneStepStyle.Render(line))
		} else {
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}

	return stepsStyle.Width(width).Height(height).Render(sb.String())
}

// stepsExecuted derives how many steps the live engine has consumed
// from the stepping cursor.
func (m Model) stepsExecuted() int {
	if m.it.Equal(m.circ.End()) {
		return m.circ.StepCount()
	}
	n := 0
	for it := m.circ.Begin(); !it.Equal(m.it) && !it.Done(); it.Next() {
		n++
	}
	return n
}

// renderStatePanel shows the engine's basis-state probabilities, dits,
// and outcome probabilities.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("State"))
	sb.WriteString("\n\n")

	if m.eng == nil {
		sb.WriteString(dimStyle.Render("not executed — press r to run, s to step"))
	} else {
		psi := m.eng.Psi()
		type basisProb struct {
			idx  int
			prob float64
		}
		var probs []basisProb
		for i, a := range psi {
			p := real(a)*real(a) + imag(a)*imag(a)
			if p > 1e-10 {
				probs = append(probs, basisProb{i, p})
			}
		}
		sort.Slice(probs, func(i, j int) bool { return probs[i].prob > probs[j].prob })
		live := m.eng.NonMeasured()
		shown := 0
		for _, bp := range probs {
			if shown >= 8 {
				sb.WriteString(dimStyle.Render(fmt.Sprintf("… %d more\n", len(probs)-shown)))
				break
			}
			amp := psi[bp.idx]
			fmt.Fprintf(&sb, "|%s⟩  %.4f  %s\n",
				basisLabel(bp.idx, len(live), m.circ.D()),
				bp.prob,
				dimStyle.Render(fmt.Sprintf("(%.3f%+.3fi, φ=%.2f)", real(amp), imag(amp), cmplx.Phase(amp))))
			shown++
		}
		sb.WriteByte('\n')
		sb.WriteString(ditLabelStyle.Render("dits:  "))
		sb.WriteString(fmt.Sprint(m.eng.Dits()))
		sb.WriteByte('\n')
		sb.WriteString(ditLabelStyle.Render("probs: "))
		for i, p := range m.eng.Probs() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(p, 'g', 4, 64))
		}
	}

	return stateStyle.Width(width).Height(height).Render(sb.String())
}

// basisLabel renders a basis-state index as base-d digits over n
// qudits.
func basisLabel(idx, n, d int) string {
	if n == 0 {
		return ""
	}
	digits := make([]byte, n)
	for q := n - 1; q >= 0; q-- {
		digits[q] = byte('0' + idx%d)
		idx /= d
	}
	return string(digits)
}

// renderJSONPanel shows the circuit's serialized form.
func (m Model) renderJSONPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("JSON"))
	sb.WriteString("\n\n")
	sb.WriteString(wrapTo(m.circ.ToJSON(true), max(width-4, 16)))
	if m.eng != nil {
		sb.WriteString("\n\n")
		sb.WriteString(titleStyle.Render("Engine"))
		sb.WriteString("\n\n")
		sb.WriteString(wrapTo(m.eng.ToJSON(true), max(width-4, 16)))
	}
	return jsonStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel shows the key bindings and the status line.
func (m Model) renderControlsPanel(width, height int) string {
	help := "↑↓ qudit  a add  m measure  r run  s step  R reset  ctrl+s save  q quit"
	var sb strings.Builder
	sb.WriteString(dimStyle.Render(help))
	if m.statusMsg != "" {
		sb.WriteByte('\n')
		sb.WriteString(statusStyle.Render(m.statusMsg))
	}
	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// renderMenu draws the gate picker overlay.
func (m Model) renderMenu() string {
	var sb strings.Builder
	for i, cat := range m.gateMenu {
		if i > 0 {
			sb.WriteString("  ")
		}
		if i == m.menuCat {
			sb.WriteString(menuSelectedStyle.Render(cat.name))
		} else {
			sb.WriteString(dimStyle.Render(cat.name))
		}
	}
	sb.WriteString("\n\n")
	for i, item := range m.gateMenu[m.menuCat].items {
		line := fmt.Sprintf("%-22s %s", item.name, item.symbol)
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render("▸ " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.WriteString(dimStyle.Render("←→ tab  ↑↓ select  ⏎ ok  esc ✕"))
	return menuBorderStyle.Render(sb.String())
}

// renderParamInput draws the rotation-angle input overlay.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Enter Parameter"))
	sb.WriteString("\n\n")
	sb.WriteString(m.paramInput.View())
	sb.WriteString("\n\n")
	hint := "pi/2"
	if m.pendingItem != nil && m.pendingItem.paramHint != "" {
		hint = m.pendingItem.paramHint
	}
	sb.WriteString(dimStyle.Render("Examples: " + hint + ", 3*pi/4, 1.57"))
	return menuBorderStyle.Render(sb.String())
}

// wrapTo hard-wraps a string to the given width.
func wrapTo(s string, width int) string {
	var sb strings.Builder
	for len(s) > width {
		sb.WriteString(s[:width])
		sb.WriteByte('\n')
		s = s[width:]
	}
	sb.WriteString(s)
	return sb.String()
}

// overlayAt splices an overlay block into the background frame at the
// given coordinates.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")
	for i, ov := range ovLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = spliceLineAt(bgLines[row], ov, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt overwrites part of a background line with overlay text,
// respecting visible (non-ANSI) widths.
func spliceLineAt(bgLine, overlay string, x int) string {
	pad := x - visibleLen(bgLine)
	if pad > 0 {
		bgLine += strings.Repeat(" ", pad)
	}
	prefix := truncVisible(bgLine, x)
	suffixStart := x + visibleLen(overlay)
	suffix := ""
	if visibleLen(bgLine) > suffixStart {
		suffix = dropVisible(bgLine, suffixStart)
	}
	return prefix + overlay + suffix
}

// visibleLen counts printable cells, skipping ANSI escape sequences.
func visibleLen(s string) int {
	return lipgloss.Width(s)
}

// truncVisible returns the prefix of s occupying w visible cells.
func truncVisible(s string, w int) string {
	count := 0
	var sb strings.Builder
	inEsc := false
	for _, r := range s {
		if inEsc {
			sb.WriteRune(r)
			if r == 'm' {
				inEsc = false
			}
			continue
		}
		if r == 0x1b {
			inEsc = true
			sb.WriteRune(r)
			continue
		}
		if count >= w {
			break
		}
		sb.WriteRune(r)
		count++
	}
	return sb.String()
}

// dropVisible returns the suffix of s after w visible cells.
func dropVisible(s string, w int) string {
	count := 0
	inEsc := false
	for i, r := range s {
		if inEsc {
			if r == 'm' {
				inEsc = false
			}
			continue
		}
		if r == 0x1b {
			inEsc = true
			continue
		}
		if count >= w {
			return s[i:]
		}
		count++
	}
	return ""
}
