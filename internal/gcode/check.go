package gcode

import "fmt"

// Issue is a problem found in a saw program.
type Issue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// CheckProgram looks for unsafe or wrong motion in parsed moves for a beam of
// the given length and profile height:
//   - the beam travelling along X while the blade is below the profile top
//   - sawing with the blade stopped, or unclamped when requireClamp is set
//   - a cut outside the beam
func CheckProgram(moves []Move, length int, height float64, requireClamp bool) []Issue {
	var issues []Issue
	for _, m := range moves {
		inMaterial := m.FromZ < height || m.ToZ < height
		if m.FromX != m.ToX && inMaterial && (m.Type == MoveFeed || m.Type == MoveRapid) {
			issues = append(issues, Issue{m.Line,
				fmt.Sprintf("beam moves from X%.1f to X%.1f with blade at Z%.1f", m.FromX, m.ToX, m.ToZ)})
		}
		if m.Type != MovePlunge {
			continue
		}
		if !m.BladeOn {
			issues = append(issues, Issue{m.Line, "blade plunges while stopped"})
		}
		if requireClamp && !m.Clamped {
			issues = append(issues, Issue{m.Line, "blade plunges into an unclamped beam"})
		}
		if m.ToX <= 0 || m.ToX >= float64(length) {
			issues = append(issues, Issue{m.Line, fmt.Sprintf("cut at X%.1f is outside the beam (0-%d)", m.ToX, length)})
		}
	}
	return issues
}
