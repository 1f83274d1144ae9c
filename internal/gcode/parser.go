package gcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/BeamCut/internal/model"
)

// MoveType represents the type of saw movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: positioning
	MoveFeed                    // G1 with X travel
	MovePlunge                  // G1 with Z decreasing: blade sawing down
	MoveRetract                 // Z increasing
)

func (t MoveType) String() string {
	switch t {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	case MoveRetract:
		return "retract"
	}
	return fmt.Sprintf("MoveType(%d)", int(t))
}

// Move is a single parsed movement with the machine state it ran under.
type Move struct {
	Line     int
	Type     MoveType
	FromX    float64
	FromZ    float64
	ToX      float64
	ToZ      float64
	FeedRate float64
	BladeOn  bool
	Clamped  bool
}

var coordRe = regexp.MustCompile(`([XZF])(-?\d+\.?\d*)`)

// ParseProgram parses a saw program written for profile p. It tracks the
// absolute position and the blade and clamp state set by the profile's
// M-codes.
func ParseProgram(code string, p model.GCodeProfile) []Move {
	var moves []Move
	curX, curZ, curFeed := 0.0, 0.0, 0.0
	bladeOn, clamped := false, false

	bladeStart := strings.ToUpper(strings.Fields(p.BladeStart + " ")[0])
	rapid := commandPrefixes(p.RapidMove, "G0", "G00")
	feed := commandPrefixes(p.FeedMove, "G1", "G01")

	for n, line := range strings.Split(code, "\n") {
		line = strings.ToUpper(stripComment(line))
		if line == "" {
			continue
		}

		switch {
		case bladeStart != "" && (line == bladeStart || strings.HasPrefix(line, bladeStart+" ")):
			bladeOn = true
			continue
		case p.BladeStop != "" && line == strings.ToUpper(p.BladeStop):
			bladeOn = false
			continue
		case p.ClampOn != "" && line == strings.ToUpper(p.ClampOn):
			clamped = true
			continue
		case p.ClampOff != "" && line == strings.ToUpper(p.ClampOff):
			clamped = false
			continue
		}

		isRapid := hasCommand(line, rapid)
		if !isRapid && !hasCommand(line, feed) {
			continue
		}

		newX, newZ, newFeed := curX, curZ, curFeed
		for _, m := range coordRe.FindAllStringSubmatch(line, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Z":
				newZ = val
			case "F":
				newFeed = val
			}
		}

		moves = append(moves, Move{
			Line:     n + 1,
			Type:     classifyMove(isRapid, curX, curZ, newX, newZ),
			FromX:    curX,
			FromZ:    curZ,
			ToX:      newX,
			ToZ:      newZ,
			FeedRate: newFeed,
			BladeOn:  bladeOn,
			Clamped:  clamped,
		})
		curX, curZ, curFeed = newX, newZ, newFeed
	}
	return moves
}

// Plunges returns the X positions where the blade saws down, in order.
func Plunges(moves []Move) []float64 {
	var xs []float64
	for _, m := range moves {
		if m.Type == MovePlunge {
			xs = append(xs, m.ToX)
		}
	}
	return xs
}

func stripComment(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

func commandPrefixes(primary string, fallbacks ...string) []string {
	out := fallbacks
	if primary != "" {
		out = append([]string{strings.ToUpper(primary)}, fallbacks...)
	}
	return out
}

func hasCommand(line string, cmds []string) bool {
	for _, c := range cmds {
		if line == c || strings.HasPrefix(line, c+" ") {
			return true
		}
	}
	return false
}

func classifyMove(isRapid bool, fromX, fromZ, toX, toZ float64) MoveType {
	zDelta := toZ - fromZ
	hasX := fromX != toX

	switch {
	case zDelta > 0.001:
		return MoveRetract
	case isRapid:
		return MoveRapid
	case zDelta < -0.001 && !hasX:
		return MovePlunge
	default:
		return MoveFeed
	}
}
