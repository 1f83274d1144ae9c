// Package gcode writes saw programs for a beam saw line and reads them back
// for checking. The beam is fed along X under a fixed saw; Z moves the blade
// with Z0 on the support table.
package gcode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BeamCut/internal/model"
)

const (
	// BladeOvertravel is how far the blade passes below the table surface.
	BladeOvertravel = 2.0
	// FallbackProfileHeight is used when a catalog entry has no height.
	FallbackProfileHeight = 600.0
)

// Generator produces saw programs for matched elements.
type Generator struct {
	Settings model.Settings
	profile  model.GCodeProfile
}

// New creates a generator for the saw profile named in settings. Custom
// profiles are searched after the built-in ones.
func New(settings model.Settings, custom ...model.GCodeProfile) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.SawProfile, custom...),
	}
}

// Profile returns the controller profile in use.
func (g *Generator) Profile() model.GCodeProfile {
	return g.profile
}

// GenerateElement produces the program that cuts one element down to its
// sellable length. Cuts at a physical beam end are not emitted.
func (g *Generator) GenerateElement(res model.MatchResult) string {
	var b strings.Builder
	cuts := res.CutPlan.CutPositions(res.Element.Length)
	safe := g.safeHeight(res.TargetProfile)

	g.writeHeader(&b, res, len(cuts), safe)
	if len(cuts) == 0 {
		b.WriteString(g.comment("No cuts required: element is already a standard length"))
	}
	for i, x := range cuts {
		g.writeCut(&b, i+1, float64(x), safe)
	}
	g.writeFooter(&b, safe)
	return b.String()
}

// GenerateAll produces one program per result, in order.
func (g *Generator) GenerateAll(results []model.MatchResult) []string {
	codes := make([]string, 0, len(results))
	for _, res := range results {
		codes = append(codes, g.GenerateElement(res))
	}
	return codes
}

// WriteAll writes one <element-id>.nc file per result into dir and returns
// the written paths.
func (g *Generator) WriteAll(dir string, results []model.MatchResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(results))
	for _, res := range results {
		path := filepath.Join(dir, res.Element.ID+".nc")
		if err := os.WriteFile(path, []byte(g.GenerateElement(res)), 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// safeHeight is the blade height that clears the top of the profile.
func (g *Generator) safeHeight(p model.CatalogProfile) float64 {
	h := p.Height
	if h <= 0 {
		h = FallbackProfileHeight
	}
	return h + g.Settings.SafeZ
}

func (g *Generator) writeHeader(b *strings.Builder, res model.MatchResult, cuts int, safe float64) {
	p := g.profile
	plan := res.CutPlan

	b.WriteString(g.comment(fmt.Sprintf("BeamCut saw program - element %s", res.Element.ID)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s, source length %d mm", res.TargetProfile.Name, res.Element.Length)))
	b.WriteString(g.comment(fmt.Sprintf("Sellable: %d mm from %d to %d", plan.UsableLength, plan.CutStart, plan.CutEnd)))
	b.WriteString(g.comment(fmt.Sprintf("Cuts: %d, Feed: %.0f mm/min, Blade: %d rpm",
		cuts, g.Settings.FeedRate, g.Settings.BladeSpeed)))
	b.WriteString(g.comment(fmt.Sprintf("Controller: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	if p.HomeAll != "" {
		b.WriteString(p.HomeAll + "\n")
	}
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(safe)))
	if p.BladeStart != "" {
		b.WriteString(fmt.Sprintf(p.BladeStart+"\n", g.Settings.BladeSpeed))
	}
	b.WriteString("\n")
}

// writeCut positions the beam, clamps it, saws through and retracts.
func (g *Generator) writeCut(b *strings.Builder, n int, x, safe float64) {
	p := g.profile
	b.WriteString(g.comment(fmt.Sprintf("--- Cut %d at X%s ---", n, g.format(x))))
	b.WriteString(fmt.Sprintf("%s X%s\n", p.RapidMove, g.format(x)))
	if p.ClampOn != "" {
		b.WriteString(p.ClampOn + "\n")
	}
	b.WriteString(fmt.Sprintf("%s Z%s F%s\n", p.FeedMove, g.format(-BladeOvertravel), g.format(g.Settings.FeedRate)))
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(safe)))
	if p.ClampOff != "" {
		b.WriteString(p.ClampOff + "\n")
	}
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder, safe float64) {
	p := g.profile
	b.WriteString(g.comment("=== Job complete ==="))
	if p.BladeStop != "" {
		b.WriteString(p.BladeStop + "\n")
	}
	for _, code := range p.EndCode {
		b.WriteString(strings.ReplaceAll(code, "[SafeZ]", g.format(safe)) + "\n")
	}
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
}
