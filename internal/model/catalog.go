package model

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ProfileType is a European structural section family.
type ProfileType string

const (
	ProfileHEA ProfileType = "HEA" // Wide flange, light series
	ProfileHEB ProfileType = "HEB" // Wide flange, normal series
	ProfileIPE ProfileType = "IPE" // I-beam
	ProfileUNP ProfileType = "UNP" // Channel
)

// ProfileTypes lists the supported families in display order.
var ProfileTypes = []ProfileType{ProfileHEA, ProfileHEB, ProfileIPE, ProfileUNP}

func (t ProfileType) valid() bool {
	for _, known := range ProfileTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DefaultStandardLengths are the stock lengths mills and traders deliver.
var DefaultStandardLengths = []int{6000, 8000, 10000, 12000}

// CatalogProfile is a standard cross-section with known stock lengths.
type CatalogProfile struct {
	Name            string      `json:"name" yaml:"name"`
	Type            ProfileType `json:"type" yaml:"type"`
	Size            int         `json:"size" yaml:"size"`
	Height          float64     `json:"height_mm" yaml:"height_mm"`
	Width           float64     `json:"width_mm" yaml:"width_mm"`
	WebThickness    float64     `json:"web_thickness_mm" yaml:"web_thickness_mm"`
	FlangeThickness float64     `json:"flange_thickness_mm" yaml:"flange_thickness_mm"`
	Area            float64     `json:"area_mm2" yaml:"area_mm2"`
	Wy              float64     `json:"wy_mm3" yaml:"wy_mm3"` // Elastic section modulus, strong axis
	WeightPerMeter  float64     `json:"weight_per_meter_kg" yaml:"weight_per_meter_kg"`
	StandardLengths []int       `json:"standard_lengths_mm" yaml:"standard_lengths_mm"`
}

// LargestStandardLength returns the longest standard length not exceeding
// available, or false when none fits.
func (p CatalogProfile) LargestStandardLength(available int) (int, bool) {
	best := 0
	for _, l := range p.StandardLengths {
		if l > 0 && l <= available && l > best {
			best = l
		}
	}
	return best, best > 0
}

var profileNamePattern = regexp.MustCompile(`^([A-Za-z]+)\s*[-_ ]?\s*(\d+)$`)

// ParseProfileName splits a designation like "HEA 300", "HEA300" or
// "hea-300" into its family and nominal size.
func ParseProfileName(s string) (ProfileType, int, bool) {
	m := profileNamePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", 0, false
	}
	t := ProfileType(strings.ToUpper(m[1]))
	if !t.valid() {
		return "", 0, false
	}
	size, err := strconv.Atoi(m[2])
	if err != nil || size <= 0 {
		return "", 0, false
	}
	return t, size, true
}

// ProfileName formats the canonical designation, e.g. "HEB 200".
func ProfileName(t ProfileType, size int) string {
	return fmt.Sprintf("%s %d", t, size)
}

type profileKey struct {
	t    ProfileType
	size int
}

// Catalog is an immutable lookup table of standard profiles.
type Catalog struct {
	profiles []CatalogProfile
	index    map[profileKey]int
}

// NewCatalog builds a catalog. Later entries with the same family and size
// replace earlier ones. Entries with an unparseable designation are skipped.
func NewCatalog(profiles []CatalogProfile) *Catalog {
	c := &Catalog{index: make(map[profileKey]int, len(profiles))}
	for _, p := range profiles {
		t, size := p.Type, p.Size
		if pt, ps, ok := ParseProfileName(p.Name); ok {
			t, size = pt, ps
		}
		if !t.valid() || size <= 0 {
			continue
		}
		p.Type, p.Size, p.Name = t, size, ProfileName(t, size)
		if len(p.StandardLengths) == 0 {
			p.StandardLengths = append([]int(nil), DefaultStandardLengths...)
		}
		if p.WeightPerMeter <= 0 {
			p.WeightPerMeter = WeightFromArea(p.Area)
		}
		key := profileKey{t, size}
		if i, ok := c.index[key]; ok {
			c.profiles[i] = p
			continue
		}
		c.index[key] = len(c.profiles)
		c.profiles = append(c.profiles, p)
	}
	return c
}

// Merge returns a new catalog with custom entries layered over this one.
func (c *Catalog) Merge(custom []CatalogProfile) *Catalog {
	all := make([]CatalogProfile, 0, len(c.profiles)+len(custom))
	all = append(all, c.profiles...)
	all = append(all, custom...)
	return NewCatalog(all)
}

// Profiles returns a copy of all entries in catalog order.
func (c *Catalog) Profiles() []CatalogProfile {
	out := make([]CatalogProfile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.profiles) }

// Lookup finds a profile by exact family and size.
func (c *Catalog) Lookup(t ProfileType, size int) (CatalogProfile, bool) {
	i, ok := c.index[profileKey{t, size}]
	if !ok {
		return CatalogProfile{}, false
	}
	return c.profiles[i], true
}

// Find resolves a designation such as an element's declared profile name.
// Matching compares the parsed (family, size) pair, so "HEA 2000" never
// resolves to "HEA 200".
func (c *Catalog) Find(name string) (CatalogProfile, bool) {
	t, size, ok := ParseProfileName(name)
	if !ok {
		return CatalogProfile{}, false
	}
	return c.Lookup(t, size)
}

// Match resolves the catalog profile an element's declared profile can be
// sold as. It is Find under the name the matcher uses.
func (c *Catalog) Match(elementProfile string) (CatalogProfile, bool) {
	return c.Find(elementProfile)
}

// ByType returns all profiles of one family, ordered by size.
func (c *Catalog) ByType(t ProfileType) []CatalogProfile {
	var out []CatalogProfile
	for _, p := range c.profiles {
		if p.Type == t {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Size < out[j].Size })
	return out
}

// ByMinSectionModulus returns the profiles with Wy >= minWy, weakest first.
// An empty family selects all families.
func (c *Catalog) ByMinSectionModulus(minWy float64, t ProfileType) []CatalogProfile {
	var out []CatalogProfile
	for _, p := range c.profiles {
		if t != "" && p.Type != t {
			continue
		}
		if p.Wy >= minWy {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Wy < out[j].Wy })
	return out
}

// Names returns every designation in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.profiles))
	for i, p := range c.profiles {
		names[i] = p.Name
	}
	return names
}

// sectionRow is one line of a section table:
// size, height, width, web, flange, area, kg/m, Wy.
type sectionRow [8]float64

func buildFamily(t ProfileType, rows []sectionRow) []CatalogProfile {
	out := make([]CatalogProfile, 0, len(rows))
	for _, r := range rows {
		size := int(r[0])
		out = append(out, CatalogProfile{
			Name:            ProfileName(t, size),
			Type:            t,
			Size:            size,
			Height:          r[1],
			Width:           r[2],
			WebThickness:    r[3],
			FlangeThickness: r[4],
			Area:            r[5],
			WeightPerMeter:  r[6],
			Wy:              r[7],
			StandardLengths: append([]int(nil), DefaultStandardLengths...),
		})
	}
	return out
}

var heaRows = []sectionRow{
	{100, 96, 100, 5, 8, 2124, 16.7, 69800},
	{120, 114, 120, 5, 8, 2534, 19.9, 101000},
	{140, 133, 140, 5.5, 8.5, 3142, 24.7, 147000},
	{160, 152, 160, 6, 9, 3877, 30.4, 209000},
	{180, 171, 180, 6, 9.5, 4525, 35.5, 279000},
	{200, 190, 200, 6.5, 10, 5383, 42.3, 369000},
	{220, 210, 220, 7, 11, 6434, 50.5, 492000},
	{240, 230, 240, 7.5, 12, 7684, 60.3, 647000},
	{260, 250, 260, 7.5, 12.5, 8682, 68.2, 804000},
	{280, 270, 280, 8, 13, 9726, 76.4, 976000},
	{300, 290, 300, 8.5, 14, 11253, 88.3, 1217000},
	{320, 310, 300, 9, 15.5, 12440, 97.6, 1433000},
	{340, 330, 300, 9.5, 16.5, 13340, 105, 1628000},
	{360, 350, 300, 10, 17.5, 14280, 112, 1838000},
	{400, 390, 300, 11, 19, 15900, 125, 2253000},
	{450, 440, 300, 11.5, 21, 17800, 140, 2832000},
	{500, 490, 300, 12, 23, 19760, 155, 3479000},
	{550, 540, 300, 12.5, 24, 21180, 166, 4071000},
	{600, 590, 300, 13, 25, 22640, 178, 4708000},
}

var hebRows = []sectionRow{
	{100, 100, 100, 6, 10, 2604, 20.4, 90000},
	{120, 120, 120, 6.5, 11, 3401, 26.7, 144000},
	{140, 140, 140, 7, 12, 4296, 33.7, 216000},
	{160, 160, 160, 8, 13, 5425, 42.6, 311000},
	{180, 180, 180, 8.5, 14, 6525, 51.2, 426000},
	{200, 200, 200, 9, 15, 7808, 61.3, 570000},
	{220, 220, 220, 9.5, 16, 9104, 71.5, 736000},
	{240, 240, 240, 10, 17, 10600, 83.2, 938000},
	{260, 260, 260, 10, 17.5, 11840, 93, 1148000},
	{280, 280, 280, 10.5, 18, 13140, 103, 1376000},
	{300, 300, 300, 11, 19, 14910, 117, 1678000},
	{320, 320, 300, 11.5, 20.5, 16130, 127, 1926000},
	{340, 340, 300, 12, 21.5, 17090, 134, 2156000},
	{360, 360, 300, 12.5, 22.5, 18100, 142, 2400000},
	{400, 400, 300, 13.5, 24, 19780, 155, 2884000},
	{450, 450, 300, 14, 26, 21800, 171, 3551000},
	{500, 500, 300, 14.5, 28, 23860, 187, 4287000},
	{550, 550, 300, 15, 29, 25410, 199, 4971000},
	{600, 600, 300, 15.5, 30, 27000, 212, 5701000},
}

var ipeRows = []sectionRow{
	{80, 80, 46, 3.8, 5.2, 764, 6.0, 20000},
	{100, 100, 55, 4.1, 5.7, 1032, 8.1, 34200},
	{120, 120, 64, 4.4, 6.3, 1321, 10.4, 53000},
	{140, 140, 73, 4.7, 6.9, 1643, 12.9, 77300},
	{160, 160, 82, 5.0, 7.4, 2009, 15.8, 109000},
	{180, 180, 91, 5.3, 8.0, 2395, 18.8, 146000},
	{200, 200, 100, 5.6, 8.5, 2848, 22.4, 194000},
	{220, 220, 110, 5.9, 9.2, 3337, 26.2, 252000},
	{240, 240, 120, 6.2, 9.8, 3912, 30.7, 324000},
	{270, 270, 135, 6.6, 10.2, 4594, 36.1, 429000},
	{300, 300, 150, 7.1, 10.7, 5381, 42.2, 557000},
	{330, 330, 160, 7.5, 11.5, 6261, 49.1, 713000},
	{360, 360, 170, 8.0, 12.7, 7273, 57.1, 904000},
	{400, 400, 180, 8.6, 13.5, 8446, 66.3, 1156000},
	{450, 450, 190, 9.4, 14.6, 9882, 77.6, 1500000},
	{500, 500, 200, 10.2, 16.0, 11550, 90.7, 1928000},
	{550, 550, 210, 11.1, 17.2, 13440, 106, 2441000},
	{600, 600, 220, 12.0, 19.0, 15600, 122, 3069000},
}

var unpRows = []sectionRow{
	{100, 100, 50, 6, 8.5, 1350, 10.6, 41200},
	{120, 120, 55, 7, 9, 1700, 13.4, 60700},
	{140, 140, 60, 7, 10, 2040, 16.0, 86400},
	{160, 160, 65, 7.5, 10.5, 2400, 18.8, 116000},
	{180, 180, 70, 8, 11, 2800, 22.0, 150000},
	{200, 200, 75, 8.5, 11.5, 3220, 25.3, 191000},
	{220, 220, 80, 9, 12.5, 3740, 29.4, 245000},
	{240, 240, 85, 9.5, 13, 4230, 33.2, 300000},
	{260, 260, 90, 10, 14, 4830, 37.9, 371000},
	{280, 280, 95, 10, 15, 5330, 41.8, 448000},
	{300, 300, 100, 10, 16, 5880, 46.2, 535000},
}

// BuiltInProfiles returns the standard European section tables.
func BuiltInProfiles() []CatalogProfile {
	var all []CatalogProfile
	all = append(all, buildFamily(ProfileHEA, heaRows)...)
	all = append(all, buildFamily(ProfileHEB, hebRows)...)
	all = append(all, buildFamily(ProfileIPE, ipeRows)...)
	all = append(all, buildFamily(ProfileUNP, unpRows)...)
	return all
}

// BuiltInCatalog returns a fresh catalog of the standard section tables.
func BuiltInCatalog() *Catalog {
	return NewCatalog(BuiltInProfiles())
}
