// internal/color/mixer.go
//
// Additive color mixing for elastic waves.
// Every wave color decomposes into a subset of the three primaries
// {red, blue, yellow}; striking a colored mineral unions its primary
// into that set. Black petroleum absorbs the wave outright.
//
// White and transparent minerals are governed by a Policy:
//   - PolicyPassThrough (default): the wave keeps its color. This is
//     the live rule.
//   - PolicyLighten: a white mineral maps the wave color to its pastel
//     variant; transparent still passes through. Kept selectable for
//     boards authored against the older rule.
// The two policies give different game outcomes and are never merged.

package color

// WaveColor is the color state of a travelling wave.
type WaveColor string

const (
	WaveWhite  WaveColor = "white"
	WaveRed    WaveColor = "red"
	WaveBlue   WaveColor = "blue"
	WaveYellow WaveColor = "yellow"
	WaveViolet WaveColor = "violet" // red + blue
	WaveOrange WaveColor = "orange" // red + yellow
	WaveGreen  WaveColor = "green"  // blue + yellow
	WaveBlack  WaveColor = "black"  // all three primaries

	// Pastel variants, produced only under PolicyLighten.
	WavePink        WaveColor = "pink"
	WaveLightBlue   WaveColor = "light_blue"
	WaveLightYellow WaveColor = "light_yellow"
	WaveLavender    WaveColor = "lavender"
	WavePeach       WaveColor = "peach"
	WaveMint        WaveColor = "mint"
)

// MineralColor is the color attribute of a struck piece.
type MineralColor string

const (
	MineralRed         MineralColor = "red"
	MineralBlue        MineralColor = "blue"
	MineralYellow      MineralColor = "yellow"
	MineralWhite       MineralColor = "white"
	MineralTransparent MineralColor = "transparent"
	MineralBlack       MineralColor = "black" // petroleum, absorbs
)

// Primary-component bitmask.
const (
	compRed = 1 << iota
	compBlue
	compYellow
)

// components maps each wave color to its primary set. Pastels carry
// the same primaries as their base color, so further mixing behaves
// identically under either policy.
var components = map[WaveColor]int{
	WaveWhite:  0,
	WaveRed:    compRed,
	WaveBlue:   compBlue,
	WaveYellow: compYellow,
	WaveViolet: compRed | compBlue,
	WaveOrange: compRed | compYellow,
	WaveGreen:  compBlue | compYellow,
	WaveBlack:  compRed | compBlue | compYellow,

	WavePink:        compRed,
	WaveLightBlue:   compBlue,
	WaveLightYellow: compYellow,
	WaveLavender:    compRed | compBlue,
	WavePeach:       compRed | compYellow,
	WaveMint:        compBlue | compYellow,
}

// recompose maps a primary set back to the canonical wave color.
var recompose = [8]WaveColor{
	0:                              WaveWhite,
	compRed:                        WaveRed,
	compBlue:                       WaveBlue,
	compYellow:                     WaveYellow,
	compRed | compBlue:             WaveViolet,
	compRed | compYellow:           WaveOrange,
	compBlue | compYellow:          WaveGreen,
	compRed | compBlue | compYellow: WaveBlack,
}

// pastel maps a wave color to its lightened variant (PolicyLighten,
// white minerals only). White stays white.
var pastel = map[WaveColor]WaveColor{
	WaveWhite:  WaveWhite,
	WaveRed:    WavePink,
	WaveBlue:   WaveLightBlue,
	WaveYellow: WaveLightYellow,
	WaveViolet: WaveLavender,
	WaveOrange: WavePeach,
	WaveGreen:  WaveMint,
	WaveBlack:  WaveBlack,
}

// Policy selects the white-mineral mixing rule.
type Policy int

const (
	PolicyPassThrough Policy = iota
	PolicyLighten
)

// Mixer applies the mixing rules under a fixed policy.
// The zero value uses PolicyPassThrough.
type Mixer struct {
	policy Policy
}

// NewMixer returns a Mixer with the given white-mineral policy.
func NewMixer(p Policy) Mixer { return Mixer{policy: p} }

// Mix combines the current wave color with the struck mineral.
// The second result is false when the wave is absorbed (black mineral);
// the returned color is then meaningless.
//
// Rule order: black absorbs; transparent passes through; white passes
// through or lightens per policy; any primary mineral unions its
// component into the wave's primary set.
func (m Mixer) Mix(wave WaveColor, mineral MineralColor) (WaveColor, bool) {
	switch mineral {
	case MineralBlack:
		return wave, false
	case MineralTransparent:
		return wave, true
	case MineralWhite:
		if m.policy == PolicyLighten {
			if p, ok := pastel[wave]; ok {
				return p, true
			}
		}
		return wave, true
	}

	comps := components[wave]
	switch mineral {
	case MineralRed:
		comps |= compRed
	case MineralBlue:
		comps |= compBlue
	case MineralYellow:
		comps |= compYellow
	}
	return recompose[comps], true
}

// Hex returns the display hex code for a wave color. Presentation
// only; game logic never reads it.
func Hex(c WaveColor) string {
	switch c {
	case WaveWhite:
		return "#FFFFFF"
	case WaveRed:
		return "#FF0000"
	case WaveBlue:
		return "#0000FF"
	case WaveYellow:
		return "#FFFF00"
	case WaveViolet:
		return "#8B00FF"
	case WaveOrange:
		return "#FFA500"
	case WaveGreen:
		return "#00FF00"
	case WaveBlack:
		return "#000000"
	case WavePink:
		return "#FFB6C1"
	case WaveLightBlue:
		return "#ADD8E6"
	case WaveLightYellow:
		return "#FFFACD"
	case WaveLavender:
		return "#E6E6FA"
	case WavePeach:
		return "#FFDAB9"
	case WaveMint:
		return "#98FF98"
	default:
		return "#FFFFFF"
	}
}
