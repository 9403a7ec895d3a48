package shader

import (
	"fmt"
	"strings"

	"github.com/Faultbox/sloth/internal/options"
)

// surfaceParms maps surfaceparm values to the words in a material name that
// trigger them when keyword guessing is enabled.
var surfaceParms = []struct {
	parm  string
	words []string
}{
	{"donotenter", []string{"lava", "slime"}},
	{"dust", []string{"sand", "dust"}},
	{"flesh", []string{"flesh", "meat", "organ"}},
	{"ladder", []string{"ladder"}},
	{"lava", []string{"lava"}},
	{"metalsteps", []string{"metal", "steel", "iron", "tread", "grate"}},
	{"slick", []string{"ice"}},
	{"slime", []string{"slime"}},
	{"water", []string{"water"}},
}

// Keyword names set by InferKeywords.
const (
	KeywordCull        = "cull"
	KeywordAlphaFunc   = "alphaFunc"
	KeywordAlphaTest   = "alphaTest"
	KeywordSurfaceParm = "surfaceparm"
)

// InferKeywords derives renderer keywords from the material's metadata,
// effective options and name.
func InferKeywords(m *Material) {
	if m.Keywords == nil {
		m.Keywords = make(Keywords)
	}
	opt := m.Options

	if m.Meta.DiffuseAlpha {
		m.Keywords.Set(KeywordCull, "none")

		switch opt.AlphaTest.Kind {
		case options.AlphaTestFunc:
			m.Keywords.Set(KeywordAlphaFunc, opt.AlphaTest.Func)
		case options.AlphaTestFraction:
			m.Keywords.Set(KeywordAlphaTest, fmt.Sprintf("%.2f", opt.AlphaTest.Fraction))
		}

		if opt.AlphaShadows {
			m.Keywords.Add(KeywordSurfaceParm, "alphashadows")
		}
	}

	if opt.GuessKeywords {
		for _, sp := range surfaceParms {
			for _, word := range sp.words {
				if strings.Contains(m.Name, word) {
					m.Keywords.Add(KeywordSurfaceParm, sp.parm)
					break
				}
			}
		}
	}
}

// alphaTested reports whether an alpha test keyword replaces smooth blending.
func alphaTested(m *Material) bool {
	_, fn := m.Keywords[KeywordAlphaFunc]
	_, test := m.Keywords[KeywordAlphaTest]
	return fn || test
}
