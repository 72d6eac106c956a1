package export

import (
	"fmt"
	"strings"

	"github.com/miraitools/shadowbaker/internal/scene"
)

// HeightRange is an allowed world-height band for a category of furniture.
// Objects outside their category's band are rejected before export.
type HeightRange struct {
	Name string
	Min  float64
	Max  float64
}

// Height presets in meters. FREE accepts anything.
var heightPresets = []HeightRange{
	{Name: "Table", Min: 0.71, Max: 0.76},
	{Name: "Chair", Min: 0.45, Max: 0.5},
	{Name: "Hanger", Min: 1.5, Max: 1.8},
	{Name: "High table", Min: 1.0, Max: 1.07},
	{Name: "FREE", Min: 0, Max: 9999},
}

// Preset looks up a height preset by name, case-insensitively.
func Preset(name string) (HeightRange, bool) {
	for _, p := range heightPresets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return HeightRange{}, false
}

// PresetNames returns the known preset names in declaration order.
func PresetNames() []string {
	names := make([]string, len(heightPresets))
	for i, p := range heightPresets {
		names[i] = p.Name
	}
	return names
}

// Check validates the object's world height against the range.
func (r HeightRange) Check(obj *scene.Object) error {
	h := obj.Dimensions()[2]
	if h < r.Min || h > r.Max {
		return &PreconditionError{
			Object: obj.Name,
			Reason: fmt.Sprintf("height %.3fm outside %s range [%.2f, %.2f]", h, r.Name, r.Min, r.Max),
		}
	}
	return nil
}
