package factor

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Layer is one composable step in building up a multi-dimensional scaling
// factor. Layers are stateless once constructed and safe for concurrent
// use.
type Layer interface {
	// Quantify returns the layer's array over the requested coordinates.
	// The result may carry a subset of the requested dimensions; missing
	// dimensions broadcast when the layer is combined.
	Quantify(c *Coords) (*Array, error)
	// Op is the operator combining this layer with the running result of
	// the layers before it.
	Op() Op
}

// applier is implemented by layers that customize how they combine with
// the running result and the working coordinate set.
type applier interface {
	apply(prev *Array, c *Coords) (*Array, *Coords, error)
}

// Constant broadcasts a fixed value across the named dimensions, in the
// declared dimension order, using the labels requested for those
// dimensions. It combines by multiplication.
type Constant struct {
	Value float64
	Dims  []string
}

// Op returns Multiply.
func (l *Constant) Op() Op { return Multiply }

// Quantify implements Layer.
func (l *Constant) Quantify(c *Coords) (*Array, error) {
	sub := NewCoords()
	for _, d := range l.Dims {
		if !c.Has(d) {
			return nil, fmt.Errorf("factor: constant layer needs coordinate %q", d)
		}
		sub.Add(d, c.Labels(d)...)
	}
	a := NewArray(sub)
	for i := range a.data.Elements {
		a.data.Elements[i] = l.Value
	}
	return a, nil
}

// Omit neutralizes the listed labels of a dimension: it quantifies to 0 at
// the listed labels and 1 elsewhere, and combines via Power, so the
// running result is forced to 1 at omitted labels and left unchanged
// elsewhere.
type Omit struct {
	Dim    string
	Labels []string
}

// Op returns Power.
func (l *Omit) Op() Op { return Power }

// Quantify implements Layer.
func (l *Omit) Quantify(c *Coords) (*Array, error) {
	return indicator(c, l.Dim, l.Labels, 0, 1)
}

// Keep is the dual of Omit: 1 at the listed labels and 0 elsewhere, so
// combining via Power keeps the listed labels and neutralizes the rest.
type Keep struct {
	Dim    string
	Labels []string
}

// Op returns Power.
func (l *Keep) Op() Op { return Power }

// Quantify implements Layer.
func (l *Keep) Quantify(c *Coords) (*Array, error) {
	return indicator(c, l.Dim, l.Labels, 1, 0)
}

// indicator builds a one-dimensional array over the requested labels of
// dim holding `at` for listed labels and `elsewhere` for the rest.
func indicator(c *Coords, dim string, listed []string, at, elsewhere float64) (*Array, error) {
	if !c.Has(dim) {
		return nil, fmt.Errorf("factor: layer needs coordinate %q", dim)
	}
	set := make(map[string]bool, len(listed))
	for _, l := range listed {
		set[l] = true
	}
	a := NewArray(NewCoords().Add(dim, c.Labels(dim)...))
	for i, l := range a.labels[dim] {
		if set[l] {
			a.data.Elements[i] = at
		} else {
			a.data.Elements[i] = elsewhere
		}
	}
	return a, nil
}

// MapEntry pairs a label on the introduced dimension with the layer
// quantified for that label.
type MapEntry struct {
	Label string
	Layer Layer
}

// Map quantifies each entry's layer and stacks the results along a newly
// introduced dimension labeled by the entry labels, preserving entry
// order. It combines by multiplication.
type Map struct {
	Dim     string
	Entries []MapEntry
}

// Op returns Multiply.
func (l *Map) Op() Op { return Multiply }

// Quantify implements Layer.
func (l *Map) Quantify(c *Coords) (*Array, error) {
	if len(l.Entries) == 0 {
		return nil, fmt.Errorf("factor: map layer over %q has no entries", l.Dim)
	}
	labels := make([]string, len(l.Entries))
	parts := make([]*Array, len(l.Entries))
	for i, e := range l.Entries {
		a, err := e.Layer.Quantify(c)
		if err != nil {
			return nil, err
		}
		labels[i] = e.Label
		parts[i] = a
	}
	return stack(l.Dim, labels, parts), nil
}

// ScenarioDim is the coordinate naming the policy scenario being
// quantified. It is consumed by ScenarioSetting layers rather than carried
// through to the result.
const ScenarioDim = "scenario"

// settingDim is the selector dimension ScenarioSetting introduces and
// drops again after combining.
const settingDim = "setting"

// ScenarioSettingLookupError is returned when a scenario identifier is not
// present in a ScenarioSetting mapping and no default is configured.
type ScenarioSettingLookupError struct {
	Scenario  string
	Available []string
}

func (e *ScenarioSettingLookupError) Error() string {
	return fmt.Sprintf("factor: no setting for scenario %q (have %v)", e.Scenario, e.Available)
}

// ScenarioSetting translates the external scenario identifier into an
// internal setting label. It consumes the scenario coordinate, quantifies
// to a unit value tagged with the selected setting label, and drops the
// selector dimension again after combining, so that a preceding Map over
// the setting dimension is reduced to the selected member.
//
// If the scenario is not in Setting, Default is used when configured
// (logging a fallback notice); otherwise the lookup fails.
type ScenarioSetting struct {
	Setting map[string]string
	Default string

	// Log receives fallback notices. If nil, the logrus standard logger
	// is used.
	Log logrus.FieldLogger
}

// Op returns Multiply.
func (l *ScenarioSetting) Op() Op { return Multiply }

func (l *ScenarioSetting) logger() logrus.FieldLogger {
	if l.Log != nil {
		return l.Log
	}
	return logrus.StandardLogger()
}

// setting resolves the scenario identifier in c to a setting label.
func (l *ScenarioSetting) setting(c *Coords) (string, error) {
	scenarios := c.Labels(ScenarioDim)
	if len(scenarios) != 1 {
		return "", fmt.Errorf("factor: scenario setting needs exactly one %q coordinate label but has %d",
			ScenarioDim, len(scenarios))
	}
	scen := scenarios[0]
	s, ok := l.Setting[scen]
	if !ok {
		available := make([]string, 0, len(l.Setting))
		for k := range l.Setting {
			available = append(available, k)
		}
		sort.Strings(available)
		if l.Default == "" {
			l.logger().WithFields(logrus.Fields{
				"scenario":  scen,
				"available": available,
			}).Error("factor: unrecognized scenario and no default setting")
			return "", &ScenarioSettingLookupError{Scenario: scen, Available: available}
		}
		l.logger().WithFields(logrus.Fields{
			"scenario": scen,
			"default":  l.Default,
		}).Info("factor: unrecognized scenario; falling back to default setting")
		s = l.Default
	}
	return s, nil
}

// Quantify implements Layer.
func (l *ScenarioSetting) Quantify(c *Coords) (*Array, error) {
	s, err := l.setting(c)
	if err != nil {
		return nil, err
	}
	a := NewArray(NewCoords().Add(settingDim, s))
	a.data.Elements[0] = 1
	return a, nil
}

// apply implements applier: the selector is combined with the running
// result by multiplication, the selector dimension is dropped from the
// combined result, and the scenario coordinate is removed from the
// working coordinate set.
func (l *ScenarioSetting) apply(prev *Array, c *Coords) (*Array, *Coords, error) {
	a, err := l.Quantify(c)
	if err != nil {
		return nil, nil, err
	}
	work := c.Drop(ScenarioDim)
	if prev == nil {
		return a.squeeze(settingDim), work, nil
	}
	return combine(prev, a, Multiply).squeeze(settingDim), work, nil
}
