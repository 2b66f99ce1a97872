package models

import "math"

// Preset is a named paper profile.
type Preset string

const (
	PresetThermal Preset = "thermal"
	PresetCarta   Preset = "carta"
	PresetOficio  Preset = "oficio"
	PresetCustom  Preset = "custom"
)

// Fixed thermal roll dimensions in millimetres.
const (
	ThermalWidthMm  = 80.0
	ThermalHeightMm = 200.0
)

// Presets lists the known presets in display order.
var Presets = []Preset{PresetThermal, PresetCarta, PresetOficio, PresetCustom}

// Valid reports whether p is one of the known presets.
func (p Preset) Valid() bool {
	for _, known := range Presets {
		if p == known {
			return true
		}
	}
	return false
}

// PrintSettings is the print format of one printer.
type PrintSettings struct {
	Preset   Preset   `json:"preset"`
	WidthMm  *float64 `json:"width_mm,omitempty"`
	HeightMm *float64 `json:"height_mm,omitempty"`
}

// DefaultPrintSettings returns {thermal, 80, 200}.
func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		Preset:   PresetThermal,
		WidthMm:  Float(ThermalWidthMm),
		HeightMm: Float(ThermalHeightMm),
	}
}

// SettingsPatch is a partial update. A nil field keeps the previous value.
// A non-nil field holding NaN or ±Inf clears the value.
type SettingsPatch struct {
	Preset   *Preset
	WidthMm  *float64
	HeightMm *float64
}

// Apply merges the patch into s and returns the normalised result.
func (s PrintSettings) Apply(p SettingsPatch) PrintSettings {
	out := s.Clone()
	if p.Preset != nil {
		out.Preset = *p.Preset
	}
	if p.WidthMm != nil {
		out.WidthMm = finiteOrNil(*p.WidthMm)
	}
	if p.HeightMm != nil {
		out.HeightMm = finiteOrNil(*p.HeightMm)
	}
	return out.Normalize()
}

// Normalize enforces the per-preset dimension rules. Thermal dimensions are
// fixed, carta and oficio sizes are resolved by the backend, custom keeps
// only finite values. An unknown preset falls back to the default.
func (s PrintSettings) Normalize() PrintSettings {
	switch s.Preset {
	case PresetThermal:
		return DefaultPrintSettings()
	case PresetCarta, PresetOficio:
		return PrintSettings{Preset: s.Preset}
	case PresetCustom:
		return PrintSettings{
			Preset:   s.Preset,
			WidthMm:  finitePtr(s.WidthMm),
			HeightMm: finitePtr(s.HeightMm),
		}
	default:
		return DefaultPrintSettings()
	}
}

// DimensionsEditable reports whether the user may edit width and height.
func (s PrintSettings) DimensionsEditable() bool {
	return s.Preset == PresetCustom
}

// Clone returns a copy that shares no pointers with s.
func (s PrintSettings) Clone() PrintSettings {
	out := PrintSettings{Preset: s.Preset}
	if s.WidthMm != nil {
		out.WidthMm = Float(*s.WidthMm)
	}
	if s.HeightMm != nil {
		out.HeightMm = Float(*s.HeightMm)
	}
	return out
}

// Equal compares presets and dimensions by value.
func (s PrintSettings) Equal(o PrintSettings) bool {
	return s.Preset == o.Preset && floatPtrEqual(s.WidthMm, o.WidthMm) && floatPtrEqual(s.HeightMm, o.HeightMm)
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return Float(v)
}

func finitePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return finiteOrNil(*p)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
