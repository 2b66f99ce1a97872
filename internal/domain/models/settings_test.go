package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preset(p Preset) *Preset { return &p }

func TestApply_NormalizesPerPreset(t *testing.T) {
	tests := []struct {
		name  string
		base  PrintSettings
		patch SettingsPatch
		want  PrintSettings
	}{
		{
			name:  "thermal forces fixed size",
			base:  PrintSettings{Preset: PresetCustom, WidthMm: Float(50), HeightMm: Float(70)},
			patch: SettingsPatch{Preset: preset(PresetThermal), WidthMm: Float(10)},
			want:  DefaultPrintSettings(),
		},
		{
			name:  "carta drops dimensions",
			base:  DefaultPrintSettings(),
			patch: SettingsPatch{Preset: preset(PresetCarta)},
			want:  PrintSettings{Preset: PresetCarta},
		},
		{
			name:  "oficio drops dimensions",
			base:  DefaultPrintSettings(),
			patch: SettingsPatch{Preset: preset(PresetOficio), HeightMm: Float(300)},
			want:  PrintSettings{Preset: PresetOficio},
		},
		{
			name:  "custom keeps unspecified fields",
			base:  DefaultPrintSettings(),
			patch: SettingsPatch{Preset: preset(PresetCustom), WidthMm: Float(58)},
			want:  PrintSettings{Preset: PresetCustom, WidthMm: Float(58), HeightMm: Float(200)},
		},
		{
			name:  "non-finite clears the field",
			base:  PrintSettings{Preset: PresetCustom, WidthMm: Float(58), HeightMm: Float(100)},
			patch: SettingsPatch{WidthMm: Float(math.NaN()), HeightMm: Float(math.Inf(1))},
			want:  PrintSettings{Preset: PresetCustom},
		},
		{
			name:  "unknown preset falls back to default",
			base:  DefaultPrintSettings(),
			patch: SettingsPatch{Preset: preset("a4")},
			want:  DefaultPrintSettings(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base.Apply(tt.patch)
			assert.True(t, tt.want.Equal(got), "got %+v", got)
		})
	}
}

func TestApply_DoesNotAliasBase(t *testing.T) {
	base := PrintSettings{Preset: PresetCustom, WidthMm: Float(50)}
	got := base.Apply(SettingsPatch{})
	*got.WidthMm = 99
	assert.Equal(t, 50.0, *base.WidthMm)
}

func TestPrintSettings_JSON(t *testing.T) {
	raw, err := json.Marshal(PrintSettings{Preset: PresetCarta})
	require.NoError(t, err)
	assert.JSONEq(t, `{"preset":"carta"}`, string(raw))

	var s PrintSettings
	require.NoError(t, json.Unmarshal([]byte(`{"preset":"custom","width_mm":58.5,"height_mm":120}`), &s))
	assert.True(t, s.DimensionsEditable())
	assert.Equal(t, 58.5, *s.WidthMm)
}

func TestSessionState_Complete(t *testing.T) {
	token, email := "t", "a@b.c"
	assert.True(t, SessionState{Token: &token, Email: &email, IsLoggedIn: true}.Complete())
	assert.False(t, SessionState{Token: &token, IsLoggedIn: true}.Complete())
	assert.False(t, SessionState{Token: &token, Email: &email}.Complete())
	assert.False(t, LoggedOut().Complete())
}

func TestUniqueNetworkPrinters(t *testing.T) {
	in := []NetworkPrinter{
		{Name: "a", IP: "10.0.0.5", Port: 9100},
		{Name: "b", IP: "10.0.0.5", Port: 9100},
		{Name: "c", IP: "10.0.0.5", Port: 631},
	}
	out := UniqueNetworkPrinters(in)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, "c", out[1].Name)
}
