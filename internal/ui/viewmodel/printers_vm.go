package viewmodel

import (
	"strconv"

	"isiprint/internal/domain/models"
)

// PrintersViewModel is the state of the printers tab.
type PrintersViewModel struct {
	Printers []string
	Selected string

	// Settings of the selected printer
	Preset             string
	Presets            []string
	WidthText          string
	HeightText         string
	DimensionsEditable bool

	TestPrintEnabled bool
	EmptyListText    string

	// Network discovery
	Scanning          bool
	ScanButtonText    string
	LocalIP           string
	Candidates        []models.NetworkPrinter
	CandidatesVisible bool
}

func NewPrintersViewModel() *PrintersViewModel {
	presets := make([]string, len(models.Presets))
	for i, p := range models.Presets {
		presets[i] = string(p)
	}
	return &PrintersViewModel{
		Presets:        presets,
		Preset:         string(models.PresetThermal),
		ScanButtonText: "Scan network",
	}
}

// SetSettings copies settings into the display fields.
func (vm *PrintersViewModel) SetSettings(s models.PrintSettings) {
	vm.Preset = string(s.Preset)
	vm.WidthText = formatMm(s.WidthMm)
	vm.HeightText = formatMm(s.HeightMm)
	vm.DimensionsEditable = s.DimensionsEditable()
}

func formatMm(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// UpdateUIState derives texts and enablement.
func (vm *PrintersViewModel) UpdateUIState() {
	vm.TestPrintEnabled = vm.Selected != ""
	if len(vm.Printers) == 0 {
		vm.EmptyListText = "No printers found"
	} else {
		vm.EmptyListText = ""
	}
	if vm.Scanning {
		vm.ScanButtonText = "Scanning..."
	} else {
		vm.ScanButtonText = "Scan network"
	}
}
