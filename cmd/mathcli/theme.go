package main

import (
	"charm.land/lipgloss/v2"
)

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorSuccess = lipgloss.Color("#22C55E")
	colorError   = lipgloss.Color("#F43F5E")
	colorAccent  = lipgloss.Color("#F97316")
	colorDim     = lipgloss.Color("#94A3B8")
	colorBorder  = lipgloss.Color("#334155")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	ottoStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	hintStyle    = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	correctStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	wrongStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(72)
)
