// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#2563EB")
	successColor = lipgloss.Color("#16A34A")
	errorColor   = lipgloss.Color("#DC2626")
	mutedColor   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	stepActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	stepDoneStyle    = lipgloss.NewStyle().Foreground(successColor)
	stepPendingStyle = lipgloss.NewStyle().Foreground(mutedColor)

	modeStyle = lipgloss.NewStyle().Foreground(mutedColor)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(errorColor).
				Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	labelStyle   = lipgloss.NewStyle().Foreground(mutedColor).Width(14)
	votedStyle   = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	pendingStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	spinnerStyle = lipgloss.NewStyle().Foreground(primaryColor)
	formErrStyle = lipgloss.NewStyle().Foreground(errorColor)
	contentStyle = lipgloss.NewStyle().Padding(1, 2)
)
