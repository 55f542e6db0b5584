// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/danielhkuo/voterauth/credentials"
	"github.com/danielhkuo/voterauth/flow"
)

// buildForm renders the collector's fields as a huh form. Values live in
// m.values so they survive a rebuild.
func (m Model) buildForm(mode flow.AuthMode) *huh.Form {
	collector := m.collector(mode)

	fields := make([]huh.Field, 0, len(collector.Fields()))
	for _, f := range collector.Fields() {
		v, ok := m.values[f.Key]
		if !ok {
			v = new(string)
			m.values[f.Key] = v
		}

		input := huh.NewInput().
			Key(f.Key).
			Title(f.Label).
			Placeholder(f.Placeholder).
			Value(v).
			Validate(m.fieldValidator(f.Key))
		if f.Secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		fields = append(fields, input)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithShowHelp(false).
		WithWidth(48)
}

// fieldValidator gives inline feedback; Collect repeats the checks on submit.
func (m Model) fieldValidator(fieldKey string) func(string) error {
	switch fieldKey {
	case credentials.KeyName:
		return discard(credentials.ValidateName)
	case credentials.KeyPhoneNumber:
		return discard(credentials.NormalizePhone)
	case credentials.KeyVoterID:
		return discard(credentials.ValidateVoterID)
	case credentials.KeyGovernmentID:
		return discard(credentials.ValidateGovernmentID)
	case credentials.KeyDateOfBirth:
		return func(s string) error {
			_, err := credentials.ValidateDateOfBirth(s, m.now())
			return err
		}
	}
	return func(string) error { return nil }
}

func discard(fn func(string) (string, error)) func(string) error {
	return func(s string) error {
		_, err := fn(s)
		return err
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Voter Authentication"))
	b.WriteString("\n")
	b.WriteString(progressView(m.state.Step))
	b.WriteString("\n\n")

	if m.state.Step == flow.CredentialsEntry {
		b.WriteString(modeStyle.Render(fmt.Sprintf("Mode: %s verification", modeTitle(m.state.AuthMode))))
		b.WriteString("\n\n")
	}

	if m.state.Error != "" {
		b.WriteString(errorBannerStyle.Render(m.state.Error))
		b.WriteString("\n\n")
	}

	if m.notice != nil {
		b.WriteString(noticeStyle.Render(m.notice.text + "\n\nPress any key to continue."))
		return contentStyle.Render(b.String())
	}

	switch m.state.Step {
	case flow.CredentialsEntry:
		b.WriteString(m.credentialsView())
	case flow.OTPVerification:
		b.WriteString(m.otpView())
	case flow.StatusDisplay:
		b.WriteString(m.statusView())
	}

	if m.state.Loading {
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + " Please wait...")
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return contentStyle.Render(b.String())
}

func (m Model) credentialsView() string {
	view := m.form.View()
	if m.formErr != "" {
		view += "\n" + formErrStyle.Render(m.formErr)
	}
	return view
}

func (m Model) otpView() string {
	var b strings.Builder

	phone := ""
	if m.state.Voter != nil {
		phone = credentials.MaskPhone(m.state.Voter.PhoneNumber)
	}
	fmt.Fprintf(&b, "Enter the OTP sent to %s\n\n", phone)
	b.WriteString(m.otpInput.View())
	if m.otpInput.Err != nil {
		b.WriteString("\n" + formErrStyle.Render(m.otpInput.Err.Error()))
	}
	return b.String()
}

func (m Model) statusView() string {
	v := m.state.Voter
	if v == nil {
		return "No voter details available."
	}

	rows := []string{
		labelStyle.Render("Voter ID") + v.VoterID,
		labelStyle.Render("Name") + v.Name,
		labelStyle.Render("Phone") + credentials.MaskPhone(v.PhoneNumber),
	}

	status := pendingStyle.Render("Not yet voted")
	if v.HasVoted {
		status = votedStyle.Render("Voted")
		if v.VotedAt != nil {
			status += " " + modeStyle.Render(v.VotedAt.Local().Format("2 Jan 2006 15:04"))
		}
	}
	rows = append(rows, labelStyle.Render("Status")+status)

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if m.state.CanVote() {
		body += "\n\nPress v to cast your vote."
	} else if v.HasVoted {
		body += "\n\nThank you for voting."
	}
	return body
}

func progressView(current flow.Step) string {
	parts := make([]string, 0, len(flow.Steps))
	for _, s := range flow.Steps {
		label := fmt.Sprintf("%d %s", int(s), s.Label())
		switch {
		case s == current:
			parts = append(parts, stepActiveStyle.Render(label))
		case s < current:
			parts = append(parts, stepDoneStyle.Render(label))
		default:
			parts = append(parts, stepPendingStyle.Render(label))
		}
	}
	return strings.Join(parts, stepPendingStyle.Render(" → "))
}

func modeTitle(mode flow.AuthMode) string {
	if mode == flow.Enhanced {
		return "Enhanced"
	}
	return "Simple"
}
