// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/danielhkuo/voterauth/flow"
)

type keyMap struct {
	Submit     key.Binding
	Verify     key.Binding
	Resend     key.Binding
	Back       key.Binding
	Vote       key.Binding
	Reset      key.Binding
	ToggleMode key.Binding
	Dismiss    key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next/submit")),
		Verify:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "verify")),
		Resend:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "resend OTP")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Vote:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "cast vote")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "start over")),
		ToggleMode: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "switch mode")),
		Dismiss:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "dismiss error")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// applyState enables only the bindings that make sense for s.
func (k *keyMap) applyState(s flow.FlowState) {
	idle := !s.Loading

	k.Submit.SetEnabled(idle && s.Step == flow.CredentialsEntry)
	k.ToggleMode.SetEnabled(idle && s.Step == flow.CredentialsEntry)
	k.Verify.SetEnabled(idle && s.Step == flow.OTPVerification)
	k.Resend.SetEnabled(idle && s.Step == flow.OTPVerification)
	k.Back.SetEnabled(idle && s.Step == flow.OTPVerification)
	k.Vote.SetEnabled(idle && s.Step == flow.StatusDisplay && s.CanVote())
	k.Reset.SetEnabled(idle && s.Step == flow.StatusDisplay)
	k.Dismiss.SetEnabled(s.Error != "")

	// q is text input on the first two steps
	if s.Step == flow.StatusDisplay {
		k.Quit.SetKeys("q", "ctrl+c")
		k.Quit.SetHelp("q", "quit")
	} else {
		k.Quit.SetKeys("ctrl+c")
		k.Quit.SetHelp("ctrl+c", "quit")
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Verify, k.Resend, k.Back, k.Vote, k.Reset, k.ToggleMode, k.Dismiss, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
