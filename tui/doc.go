// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tui is the terminal interface of the voter client, built on
bubbletea.

The Model renders whatever step the flow controller is on:

  - credentials: a huh form built from the active credentials.Collector
  - OTP verification: a six digit input and the masked phone number
  - vote status: voter details with the option to cast a vote

A header shows the step progress, the auth mode (on the first step), an error
banner and a spinner while a remote call is running.

# Keys

	enter    submit the form / verify the OTP
	ctrl+t   switch between simple and enhanced credentials
	ctrl+r   resend the OTP
	esc      leave OTP verification
	v        cast vote
	r        start over from the status screen
	ctrl+x   dismiss the error banner
	q        quit from the status screen
	ctrl+c   quit

Tab moves between form fields, so mode switching uses ctrl+t.

# Wiring

Remote calls run as tea.Cmds, never inside Update. A Bridge gives the
controller a way to show a blocking notice once the program is running:

	bridge := tui.NewBridge()
	ctrl := flow.New(client, flow.WithNotifier(bridge))
	p := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen())
	bridge.Attach(p)
	_, err := p.Run()
*/
package tui
