// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// noticeMsg asks the model to show text until the voter presses a key.
type noticeMsg struct {
	text string
	ack  chan struct{}
}

// Bridge lets the flow controller reach a running program. It implements
// flow.Notifier by showing a blocking notice.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach connects the bridge to p. Until then notices are skipped.
func (b *Bridge) Attach(p *tea.Program) {
	b.attach(p.Send)
}

func (b *Bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

// Notify shows message and blocks until it is acknowledged or ctx ends.
// It must not be called from the program's Update.
func (b *Bridge) Notify(ctx context.Context, message string) error {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return nil
	}

	ack := make(chan struct{})
	send(noticeMsg{text: message, ack: ack})

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
