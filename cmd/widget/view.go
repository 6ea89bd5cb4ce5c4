package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/service/conversation"
)

// terminalView prints transcript changes as they happen.
type terminalView struct {
	mu      sync.Mutex
	out     io.Writer
	company string
	printed int
	open    bool
	prompt  bool
}

func newTerminalView(out io.Writer, company string) *terminalView {
	return &terminalView{out: out, company: company}
}

func (v *terminalView) banner() {
	fmt.Fprintf(v.out, "== %s ==\n", v.company)
	fmt.Fprintln(v.out, "commands: /open /close /email <address> /leads /quit")
}

func (v *terminalView) render(state conversation.State) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if state.Open != v.open {
		v.open = state.Open
		if v.open {
			fmt.Fprintln(v.out, "[chat opened]")
		} else {
			fmt.Fprintln(v.out, "[chat closed]")
		}
	}

	for _, msg := range state.Transcript[v.printed:] {
		label := v.company
		if msg.Author == chat.AuthorUser {
			label = "you"
		}
		fmt.Fprintf(v.out, "%s> %s\n", label, msg.Content)
	}
	v.printed = len(state.Transcript)

	if state.EmailPromptVisible && !v.prompt {
		fmt.Fprintln(v.out, "[leave your email with: /email you@example.com]")
	}
	v.prompt = state.EmailPromptVisible
}

func (v *terminalView) notice(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "[%s]\n", text)
}

func (v *terminalView) leadList(leads []chat.LeadRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(leads) == 0 {
		fmt.Fprintln(v.out, "[no leads yet]")
		return
	}
	for _, lead := range leads {
		fmt.Fprintf(v.out, "lead %s  %s  %s\n", lead.Timestamp.Format(time.RFC3339), lead.Email, lead.ID)
	}
}
