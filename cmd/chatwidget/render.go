// ABOUTME: Prints widget view changes to the terminal
// ABOUTME: Tracks what was already shown so each update prints only the delta

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/2389/chatwidget/internal/conversation"
	"github.com/2389/chatwidget/internal/leadgate"
	"github.com/2389/chatwidget/internal/widget"
)

// printer is a widget.Observer that writes deltas to out.
type printer struct {
	mu      sync.Mutex
	out     io.Writer
	lastSeq int
	open    bool
	phase   leadgate.Phase
	status  string
	title   string
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out, lastSeq: -1}
}

func (p *printer) WidgetChanged(v widget.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v.Title != p.title {
		p.title = v.Title
		fmt.Fprintln(p.out, color.New(color.Bold).Sprint("== "+v.Title+" =="))
	}
	if v.Open != p.open {
		p.open = v.Open
		state := "closed"
		if v.Open {
			state = "open"
		}
		fmt.Fprintln(p.out, color.HiBlackString("[panel %s, docked %s]", state, v.Dock))
	}
	if v.Gate.Phase != p.phase {
		p.phase = v.Gate.Phase
		if v.Gate.FormVisible {
			p.printForm(v.Gate)
		}
	}
	if v.Gate.Status.Text != p.status {
		p.status = v.Gate.Status.Text
		p.printStatus(v.Gate.Status)
	}
	for _, m := range v.Messages {
		if m.Seq <= p.lastSeq {
			continue
		}
		p.lastSeq = m.Seq
		p.printMessage(v.Title, m)
	}
}

func (p *printer) printForm(g leadgate.View) {
	fmt.Fprintln(p.out, color.YellowString("Please share your details before chatting:"))
	for _, in := range g.Inputs {
		req := ""
		if in.Required {
			req = "*"
		}
		fmt.Fprintf(p.out, "  %s%s (%s) %s\n", in.Name, req, in.Kind, color.HiBlackString(in.Placeholder))
	}
	fmt.Fprintln(p.out, color.HiBlackString("  use /save name=value ..."))
}

func (p *printer) printStatus(s leadgate.Status) {
	switch s.Kind {
	case leadgate.StatusError:
		fmt.Fprintln(p.out, color.RedString(s.Text))
	case leadgate.StatusOK:
		fmt.Fprintln(p.out, color.GreenString(s.Text))
	}
}

func (p *printer) printMessage(title string, m conversation.Message) {
	switch m.Role {
	case conversation.RoleUser:
		fmt.Fprintf(p.out, "%s %s\n", color.CyanString("you:"), m.Content)
	default:
		text := m.Content
		if strings.HasPrefix(text, conversation.ErrorPrefix) {
			text = color.RedString(text)
		}
		fmt.Fprintf(p.out, "%s %s\n", color.GreenString(title+":"), text)
	}
}

// printView writes the whole view, for /view.
func printView(out io.Writer, v widget.View) {
	state := "closed"
	if v.Open {
		state = "open"
	}
	fmt.Fprintf(out, "%s  %s\n", color.New(color.Bold).Sprint(v.Title), color.HiBlackString(v.Subheading))
	fmt.Fprintf(out, "  panel:    %s (%s)\n", state, v.Dock)
	fmt.Fprintf(out, "  theme:    %s %s branding=%t\n", v.Icon, v.PrimaryColor, v.ShowBranding)
	fmt.Fprintf(out, "  avatar:   %s\n", truncate(v.AvatarURL, 60))
	fmt.Fprintf(out, "  gate:     %s (chat visible: %t)\n", v.Gate.Phase, v.ChatVisible)
	for _, in := range v.Gate.Inputs {
		fmt.Fprintf(out, "    %s=%q\n", in.Name, in.Value)
	}
	if v.Gate.Status.Text != "" {
		fmt.Fprintf(out, "    status: %s\n", v.Gate.Status.Text)
	}
	fmt.Fprintf(out, "  input:    %q enabled=%t\n", v.InputPlaceholder, v.InputEnabled)
	if v.TypingShown {
		fmt.Fprintf(out, "  typing:   %s\n", v.Typing)
	}
	fmt.Fprintf(out, "  messages: %d\n", len(v.Messages))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
