package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"
)

// TerminalNotifier prints user facing messages as cards on a terminal.
type TerminalNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

func (n *TerminalNotifier) PresentError(message string) {
	n.present(color.New(color.BgRed, color.FgWhite, color.OpBold).Render(" Error! "), message)
}

func (n *TerminalNotifier) PresentInfo(message string) {
	n.present(color.New(color.BgBlue, color.FgWhite).Render(" Info "), message)
}

func (n *TerminalNotifier) present(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.out, "%s %s\n", title, message)
}
