package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmation is a pending yes/no question. It settles once: the first
// Accept or Decline wins and later calls do nothing.
type Confirmation struct {
	Prompt string

	onAccept func()
	settled  bool
}

func NewConfirmation(prompt string, onAccept func()) *Confirmation {
	return &Confirmation{Prompt: prompt, onAccept: onAccept}
}

// Accept runs the confirmed action.
func (c *Confirmation) Accept() {
	if c.settled {
		return
	}
	c.settled = true
	c.onAccept()
}

// Decline drops the action.
func (c *Confirmation) Decline() {
	c.settled = true
}

func (c *Confirmation) Settled() bool { return c.settled }

// Asker presents a confirmation to the user. It may settle it right away
// or later.
type Asker func(c *Confirmation)

// PromptAsker asks on out and reads the answer from in. Anything but "y"
// or "yes" declines.
func PromptAsker(in io.Reader, out io.Writer) Asker {
	reader := bufio.NewReader(in)
	return func(c *Confirmation) {
		fmt.Fprintf(out, "%s [y/N]: ", c.Prompt)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			c.Decline()
			return
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			c.Accept()
		default:
			c.Decline()
		}
	}
}
