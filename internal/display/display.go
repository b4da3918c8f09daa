package display

import (
	"fmt"
	"io"

	"streamlab/internal/domain"
)

// Display receives each newly observed message together with the name of the
// source it came from.
type Display interface {
	Show(msg domain.Message, source string) error
}

// Console prints one block per message.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Show(msg domain.Message, source string) error {
	author := msg.Author
	if author == "" {
		author = "Unknown"
	}

	_, err := fmt.Fprintf(c.out,
		"\nMessage from %s:\n  Author:    %s\n  Message:   %s\n  Timestamp: %s\n",
		source, author, msg.Text, msg.Timestamp)
	if err != nil {
		return err
	}

	if msg.Category != "" {
		if _, err := fmt.Fprintf(c.out, "  Category:  %s\n", msg.Category); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(c.out, "  Sentiment: %.2f\n", msg.Sentiment)
	return err
}
