package client

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/homehub/internal/models"
)

// Prompter asks questions on out and reads one-line answers from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	eof     bool
}

// NewPrompter creates a Prompter.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Line reads the next input line without printing a prompt. ok is false
// at end of input.
func (p *Prompter) Line() (string, bool) {
	if !p.scanner.Scan() {
		p.eof = true
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

// Ask prints label and returns the trimmed answer.
func (p *Prompter) Ask(label string) string {
	fmt.Fprintf(p.out, "%s: ", label)
	line, _ := p.Line()
	return line
}

// AskDefault is Ask with a fallback for an empty answer.
func (p *Prompter) AskDefault(label, def string) string {
	if ans := p.Ask(fmt.Sprintf("%s [%s]", label, def)); ans != "" {
		return ans
	}
	return def
}

// AskOptional returns nil for an empty answer.
func (p *Prompter) AskOptional(label string) *string {
	if ans := p.Ask(label + " (optional)"); ans != "" {
		return &ans
	}
	return nil
}

// AskDate keeps asking until the answer is a YYYY-MM-DD date.
func (p *Prompter) AskDate(label string) (models.Date, error) {
	for {
		ans := p.Ask(label + " (YYYY-MM-DD)")
		d, err := models.ParseDate(ans)
		if err == nil {
			return d, nil
		}
		if !p.more() {
			return "", err
		}
		fmt.Fprintln(p.out, err)
	}
}

// AskMoney keeps asking until the answer is a non-negative amount.
func (p *Prompter) AskMoney(label string) (models.Money, error) {
	for {
		ans := p.Ask(label)
		m, err := models.ParseMoney(ans)
		if err == nil {
			return m, nil
		}
		if !p.more() {
			return 0, err
		}
		fmt.Fprintln(p.out, err)
	}
}

// AskChoice keeps asking until the answer is one of choices. An empty
// answer selects def when def is not empty.
func (p *Prompter) AskChoice(label string, choices []string, def string) (string, error) {
	prompt := fmt.Sprintf("%s (%s)", label, strings.Join(choices, "/"))
	if def != "" {
		prompt += " [" + def + "]"
	}
	for {
		ans := p.Ask(prompt)
		if ans == "" && def != "" {
			return def, nil
		}
		for _, c := range choices {
			if strings.EqualFold(ans, c) {
				return c, nil
			}
		}
		if !p.more() {
			return "", fmt.Errorf("%q is not one of %s", ans, strings.Join(choices, ", "))
		}
		fmt.Fprintf(p.out, "choose one of %s\n", strings.Join(choices, ", "))
	}
}

// AskBool accepts y/yes/true and n/no/false.
func (p *Prompter) AskBool(label string, def bool) bool {
	d := "n"
	if def {
		d = "y"
	}
	ans := strings.ToLower(p.AskDefault(label+" (y/n)", d))
	if b, err := strconv.ParseBool(ans); err == nil {
		return b
	}
	return ans == "y" || ans == "yes"
}

// more reports whether another answer can still be read.
func (p *Prompter) more() bool {
	return !p.eof
}
