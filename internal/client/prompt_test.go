package client

import (
	"bytes"
	"strings"
	"testing"

	"github.com/atinyakov/homehub/internal/models"
)

func TestPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  Milk  \n\n"), &out)

	if got := p.Ask("Name"); got != "Milk" {
		t.Errorf("Ask = %q; want %q", got, "Milk")
	}
	if got := p.AskDefault("Qty", "1"); got != "1" {
		t.Errorf("AskDefault = %q; want %q", got, "1")
	}
	if !strings.Contains(out.String(), "Name: ") || !strings.Contains(out.String(), "Qty [1]: ") {
		t.Errorf("unexpected prompts: %q", out.String())
	}
}

func TestPrompter_AskOptional(t *testing.T) {
	p := NewPrompter(strings.NewReader("\nGym\n"), &bytes.Buffer{})
	if got := p.AskOptional("Location"); got != nil {
		t.Errorf("AskOptional = %q; want nil", *got)
	}
	if got := p.AskOptional("Location"); got == nil || *got != "Gym" {
		t.Errorf("AskOptional = %v; want Gym", got)
	}
}

func TestPrompter_AskDateRetries(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("tomorrow\n2025-03-11\n"), &out)
	d, err := p.AskDate("Due")
	if err != nil {
		t.Fatalf("AskDate: %v", err)
	}
	if d != models.Date("2025-03-11") {
		t.Errorf("AskDate = %q", d)
	}
	if !strings.Contains(out.String(), "invalid date") {
		t.Errorf("expected a retry message, got %q", out.String())
	}
}

func TestPrompter_AskDateEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader("nope\n"), &bytes.Buffer{})
	if _, err := p.AskDate("Due"); err == nil {
		t.Fatal("expected error at end of input")
	}
}

func TestPrompter_AskMoney(t *testing.T) {
	p := NewPrompter(strings.NewReader("-4\n12,5\n"), &bytes.Buffer{})
	m, err := p.AskMoney("Amount")
	if err != nil {
		t.Fatalf("AskMoney: %v", err)
	}
	if m != models.Money(1250) {
		t.Errorf("AskMoney = %d; want 1250", m)
	}
}

func TestPrompter_AskChoice(t *testing.T) {
	p := NewPrompter(strings.NewReader("urgent\nhigh\n\n"), &bytes.Buffer{})
	got, err := p.AskChoice("Priority", models.TaskPriorities, "")
	if err != nil || got != "High" {
		t.Errorf("AskChoice = %q, %v; want High", got, err)
	}
	got, err = p.AskChoice("Priority", models.TaskPriorities, "Medium")
	if err != nil || got != "Medium" {
		t.Errorf("AskChoice default = %q, %v; want Medium", got, err)
	}
}

func TestPrompter_AskBool(t *testing.T) {
	p := NewPrompter(strings.NewReader("y\nno\n\n"), &bytes.Buffer{})
	if !p.AskBool("Done", false) {
		t.Error("y should be true")
	}
	if p.AskBool("Done", true) {
		t.Error("no should be false")
	}
	if !p.AskBool("Done", true) {
		t.Error("empty answer should use the default")
	}
}
