package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleOrdinal = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styleAsk     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Prompter asks the operator which discovered files to analyze
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading answers from in
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// List prints the discovered files with their ordinals
func (p *Prompter) List(files []MonthFile) {
	fmt.Fprintln(p.out, styleHeader.Render("Found the following files:"))
	for i, f := range files {
		fmt.Fprintf(p.out, "%s %s\n", styleOrdinal.Render(fmt.Sprintf("%d.", i+1)), f.Name())
	}
}

// Choose lists files and reads the selection. A blank answer asks for
// confirmation to analyze everything; y, yes or another blank confirms.
// End of input at either question cancels.
func (p *Prompter) Choose(files []MonthFile) ([]MonthFile, error) {
	p.List(files)

	answer, err := p.ask("Enter the file numbers to analyze (comma separated). Leave blank to analyze all: ")
	if err != nil {
		return nil, err
	}

	if answer == "" {
		confirm, err := p.ask("No numbers entered. Do you want to analyze all files? (y/n): ")
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(confirm) {
		case "", "y", "yes":
			return files, nil
		default:
			return nil, ErrCanceled
		}
	}

	return Select(files, ParseSelection(answer, len(files)))
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, styleAsk.Render(question))
	line, err := p.in.ReadString('\n')
	if err == io.EOF && line == "" {
		// closed stdin is not an answer
		fmt.Fprintln(p.out)
		return "", ErrCanceled
	}
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read selection: %w", err)
	}
	return strings.TrimSpace(line), nil
}
