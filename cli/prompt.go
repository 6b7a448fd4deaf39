// Package cli holds the terminal helpers formctl uses: promptui prompts and
// boxed banners.
package cli

import (
	"io"
	"os"

	"github.com/manifoldco/promptui"
)

// Prompter asks questions on a terminal. The zero value uses os.Stdin and os.Stdout.
type Prompter struct {
	In  io.ReadCloser
	Out io.WriteCloser
}

func (p Prompter) in() io.ReadCloser {
	if p.In == nil {
		return os.Stdin
	}

	return p.In
}

func (p Prompter) out() io.WriteCloser {
	if p.Out == nil {
		return os.Stdout
	}

	return p.Out
}

// PromptValidated asks for an answer, pre-filled with def, that validate accepts.
// promptui runs validate on every keystroke.
func (p Prompter) PromptValidated(label, def string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: def != "",
		Validate:  validate,
		Stdin:     p.in(),
		Stdout:    p.out(),
	}

	return prompt.Run()
}

// Select offers a list of choices and returns the index and text of the pick.
func (p Prompter) Select(label string, choices ...string) (int, string, error) {
	sel := promptui.Select{
		Label:  label,
		Items:  choices,
		Stdin:  p.in(),
		Stdout: p.out(),
	}

	return sel.Run()
}
