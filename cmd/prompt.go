package cmd

import (
	"github.com/charmbracelet/huh"
)

// SelectOption is one entry in a select or multi-select prompt.
type SelectOption[T any] struct {
	Label string
	Value T
}

// filterThreshold: type-to-filter kicks in only for longer lists.
const filterThreshold = 5

func runField(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).WithShowHelp(true).Run()
}

// promptPassword asks for a secret with hidden input.
func promptPassword(title, description string) (string, error) {
	var value string
	inp := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value)
	if description != "" {
		inp = inp.Description(description)
	}
	if err := runField(inp); err != nil {
		return "", err
	}
	return value, nil
}

// promptSelect shows a single-select list and returns the chosen value.
func promptSelect[T comparable](title string, options []SelectOption[T], defaultIdx int) (T, error) {
	var value T
	huhOpts := make([]huh.Option[T], len(options))
	for i, opt := range options {
		huhOpts[i] = huh.NewOption(opt.Label, opt.Value)
	}
	if defaultIdx >= 0 && defaultIdx < len(options) {
		huhOpts[defaultIdx] = huhOpts[defaultIdx].Selected(true)
	}

	sel := huh.NewSelect[T]().
		Title(title).
		Options(huhOpts...).
		Value(&value)
	if len(options) > filterThreshold {
		sel = sel.Filtering(true)
	}

	if err := runField(sel); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

// promptMultiSelect shows a multi-select list with the given values
// pre-checked.
func promptMultiSelect[T comparable](title, description string, options []SelectOption[T], preselected []T) ([]T, error) {
	preSet := make(map[T]bool, len(preselected))
	for _, v := range preselected {
		preSet[v] = true
	}

	var values []T
	huhOpts := make([]huh.Option[T], len(options))
	for i, opt := range options {
		o := huh.NewOption(opt.Label, opt.Value)
		if preSet[opt.Value] {
			o = o.Selected(true)
		}
		huhOpts[i] = o
	}

	ms := huh.NewMultiSelect[T]().
		Title(title).
		Options(huhOpts...).
		Value(&values)
	if description != "" {
		ms = ms.Description(description)
	}
	if len(options) > filterThreshold {
		ms = ms.Filtering(true)
	}

	if err := runField(ms); err != nil {
		return nil, err
	}
	return values, nil
}

// promptConfirm asks a yes/no question.
func promptConfirm(title string, defaultYes bool) (bool, error) {
	value := defaultYes
	c := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	if err := runField(c); err != nil {
		return false, err
	}
	return value, nil
}
