package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Credentials is the input of an interactive login
type Credentials struct {
	Email  string
	Secret string
}

// PromptLogin asks for the missing login fields. Fields already set in c
// are not asked again.
func PromptLogin(c Credentials) (Credentials, error) {
	var fields []huh.Field

	if c.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&c.Email).
			Validate(validateEmail))
	}
	if c.Secret == "" {
		fields = append(fields, huh.NewInput().
			Title("Senha").
			EchoMode(huh.EchoModePassword).
			Value(&c.Secret).
			Validate(required("password")))
	}
	if len(fields) == 0 {
		return c, nil
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return Credentials{}, fmt.Errorf("prompt failed: %w", err)
	}
	c.Email = strings.TrimSpace(c.Email)
	return c, nil
}

// Confirm displays a yes/no confirmation prompt
func Confirm(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(message).
			Value(&confirmed),
	))

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}

// Select displays a selection prompt with multiple options
func Select(message string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided")
	}

	var selected string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(message).
			Options(huh.NewOptions(options...)...).
			Value(&selected),
	))

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return selected, nil
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return fmt.Errorf("%q is not an email address", s)
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
