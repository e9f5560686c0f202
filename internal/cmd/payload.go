package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/painel/internal/ux"
)

// payload collects the --file and --set flags of create and update commands.
// Keys are the backend's field names.
type payload struct {
	file string
	sets []string
}

func (p *payload) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.file, "file", "", "JSON or YAML file with the fields to send")
	cmd.Flags().StringArrayVar(&p.sets, "set", nil, `field=value to send; values are parsed as JSON when possible (repeatable, e.g. --set preco=1500 --set 'telefone="011"')`)
}

// fields merges the file with the --set pairs; --set wins
func (p *payload) fields() (map[string]any, error) {
	out := map[string]any{}

	if p.file != "" {
		data, err := os.ReadFile(p.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p.file, err)
		}
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p.file, err)
		}
	}

	for _, set := range p.sets {
		key, raw, ok := strings.Cut(set, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected field=value", set)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		out[key] = v
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("nothing to send: use --file or --set")
	}
	return out, nil
}

// decodePayload converts the collected fields into T
func decodePayload[T any](p *payload) (T, error) {
	var out T
	fields, err := p.fields()
	if err != nil {
		return out, err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("invalid fields: %w", err)
	}
	return out, nil
}

// confirmDelete asks before deleting unless --yes was given
func confirmDelete(yes bool, what string) error {
	if yes {
		return nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("refusing to delete %s without --yes", what)
	}
	ok, err := ux.Confirm(fmt.Sprintf("Delete %s?", what), false)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cancelled")
	}
	return nil
}

func addYesFlag(cmd *cobra.Command, yes *bool) {
	cmd.Flags().BoolVarP(yes, "yes", "y", false, "do not ask for confirmation")
}

// boolFlag returns a pointer to the flag's value when it was set
func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}
