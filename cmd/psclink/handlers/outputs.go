package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/imamik/psclink/internal/engine"
	"github.com/imamik/psclink/internal/ui/tui"
)

// Output formats accepted by -o.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Outputs prints the stack outputs. Secrets are masked unless showSecrets
// is set.
func Outputs(ctx context.Context, configPath, format string, showSecrets bool) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	s, err := openSession(ctx, configPath, engine.Options{})
	if err != nil {
		return err
	}

	outputs, err := s.stack.Outputs(ctx, showSecrets)
	if err != nil {
		return fmt.Errorf("failed to read outputs of stack %s: %w", s.stack.Name(), err)
	}

	return writeFormatted(stdout, format, outputs, func() string {
		return tui.RenderOutputs(outputs)
	})
}

func checkFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want %s, %s or %s)", format, FormatTable, FormatJSON, FormatYAML)
	}
}

// writeFormatted writes v as JSON or YAML, or the table rendering.
func writeFormatted(w io.Writer, format string, v any, table func() string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprint(w, table())
		return err
	}
}
