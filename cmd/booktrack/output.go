package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"booktrack/internal/api"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML encodes v as YAML to the command's stdout.
func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func describeOutcome(view api.OutcomeView) string {
	subject := fmt.Sprintf("#%d", view.Issue)
	switch {
	case view.Entry != nil:
		subject = fmt.Sprintf("%s by %s (#%d)", view.Entry.Title, view.Entry.Author, view.Issue)
	case strings.TrimSpace(view.Title) != "":
		subject = fmt.Sprintf("%s (#%d)", view.Title, view.Issue)
	}
	line := fmt.Sprintf("%s: %s", strings.ReplaceAll(view.Outcome, "_", " "), subject)
	if view.Error != "" {
		line += " [" + view.Error + "]"
	}
	return line
}

func dash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
