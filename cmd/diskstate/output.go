package main

import (
	"encoding/json"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// writeStructured writes v as JSON or YAML when one was requested and
// reports whether it did.
func (c *commandContext) writeStructured(cmd *cobra.Command, v any) (bool, error) {
	switch {
	case c.jsonFlag != nil && *c.jsonFlag:
		return true, writeJSON(cmd, v)
	case c.yamlFlag != nil && *c.yamlFlag:
		return true, writeYAML(cmd, v)
	default:
		return false, nil
	}
}

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

var titleCaser = cases.Title(language.Und)

// label turns an enum or section name into a display label.
func label(value string) string {
	return titleCaser.String(value)
}

func formatSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(size))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
