package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danmuck/neobuild/pkg/neoconf"
	"github.com/danmuck/neobuild/pkg/process"
	"github.com/fatih/color"
	"sigs.k8s.io/yaml"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func printStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case formatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printReport(w io.Writer, format string, report process.Report) error {
	if format != formatText {
		return printStructured(w, format, report)
	}
	paint := color.New(color.FgGreen, color.Bold)
	if !report.Success() {
		paint = color.New(color.FgRed, color.Bold)
	}
	_, err := paint.Fprintln(w, report.Describe())
	return err
}

func printConfig(w io.Writer, format string, res neoconf.Result) error {
	if format != formatText {
		return printStructured(w, format, res)
	}
	key := color.New(color.FgCyan)
	for _, e := range res.Entries {
		fmt.Fprintf(w, "%s=%s\n", key.Sprint(e.Key), e.Value)
	}
	warn := color.New(color.FgYellow)
	for _, s := range res.Skipped {
		warn.Fprintf(w, "skipped record %d: %q\n", s.Index, s.Record)
	}
	return nil
}
