package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jan-g/jqi/pkg/jqi"
)

// Config holds the jqi command's flags.
type Config struct {
	Debug      bool
	RawOutput  bool
	Filter     string
	Completion int
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "jqi <filter>",
		Short: "Evaluate a jq-subset filter over newline-delimited JSON on stdin",
		Long: `jqi lexes, parses, and evaluates a jq-subset filter expression against
newline-delimited JSON values read from stdin, one filter application per
input value, writing each output value as a JSON line to stdout.`,
		Example: `  echo '{"a":1}' | jqi '.a'
  echo '{"a":1}' | jqi --debug '.a + 1'
  jqi --complete 2 '.a'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Filter = args[0]
			return run(cfg)
		},
	}

	rootCmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&cfg.RawOutput, "raw-output", "r", false, "Output string results without JSON quoting")
	rootCmd.Flags().IntVar(&cfg.Completion, "complete", -1, "Report completion candidates for a cursor at this byte offset in the filter, instead of evaluating")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if cfg.Completion >= 0 {
		return runComplete(cfg)
	}

	logger.Debug("parsing filter", "filter", cfg.Filter)
	eval, err := jqi.ParseSource(cfg.Filter)
	if err != nil {
		return errors.Wrap(err, "parse filter")
	}

	env := jqi.MakeEnv()
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		input, err := jqi.ParseJSON([]byte(line))
		if err != nil {
			return errors.Wrapf(err, "parse input %q", line)
		}
		logger.Debug("evaluating", "input", line)
		out, err := eval(jqi.Splice(env, []jqi.Value{input}))
		if err != nil {
			return errors.Wrap(err, "evaluate filter")
		}
		for _, v := range jqi.Unsplice(out) {
			if cfg.RawOutput {
				if s, ok := v.(jqi.String); ok {
					fmt.Println(string(s))
					continue
				}
			}
			b, err := jqi.MarshalJSON(v)
			if err != nil {
				return errors.Wrap(err, "marshal output")
			}
			fmt.Println(string(b))
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read stdin")
	}
	return nil
}

func runComplete(cfg Config) error {
	complete, err := jqi.Completer(cfg.Filter, cfg.Completion)
	if err != nil {
		return errors.Wrap(err, "parse filter for completion")
	}

	var inputs []jqi.Value
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := jqi.ParseJSON([]byte(line))
		if err != nil {
			return errors.Wrapf(err, "parse input %q", line)
		}
		inputs = append(inputs, v)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read stdin")
	}

	candidates, pos := complete(inputs, jqi.MakeEnv())
	fmt.Printf("span %d-%d\n", pos.Start, pos.End)
	for _, c := range candidates {
		fmt.Println(c.String())
	}
	return nil
}
