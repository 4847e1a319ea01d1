package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/logwrap/internal/leaks"
	"github.com/fyrsmithlabs/logwrap/pkg/intercept"
)

func newRedactCmd() *cobra.Command {
	var (
		patterns   []string
		scrub      bool
		gitleaks   bool
		allowlists []string
		summary    bool
	)

	cmd := &cobra.Command{
		Use:   "redact [file]",
		Short: "Mask sensitive data in a file or stdin",
		Long: `Run the interception sanitizers over text, line by line, and print the
result. Each --pattern match is replaced with ***; --scrub also masks
credentials found by the built-in secret rules, and --gitleaks runs the
full Gitleaks rule set last.

Examples:
  # Mask card numbers in a log file
  logwrap redact --pattern '\d{4}-\d{4}-\d{4}-\d{4}' app.log

  # Scrub secrets from stdin
  cat output.log | logwrap redact --scrub -

  # Deep scan with an allowlist and a per-rule summary on stderr
  logwrap redact --gitleaks --allowlist .gitleaks.toml --summary app.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(patterns) == 0 && !scrub && !gitleaks {
				return fmt.Errorf("at least one of --pattern, --scrub or --gitleaks is required")
			}
			sanitizer, err := buildSanitizer(patterns, scrub)
			if err != nil {
				return err
			}
			var detector *leaks.Detector
			if gitleaks {
				allow, err := leaks.LoadAllowlists(allowlists...)
				if err != nil {
					return err
				}
				if detector, err = leaks.New(allow); err != nil {
					return err
				}
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to read file %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			res, err := redactLines(in, cmd.OutOrStdout(), sanitizer, detector)
			if err != nil {
				return err
			}
			if res.changed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "[logwrap] masked data on %d line(s)\n", res.changed)
			}
			if summary && detector != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), res.leaks.JSON())
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&patterns, "pattern", "p", nil, "regular expression to mask (repeatable)")
	cmd.Flags().BoolVar(&scrub, "scrub", false, "also mask secrets detected by the built-in rules")
	cmd.Flags().BoolVar(&gitleaks, "gitleaks", false, "also mask secrets detected by the Gitleaks rule set")
	cmd.Flags().StringArrayVar(&allowlists, "allowlist", nil, "Gitleaks-style TOML allowlist (repeatable)")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a JSON summary of Gitleaks findings to stderr")
	return cmd
}

// buildSanitizer returns nil when neither patterns nor scrub are requested.
func buildSanitizer(patterns []string, scrub bool) (intercept.Sanitizer, error) {
	var steps []intercept.Sanitizer
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		steps = append(steps, intercept.Redact(re))
	}
	if scrub {
		steps = append(steps, intercept.Scrub())
	}
	if len(steps) == 0 {
		return nil, nil
	}
	return intercept.Chain(steps[0], steps[1:]...), nil
}

type redactResult struct {
	changed int
	leaks   leaks.Summary
}

// redactLines copies r to w through s and then d, either of which may be nil.
func redactLines(r io.Reader, w io.Writer, s intercept.Sanitizer, d *leaks.Detector) (redactResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var res redactResult
	for scanner.Scan() {
		line := scanner.Text()
		out := line
		if s != nil {
			var err error
			if out, err = s(line); err != nil {
				return res, fmt.Errorf("failed to sanitize line: %w", err)
			}
		}
		if d != nil {
			var findings []leaks.Finding
			out, findings = d.Redact(out, intercept.Mask)
			res.leaks.Add(leaks.Summarize(findings))
		}
		if out != line {
			res.changed++
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return res, err
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("failed to read input: %w", err)
	}
	return res, nil
}
