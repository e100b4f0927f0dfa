// ghadapter runs a command that prints a JSON object and exposes each top level
// field as a step output, so workflows can gate on e.g. the number of boxes.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ghadapter <command> [args...]")
		os.Exit(2)
	}

	cmd := exec.Command(os.Args[1], os.Args[2:]...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	_, _ = os.Stdout.Write(output)

	var result map[string]json.RawMessage
	if err := json.Unmarshal(output, &result); err != nil {
		return
	}

	githubOutput := os.Getenv("GITHUB_OUTPUT")
	if githubOutput == "" {
		return
	}
	f, err := os.OpenFile(githubOutput, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := write(f, result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// write emits strings unquoted, other values as compact JSON, and a count for
// every array field.
func write(w io.Writer, result map[string]json.RawMessage) error {
	keys := make([]string, 0, len(result))
	for key := range result {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := result[key]

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if _, err := fmt.Fprintf(w, "%s=%s\n", key, s); err != nil {
				return err
			}
			continue
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, compact.String()); err != nil {
			return err
		}

		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			if _, err := fmt.Fprintf(w, "%sCount=%d\n", key, len(items)); err != nil {
				return err
			}
		}
	}
	return nil
}
