package commands

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// writeGithubOutputs appends the outputs to the file github actions reads the step outputs from.
// Multi line values use the heredoc format. Nothing happens outside of github actions.
func writeGithubOutputs(path string, outputs map[string]string) error {
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not open github output file: %w", err)
	}
	defer f.Close()

	keys := make([]string, 0, len(outputs))
	for key := range outputs {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		value := outputs[key]
		if strings.Contains(value, "\n") {
			delimiter := "ghadelimiter_" + uuid.NewString()
			_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
		} else {
			_, err = fmt.Fprintf(f, "%s=%s\n", key, value)
		}
		if err != nil {
			return fmt.Errorf("could not write github output %s: %w", key, err)
		}
	}
	return nil
}
