// Package editor opens the user's editor so a dream can be written at length.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ResolveEditor determines which editor to use based on config, env vars, and fallback.
func ResolveEditor(configEditor string) string {
	if configEditor != "" {
		return configEditor
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	if ed := os.Getenv("VISUAL"); ed != "" {
		return ed
	}
	return "vi"
}

// DreamTemplate seeds the editor when recording a new dream.
const DreamTemplate = `
# Describe your dream above. Lines starting with '#' are ignored.
# Save and close the editor to record it; leave it empty to cancel.
`

// Edit opens content in the editor and returns what was saved. changed is
// false when the saved text, once trimmed, is empty or equal to the input.
func Edit(editorCmd string, initialContent string) (content string, changed bool, err error) {
	parts := strings.Fields(editorCmd)
	if len(parts) == 0 {
		return "", false, fmt.Errorf("empty editor command")
	}

	tmp, err := os.CreateTemp("", "dreamctl-*.md")
	if err != nil {
		return "", false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(initialContent); err != nil {
		tmp.Close()
		return "", false, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", false, fmt.Errorf("closing temp file: %w", err)
	}

	cmd := exec.Command(parts[0], append(parts[1:], tmpName)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", false, fmt.Errorf("editor exited with error: %w", err)
	}

	data, err := os.ReadFile(tmpName)
	if err != nil {
		return "", false, fmt.Errorf("reading edited file: %w", err)
	}

	result := string(data)
	switch strings.TrimSpace(result) {
	case "":
		return "", false, nil
	case strings.TrimSpace(initialContent):
		return initialContent, false, nil
	}
	return result, true, nil
}

// ComposeDream opens the editor on DreamTemplate and returns the dream text
// with comment lines removed. An empty result means the user cancelled.
func ComposeDream(editorCmd string) (string, error) {
	content, _, err := Edit(editorCmd, DreamTemplate)
	if err != nil {
		return "", err
	}
	return StripComments(content), nil
}

// StripComments drops lines whose first non-blank character is '#' and trims
// the result.
func StripComments(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			continue
		}
		kept = append(kept, strings.TrimRight(l, "\r"))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
