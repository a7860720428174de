package utils

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EditorCommand returns the user's editor split into program and
// arguments: $VISUAL, then $EDITOR, then vi.
func EditorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// EditorCmd builds the command that opens path in the user's editor.
func EditorCmd(path string) *exec.Cmd {
	editor := EditorCommand()
	return exec.Command(editor[0], append(editor[1:], path)...)
}

// WriteTempMarkdown writes content to a new temporary .md file and returns
// its path. The caller removes it.
func WriteTempMarkdown(content string) (string, error) {
	f, err := os.CreateTemp("", "memo-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return f.Name(), nil
}

// EditText opens content in the user's editor attached to the terminal and
// returns the edited text.
func EditText(content string) (string, error) {
	path, err := WriteTempMarkdown(content)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	cmd := EditorCmd(path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(data), nil
}
