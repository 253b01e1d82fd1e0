package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// A suppression file lists one scenario ID per line, as written by -record-failures and read
// by -skip-from. Blank lines and lines starting with "#" are ignored.

func readSuppressions(path string) ([]string, error) {
	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("cannot open suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read suppression file %s: %w", path, err)
	}
	return names, nil
}

func writeSuppressions(path string, names []string) error {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil { //nolint:gosec
		return fmt.Errorf("cannot write suppression file: %w", err)
	}
	return nil
}
