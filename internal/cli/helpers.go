// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// isJSON reports whether a config path uses the JSON format.
func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// readLine reads one line from r without the line ending. A final line
// without a newline is returned as is.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// currentUser returns the login name from the environment.
func currentUser() string {
	for _, key := range []string{"DAVOM_USER", "USER", "USERNAME"} {
		if u := os.Getenv(key); u != "" {
			return u
		}
	}
	return "davom"
}
