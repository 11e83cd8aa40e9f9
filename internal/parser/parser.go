package parser

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseIPList splits the free-text IP field of the HTML form.
// Commas are treated as line breaks; every entry is trimmed and
// empty entries are dropped. Order and duplicates are preserved.
func ParseIPList(raw string) []string {
	return NormalizeList(strings.Split(strings.ReplaceAll(raw, ",", "\n"), "\n"))
}

// NormalizeList trims every entry and drops the empty ones.
// The result is never nil.
func NormalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// LoadFromFile reads IP addresses from a file, one or more per line
// (comma separated entries are allowed).
//
// Empty lines and lines starting with '#' are ignored.
func LoadFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	out := []string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, ParseIPList(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan input file: %w", err)
	}
	return out, nil
}
