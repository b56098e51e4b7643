package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestPrinters(t *testing.T) {
	buf := captureOutput(t)

	printSuccess("Walkthrough of %s", "chat.json")
	printFile("out/plan.svg")
	printKeyValue("sibling", "3")
	printNextStep("Walk it interactively", "treescape tour chat.json")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if assert.Len(t, lines, 4) {
		assert.Contains(t, lines[0], "Walkthrough of chat.json")
		assert.Contains(t, lines[1], "out/plan.svg")
		assert.Contains(t, lines[2], "sibling")
		assert.Contains(t, lines[3], "treescape tour chat.json")
	}
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name   string
		cached bool
		stats  []string
		want   []string
	}{
		{"fresh", false, []string{"4 rooms", "12 walls"}, []string{"4 rooms", "12 walls", "fresh"}},
		{"cached", true, []string{"5 nodes"}, []string{"5 nodes", "cached"}},
		{"no stats", true, nil, []string{"cached"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t)
			printStats(tt.cached, tt.stats...)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}
