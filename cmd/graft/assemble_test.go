package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/taigrr/graft/pkg/costume"
	"github.com/taigrr/graft/pkg/models"
)

func TestLogParts(t *testing.T) {
	staging := costume.NewStagingRoot("panda-staging")
	torso := models.NewPart("torso")
	torso.Root.SetParent(staging)
	hair := models.NewPart("mane")
	c := costume.NewBodyPartsContainer("Panda", []*models.Part{torso}, nil, nil, []*models.Part{hair})

	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	logParts(l, c)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %q", lines)
	}
	tests := []struct {
		line         string
		node, staged string
	}{
		{lines[0], "panda-staging/torso", "staged=true"},
		{lines[1], "mane", "staged=false"},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.line, tt.node) || !strings.Contains(tt.line, tt.staged) {
			t.Errorf("line %q should mention %q and %q", tt.line, tt.node, tt.staged)
		}
	}

	buf.Reset()
	l.SetLevel(log.InfoLevel)
	logParts(l, c)
	if buf.Len() != 0 {
		t.Errorf("parts logged above debug level: %q", buf.String())
	}
}
