package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fleetops/ringrail/core/model"
)

var plan = []model.PlannedMove{
	{Step: 1, Vehicle: "c", FromStation: 3, ToStation: 4, Reason: model.ReasonMakingSpace},
	{Step: 2, Vehicle: "a", FromStation: 1, ToStation: 2, Reason: model.ReasonMovingToTarget},
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, plan); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out []model.PlannedMove
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[1].Vehicle != "a" {
		t.Fatalf("unexpected plan %+v", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, plan); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[1] != "1,c,3,4,making_space" {
		t.Fatalf("unexpected row %q", lines[1])
	}
}
