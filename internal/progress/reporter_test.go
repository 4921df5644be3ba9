package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf, Desc: "Checking games"}
	r.Start(2)
	r.Update(1, "https://a.example")
	r.Update(2, "https://b.example")
	r.Finish()

	out := buf.String()
	for _, want := range []string{"Checking games: 2 targets", "[1/2] https://a.example", "[2/2] https://b.example", "Checking games: done"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter("x").(*CIReporter); !ok {
		t.Error("expected a CI reporter when CI is set")
	}
}
