package cmd

import (
	"strings"
	"testing"
)

var schemaTables = []string{"documents", "blocks", "captions", "annotation_snapshots"}

func TestMigrateCommand_Help(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "migrate", args: []string{"migrate", "--help"}, want: "Manage the database schema for the PaperReel API."},
		{name: "up", args: []string{"migrate", "up", "--help"}, want: "Create or update the documents, blocks, captions and annotation"},
		{name: "down", args: []string{"migrate", "down", "--help"}, want: "--yes"},
		{name: "status", args: []string{"migrate", "status", "--help"}, want: "each table and whether it exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runRoot(t, tt.args...)
			if err != nil {
				t.Fatalf("help failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected output to contain %q, got %q", tt.want, out)
			}
		})
	}
}

func TestMigrateStatus(t *testing.T) {
	useTempStorage(t)

	out, err := runRoot(t, "migrate", "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "Database Migration Status") {
		t.Errorf("missing header in %q", out)
	}
	for _, table := range schemaTables {
		if !tableHasState(out, table, "pending") {
			t.Errorf("expected %s to be pending, got %q", table, out)
		}
	}
	if !strings.Contains(out, "4 of 4 tables pending") {
		t.Errorf("expected all tables pending, got %q", out)
	}

	out, err = runRoot(t, "migrate", "up")
	if err != nil || !strings.Contains(out, "Migrations applied") {
		t.Fatalf("up failed: %q (%v)", out, err)
	}

	out, err = runRoot(t, "migrate", "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, table := range schemaTables {
		if !tableHasState(out, table, "applied") {
			t.Errorf("expected %s to be applied, got %q", table, out)
		}
	}
	if !strings.Contains(out, "0 of 4 tables pending") {
		t.Errorf("expected no pending tables, got %q", out)
	}
}

func TestMigrateDown_Confirmation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		stdin       string
		want        string
		wantPrompt  bool
		wantDropped bool
	}{
		{name: "no answer cancels", args: []string{"migrate", "down"}, stdin: "", want: "Rollback cancelled", wantPrompt: true},
		{name: "explicit no cancels", args: []string{"migrate", "down"}, stdin: "n\n", want: "Rollback cancelled", wantPrompt: true},
		{name: "yes at the prompt drops", args: []string{"migrate", "down"}, stdin: "y\n", want: "All tables dropped", wantPrompt: true, wantDropped: true},
		{name: "--yes skips the prompt", args: []string{"migrate", "down", "--yes"}, want: "All tables dropped", wantDropped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useTempStorage(t)
			if _, err := runRoot(t, "migrate", "up"); err != nil {
				t.Fatalf("up failed: %v", err)
			}

			out, err := runRootWithInput(t, strings.NewReader(tt.stdin), tt.args...)
			if err != nil {
				t.Fatalf("down failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected output to contain %q, got %q", tt.want, out)
			}
			if prompted := strings.Contains(out, "Continue? (y/N)"); prompted != tt.wantPrompt {
				t.Errorf("prompted = %v, want %v, output %q", prompted, tt.wantPrompt, out)
			}

			status, err := runRoot(t, "migrate", "status")
			if err != nil {
				t.Fatalf("status failed: %v", err)
			}
			want := "0 of 4 tables pending"
			if tt.wantDropped {
				want = "4 of 4 tables pending"
			}
			if !strings.Contains(status, want) {
				t.Errorf("expected %q after down, got %q", want, status)
			}
		})
	}
}

// tableHasState reports whether the status listing shows table in state.
func tableHasState(out, table, state string) bool {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == table && fields[1] == state {
			return true
		}
	}
	return false
}
