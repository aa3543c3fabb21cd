package desktop

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRevealer_Command(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		goos    string
		wantBin string
		wantErr bool
	}{
		{goos: "darwin", wantBin: "open"},
		{goos: "linux", wantBin: "xdg-open"},
		{goos: "windows", wantBin: "explorer"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			r := &Revealer{goos: tt.goos}
			cmd, err := r.Command(dir)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unsupported platform")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Args[0] != tt.wantBin {
				t.Errorf("got %q, want %q", cmd.Args[0], tt.wantBin)
			}
			if cmd.Args[len(cmd.Args)-1] != dir {
				t.Errorf("expected folder %s as last argument, got %v", dir, cmd.Args)
			}
		})
	}
}

func TestRevealer_FileRevealsParent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "car.mesh")
	if err := os.WriteFile(file, []byte("mesh"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd, err := (&Revealer{goos: "linux"}).Command(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cmd.Args[len(cmd.Args)-1]; got != dir {
		t.Errorf("got %s, want %s", got, dir)
	}
}

func TestRevealer_MissingFolder(t *testing.T) {
	if _, err := NewRevealer().Command(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing folder")
	}
}
