package boards

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/robalobadob/battleships/apps/go-server/internal/fleet"
)

const validBoard = `090000000002
999000000002
090000000000
000000000000
666666000000
000000000000
555550000000
000000000000
444400000000
000000000000
333000000000
000000000000`

func TestLoadEmbedded(t *testing.T) {
	f, err := Load("", 12, 12)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Len() < 2 {
		t.Fatalf("expected several embedded boards, got %d", f.Len())
	}
	for i := 0; i < f.Len(); i++ {
		l, err := f.Layout(12, 12)
		if err != nil {
			t.Fatalf("Layout: %v", err)
		}
		if err := fleet.Validate(l, 12, 12); err != nil {
			t.Fatalf("board %d: %v", i, err)
		}
	}
}

func TestLayoutRotatesAndCopies(t *testing.T) {
	f, err := Load("", 12, 12)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first, _ := f.Layout(12, 12)
	first[0] = 42
	for i := 1; i < f.Len(); i++ {
		f.Layout(12, 12)
	}
	again, _ := f.Layout(12, 12)
	if again[0] == 42 {
		t.Fatalf("Layout must return a copy")
	}

	a, _ := f.Layout(12, 12)
	b, _ := f.Layout(12, 12)
	if reflect.DeepEqual(a, b) {
		t.Fatalf("consecutive layouts should rotate")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.txt")
	body := "# one board\n\n" + validBoard + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path, 12, 12)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Len() != 1 {
		t.Fatalf("got %d boards", f.Len())
	}
	l, _ := f.Layout(12, 12)
	if l[1] != 9 || l[11] != 2 || l[0] != 0 {
		t.Fatalf("unexpected layout head %v", l[:12])
	}
}

func TestLoadRejectsInvalidBoards(t *testing.T) {
	// carrier moved up against the capital ship
	touching := strings.Replace(validBoard, "090000000000\n000000000000\n666666", "090000000000\n666666000000\n000000", 1)

	cases := map[string]string{
		"short row":    strings.Replace(validBoard, "090000000002", "09000000002", 1),
		"bad char":     strings.Replace(validBoard, "090000000002", "0x0000000002", 1),
		"missing ship": strings.ReplaceAll(validBoard, "2", "0"),
		"touching":     touching,
		"empty":        "# nothing here\n",
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "boards.txt")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path, 12, 12)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if name == "empty" && !errors.Is(err, ErrNoBoards) {
			t.Fatalf("empty: want ErrNoBoards, got %v", err)
		}
		if name != "empty" && !errors.Is(err, fleet.ErrInvalidLayout) {
			t.Fatalf("%s: want ErrInvalidLayout, got %v", name, err)
		}
	}
}

func TestLayoutWrongSize(t *testing.T) {
	f, err := Load("", 12, 12)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := f.Layout(10, 10); err == nil {
		t.Fatalf("expected size mismatch error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt"), 12, 12); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", err)
	}
}
