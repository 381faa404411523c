package assets

import (
	"bufio"
	"embed"
	"io"
	"strings"
)

//go:embed boards.txt
var FS embed.FS

// ReadBlocks splits r into blocks of non-empty lines. Blank lines end a
// block; lines starting with '#' are ignored.
func ReadBlocks(r io.Reader) ([][]string, error) {
	var (
		out [][]string
		cur []string
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(s, "#") {
			continue
		}
		if s == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, s)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out, sc.Err()
}

// DefaultBoards returns the embedded fixed boards, one block per board.
func DefaultBoards() ([][]string, error) {
	f, err := FS.Open("boards.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBlocks(f)
}
