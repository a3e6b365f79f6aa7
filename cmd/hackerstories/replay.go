package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abelbrown/hackerstories/internal/stories"
)

// maxReplayLine bounds a single JSON line; FETCH_COMPLETE payloads carry
// whole pages.
const maxReplayLine = 4 << 20

// replayLine is one recorded action.
type replayLine struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newReplayCmd() *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "Fold a JSON-lines action log through the reducer and print the state as YAML",
		Long: `Reads one {"type": ..., "payload": ...} object per line, applies each
action to a fresh state in order and prints the final state as YAML.
Reads stdin when file is omitted or "-". Blank lines and lines starting
with # are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			_, err := replay(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), keepGoing)
			return err
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "report rejected actions and continue instead of stopping")
	return cmd
}

// replay folds the actions read from r and writes the final state to w. With
// keepGoing, a rejected action is reported to errW and skipped. It returns
// the number of actions applied.
func replay(r io.Reader, w, errW io.Writer, keepGoing bool) (int, error) {
	s := stories.NewState()
	applied := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxReplayLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		next, err := applyLine(s, text)
		if err != nil {
			err = fmt.Errorf("line %d: %w", lineNo, err)
			if !keepGoing {
				return applied, err
			}
			fmt.Fprintln(errW, err)
			continue
		}
		s = next
		applied++
	}
	if err := sc.Err(); err != nil {
		return applied, fmt.Errorf("read actions: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return applied, fmt.Errorf("encode state: %w", err)
	}
	return applied, enc.Close()
}

func applyLine(s stories.State, text []byte) (stories.State, error) {
	var line replayLine
	if err := json.Unmarshal(text, &line); err != nil {
		return s, fmt.Errorf("decode: %w", err)
	}
	a, err := stories.ParseAction(line.Type, line.Payload)
	if err != nil {
		return s, err
	}
	return stories.Reduce(s, a)
}
