// Package replay feeds recorded transcripts back through the engine.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Line is one JSONL record: a single utterance in a session.
type Line struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// Session is the ordered utterances of one session.
type Session struct {
	ID    string
	Texts []string
}

// Transcript holds sessions in order of first appearance.
type Transcript struct {
	Sessions []Session
	Skipped  int
}

// Turns returns the total number of utterances.
func (t *Transcript) Turns() int {
	n := 0
	for _, s := range t.Sessions {
		n += len(s.Texts)
	}
	return n
}

// ParseTranscript reads JSONL lines. Blank lines are ignored; malformed lines
// and lines without a session id are counted in Skipped.
func ParseTranscript(r io.Reader) (*Transcript, error) {
	t := &Transcript{}
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var line Line
		if err := json.Unmarshal([]byte(raw), &line); err != nil || line.SessionID == "" {
			t.Skipped++
			continue
		}
		i, ok := index[line.SessionID]
		if !ok {
			i = len(t.Sessions)
			index[line.SessionID] = i
			t.Sessions = append(t.Sessions, Session{ID: line.SessionID})
		}
		t.Sessions[i].Texts = append(t.Sessions[i].Texts, line.Text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return t, nil
}

// ParseFile parses the transcript at path.
func ParseFile(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return ParseTranscript(f)
}
