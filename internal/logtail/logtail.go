package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
)

// Entry is one parsed log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Source  string
	Outcome string
	// Attrs holds the remaining fields as sorted key=value pairs.
	Attrs []string
}

// Format renders e on a single line for the debug overlay.
func (e Entry) Format() string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if e.Level != "" {
		fmt.Fprintf(&b, "%-5s ", e.Level)
	}
	b.WriteString(e.Message)
	if e.Source != "" {
		b.WriteString(" source=" + e.Source)
	}
	if e.Outcome != "" {
		b.WriteString(" outcome=" + e.Outcome)
	}
	for _, attr := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(attr)
	}
	return b.String()
}

// Read returns at most maxLines entries from the end of the file at path.
// A missing file yields no entries.
func Read(path string, maxLines int) ([]Entry, error) {
	lines, err := readLines(path, maxLines)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

// Parse decodes a slog JSON line. Lines that are not JSON objects come back
// with the raw text as the message.
func Parse(line string) Entry {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{Message: line}
	}

	var e Entry
	if ts, ok := raw["time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Time = parsed
		}
	}
	e.Level, _ = raw["level"].(string)
	e.Message, _ = raw["msg"].(string)
	e.Source, _ = raw["source"].(string)
	e.Outcome, _ = raw["outcome"].(string)

	for key, value := range raw {
		switch key {
		case "time", "level", "msg", "source", "outcome":
			continue
		}
		e.Attrs = append(e.Attrs, fmt.Sprintf("%s=%v", key, value))
	}
	slices.Sort(e.Attrs)
	return e
}

func readLines(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
