package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/luma/vlcrc/protocol"
)

// truncatedNotice ends the text output of a response the player cut short.
const truncatedNotice = "(response truncated)"

// render prints a result for people, or as indented JSON.
func render(out io.Writer, result protocol.Result, asJSON bool) error {
	if asJSON {
		return printJSON(out, result)
	}

	var lines []string

	switch r := result.(type) {
	case *protocol.Status:
		lines = statusLines(r)
	case *protocol.Playlist:
		lines = playlistLines(r)
	case *protocol.Devices:
		for _, dev := range r.Devices {
			line := fmt.Sprintf("%s - %s", dev.ID, dev.Label)
			if dev.Current {
				line += " *"
			}
			lines = append(lines, line)
		}
	case *protocol.Volume:
		if r.Level >= 0 {
			lines = []string{fmt.Sprint(r.Level)}
		}
	case *protocol.Toggle:
		if r.Echoed {
			lines = []string{onOff(r.On)}
		} else {
			lines = r.Lines
		}
	case *protocol.Scalar:
		lines = []string{r.Value}
	case *protocol.Ack:
		lines = r.Lines
	case *protocol.Text:
		lines = r.Lines
	case protocol.RawResponse:
		lines = r.Lines
	}

	if result != nil && result.IsTruncated() {
		lines = append(lines, truncatedNotice)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	return nil
}

func statusLines(status *protocol.Status) []string {
	keys := make([]string, 0, len(status.Fields))
	for key := range status.Fields {
		if key != protocol.RawKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, status.Fields[key]))
	}

	if raw, ok := status.Fields[protocol.RawKey]; ok {
		lines = append(lines, strings.Split(raw, "\n")...)
	}

	return lines
}

func playlistLines(playlist *protocol.Playlist) []string {
	lines := make([]string, 0, len(playlist.Entries))

	for _, entry := range playlist.Entries {
		marker := " "
		if entry.IsCurrent {
			marker = "*"
		}

		line := fmt.Sprintf("%s%s", strings.Repeat("  ", entry.Depth), marker)
		if entry.Index > 0 {
			line += fmt.Sprintf("%d - ", entry.Index)
		}
		line += entry.Label

		if entry.Duration > 0 {
			line += fmt.Sprintf(" (%s)", entry.Duration.Round(time.Second))
		}

		lines = append(lines, line)
	}

	return lines
}

func onOff(on bool) string {
	if on {
		return "on"
	}

	return "off"
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
