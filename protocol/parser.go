package protocol

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// RawKey holds status lines that are not label/value pairs.
	RawKey = "raw"

	// PausedNotice is printed by the server while playback is paused.
	PausedNotice = "Type 'pause' to continue."
)

var (
	volumeEcho = regexp.MustCompile(`audio volume:\s*(-?\d+)`)

	playlistLine  = regexp.MustCompile(`^\|(\s*)(\*?)\s*(\d*)\s*-\s+(.*)$`)
	playlistLabel = regexp.MustCompile(`^(.*?)(?:\s+\((\d+):(\d{2}):(\d{2})\))?(?:\s+\[played (\d+) times?\])?\s*$`)
)

// Status is the labelled block printed by the status command. Keys are kept
// as the server wrote them.
type Status struct {
	Partial
	Fields   map[string]string `json:"fields"`
	Unparsed int               `json:"unparsed,omitempty"`
}

func (s *Status) UnparsedLines() int {
	return s.Unparsed
}

// Get returns the value of a field.
func (s *Status) Get(key string) (string, bool) {
	v, ok := s.Fields[key]
	return v, ok
}

// State returns the playback state, e.g. "playing" or "stopped".
func (s *Status) State() string {
	return s.Fields["state"]
}

// Paused reports whether the player said it is paused.
func (s *Status) Paused() bool {
	return s.State() == "paused" || strings.Contains(s.Fields[RawKey], PausedNotice)
}

// Volume returns the audio volume reported in the status block.
func (s *Status) Volume() (int, bool) {
	v, ok := s.Fields["audio volume"]
	if !ok {
		return 0, false
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}

	return n, true
}

// ParseStatus folds "key: value" lines into a Status. VLC's boxed
// "( key: value )" and "( key value )" forms are accepted too. Any other line
// is appended to the RawKey field and, unless it is the PausedNotice,
// counted as unparsed.
func ParseStatus(raw RawResponse) *Status {
	status := &Status{Partial: partialOf(raw), Fields: make(map[string]string)}

	var unmatched []string
	for _, line := range raw.Lines {
		if isBlank(line) || isBoxEdge(line) {
			continue
		}

		key, value, ok := splitStatusLine(line)
		if !ok {
			unmatched = append(unmatched, strings.TrimSpace(line))
			if !strings.Contains(line, PausedNotice) {
				status.Unparsed++
			}
			continue
		}

		status.Fields[key] = value
	}

	if len(unmatched) > 0 {
		status.Fields[RawKey] = strings.Join(unmatched, "\n")
	}

	return status
}

func splitStatusLine(line string) (key, value string, ok bool) {
	body := trimBoxPrefix(line)

	wrapped := false
	if strings.HasPrefix(body, "(") && strings.HasSuffix(body, ")") {
		body = strings.TrimSpace(body[1 : len(body)-1])
		wrapped = true
	}

	if i := strings.Index(body, ":"); i > 0 {
		key = strings.TrimSpace(body[:i])
		value = strings.TrimSpace(body[i+1:])
		return key, value, key != ""
	}

	if wrapped {
		parts := strings.SplitN(body, " ", 2)
		if len(parts) == 2 {
			return parts[0], strings.TrimSpace(parts[1]), true
		}
	}

	return "", "", false
}

// PlaylistEntry is one node of the playlist tree.
type PlaylistEntry struct {
	// Index is the id the server printed for the node, 0 when none was given.
	Index int `json:"index"`

	// Depth is the nesting level, 0 for the root nodes.
	Depth int `json:"depth"`

	Label     string `json:"label"`
	IsCurrent bool   `json:"current,omitempty"`

	// Duration and PlayCount are filled when the server printed them.
	Duration  time.Duration `json:"duration,omitempty"`
	PlayCount int           `json:"playCount,omitempty"`
}

// Playlist is the tree printed by the playlist command, flattened in the
// order the server listed it.
type Playlist struct {
	Partial
	Entries  []PlaylistEntry `json:"entries"`
	Unparsed int             `json:"unparsed,omitempty"`
}

func (p *Playlist) UnparsedLines() int {
	return p.Unparsed
}

// Current returns the entry marked as currently playing.
func (p *Playlist) Current() (PlaylistEntry, bool) {
	for _, e := range p.Entries {
		if e.IsCurrent {
			return e, true
		}
	}

	return PlaylistEntry{}, false
}

// Items returns the entries below the "Playlist" root node, leaving out the
// media library. Without such a root every non root entry is returned.
func (p *Playlist) Items() []PlaylistEntry {
	items := make([]PlaylistEntry, 0, len(p.Entries))

	root := -1
	for i, e := range p.Entries {
		if e.Depth == 0 && strings.EqualFold(e.Label, "playlist") {
			root = i
			break
		}
	}

	if root < 0 {
		for _, e := range p.Entries {
			if e.Depth > 0 {
				items = append(items, e)
			}
		}
		return items
	}

	for _, e := range p.Entries[root+1:] {
		if e.Depth == 0 {
			break
		}
		items = append(items, e)
	}

	return items
}

// ParsePlaylist reads lines of the form
//
//   | 1 - Playlist
//   |   *4 - song.mp3 (00:03:21) [played 2 times]
//
// Depth is derived from the indentation after the bar, two spaces per level.
// A leading '*' marks the current entry.
func ParsePlaylist(raw RawResponse) *Playlist {
	playlist := &Playlist{Partial: partialOf(raw), Entries: make([]PlaylistEntry, 0, len(raw.Lines))}

	for _, line := range raw.Lines {
		if isBlank(line) || isBoxEdge(line) {
			continue
		}

		entry, ok := parsePlaylistLine(line)
		if !ok {
			playlist.Unparsed++
			continue
		}

		playlist.Entries = append(playlist.Entries, entry)
	}

	return playlist
}

func parsePlaylistLine(line string) (PlaylistEntry, bool) {
	m := playlistLine.FindStringSubmatch(strings.TrimRight(line, " "))
	if m == nil {
		return PlaylistEntry{}, false
	}

	entry := PlaylistEntry{
		Depth:     len(m[1]) / 2,
		IsCurrent: m[2] == "*",
		Label:     strings.TrimSpace(m[4]),
	}

	var err error

	if m[3] != "" {
		if entry.Index, err = strconv.Atoi(m[3]); err != nil {
			return PlaylistEntry{}, false
		}
	}

	if l := playlistLabel.FindStringSubmatch(entry.Label); l != nil {
		entry.Label = l[1]

		if l[2] != "" {
			if entry.Duration, err = clockDuration(l[2], l[3], l[4]); err != nil {
				return PlaylistEntry{}, false
			}
		}

		if l[5] != "" {
			if entry.PlayCount, err = strconv.Atoi(l[5]); err != nil {
				return PlaylistEntry{}, false
			}
		}
	}

	return entry, true
}

// clockDuration reads the hh, mm and ss parts of a "(hh:mm:ss)" duration.
func clockDuration(hh, mm, ss string) (time.Duration, error) {
	var d time.Duration

	for _, part := range []struct {
		value string
		unit  time.Duration
	}{{hh, time.Hour}, {mm, time.Minute}, {ss, time.Second}} {
		n, err := strconv.Atoi(part.value)
		if err != nil {
			return 0, err
		}
		d += time.Duration(n) * part.unit
	}

	return d, nil
}

// AudioDevice is one row of the audio device table.
type AudioDevice struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Current bool   `json:"current,omitempty"`
}

// Devices is the table printed by the adev command, in server order.
type Devices struct {
	Partial
	Devices  []AudioDevice `json:"devices"`
	Unparsed int           `json:"unparsed,omitempty"`
}

func (d *Devices) UnparsedLines() int {
	return d.Unparsed
}

// Current returns the active device, if the server marked one.
func (d *Devices) Current() (AudioDevice, bool) {
	for _, dev := range d.Devices {
		if dev.Current {
			return dev, true
		}
	}

	return AudioDevice{}, false
}

// DeviceDelimiter separates the device id from its label.
const DeviceDelimiter = " - "

// ParseDevices splits "| <id> - <label>" rows. A trailing '*' on the label
// marks the active device. Rows with an empty id are skipped, rows without
// the delimiter are counted as unparsed.
func ParseDevices(raw RawResponse) *Devices {
	devices := &Devices{Partial: partialOf(raw), Devices: make([]AudioDevice, 0, len(raw.Lines))}

	for _, line := range raw.Lines {
		if isBlank(line) || isBoxEdge(line) {
			continue
		}

		body := strings.TrimPrefix(strings.TrimPrefix(line, "|"), " ")
		parts := strings.SplitN(body, DeviceDelimiter, 2)
		if len(parts) != 2 {
			devices.Unparsed++
			continue
		}

		dev := AudioDevice{
			ID:    strings.TrimSpace(parts[0]),
			Label: strings.TrimSpace(parts[1]),
		}

		if strings.HasSuffix(dev.Label, "*") {
			dev.Current = true
			dev.Label = strings.TrimSpace(strings.TrimSuffix(dev.Label, "*"))
		}

		if dev.ID == "" {
			continue
		}

		devices.Devices = append(devices.Devices, dev)
	}

	return devices
}

// Volume is the echo of the volume command.
type Volume struct {
	Partial

	// Level is -1 when the server did not echo a volume.
	Level    int `json:"level"`
	Unparsed int `json:"unparsed,omitempty"`
}

func (v *Volume) UnparsedLines() int {
	return v.Unparsed
}

// ParseVolume finds "audio volume: N" or a bare integer line.
func ParseVolume(raw RawResponse) *Volume {
	volume := &Volume{Partial: partialOf(raw), Level: -1}

	other := 0
	for _, line := range raw.Lines {
		if isBlank(line) || isBoxEdge(line) {
			continue
		}

		if m := volumeEcho.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				volume.Level = n
				continue
			}
		}

		if n, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			volume.Level = n
			continue
		}

		other++
	}

	if volume.Level < 0 {
		volume.Unparsed = other
	}

	return volume
}

// Toggle is the reply to repeat, loop and random.
type Toggle struct {
	Partial
	On bool `json:"on"`

	// Echoed is false when the server printed nothing about the state.
	Echoed bool     `json:"echoed"`
	Lines  []string `json:"lines,omitempty"`
}

func (t *Toggle) UnparsedLines() int {
	return 0
}

// ParseToggle looks for a true/false or on/off state in the echo.
func ParseToggle(raw RawResponse) *Toggle {
	toggle := &Toggle{Partial: partialOf(raw)}

	for _, line := range raw.Lines {
		if isBlank(line) || isBoxEdge(line) {
			continue
		}
		toggle.Lines = append(toggle.Lines, line)

		lower := strings.ToLower(line)
		fields := strings.Fields(strings.Trim(lower, "()| "))
		last := ""
		if len(fields) > 0 {
			last = fields[len(fields)-1]
		}

		switch {
		case strings.Contains(lower, "true") || last == "on":
			toggle.On, toggle.Echoed = true, true
		case strings.Contains(lower, "false") || last == "off":
			toggle.On, toggle.Echoed = false, true
		}
	}

	return toggle
}

// Scalar is a single value reply such as get_time or is_playing.
type Scalar struct {
	Partial
	Value    string `json:"value"`
	Unparsed int    `json:"unparsed,omitempty"`
}

func (s *Scalar) UnparsedLines() int {
	return s.Unparsed
}

// Int returns the value as an integer.
func (s *Scalar) Int() (int, error) {
	return strconv.Atoi(s.Value)
}

// Bool interprets "1" and "true" as true.
func (s *Scalar) Bool() bool {
	return s.Value == "1" || strings.EqualFold(s.Value, "true")
}

// ParseScalar takes the first non blank line as the value. Further lines
// are counted as unparsed.
func ParseScalar(raw RawResponse) *Scalar {
	scalar := &Scalar{Partial: partialOf(raw)}

	seen := false
	for _, line := range raw.Lines {
		if isBlank(line) || isBoxEdge(line) {
			continue
		}

		if seen {
			scalar.Unparsed++
			continue
		}

		scalar.Value = strings.TrimSpace(line)
		seen = true
	}

	return scalar
}

// RemoveTrailingCR strips the optional '\r' of a "\r\n" line ending.
func RemoveTrailingCR(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\r' {
		return data[:len(data)-1]
	}

	return data
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isBoxEdge matches the "+----[ title ]" lines VLC draws around listings.
func isBoxEdge(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "+-")
}

func trimBoxPrefix(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "|"))
}
