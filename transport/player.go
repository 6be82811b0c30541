package transport

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/luma/vlcrc/protocol"
	"github.com/luma/vlcrc/storage"
)

const (
	// MaxVolume is the largest volume the stub player accepts.
	MaxVolume = 320

	// DefaultItemLength is the length, in seconds, given to added items.
	DefaultItemLength = 180

	// playlistIDOffset skips the ids of the two root nodes, Playlist (1)
	// and Media Library (2).
	playlistIDOffset = 3
)

var helpText = []string{
	"+----[ Remote control commands ]",
	"| add XYZ  . . . . . . . . . . . . add XYZ to playlist",
	"| enqueue XYZ  . . . . . . . . . queue XYZ to playlist",
	"| playlist . . . . .  show items currently in playlist",
	"| play . . . . . . . . . . . . . . . . . . play stream",
	"| stop . . . . . . . . . . . . . . . . . . stop stream",
	"| next . . . . . . . . . . . . . .  next playlist item",
	"| prev . . . . . . . . . . . .  previous playlist item",
	"| goto . . . . . . . . . . . . . .  goto item at index",
	"| repeat [on|off] . . . .  toggle playlist item repeat",
	"| loop [on|off] . . . . . . . . . toggle playlist loop",
	"| random [on|off] . . . . . . .  toggle random jumping",
	"| clear . . . . . . . . . . . . . . clear the playlist",
	"| status . . . . . . . . . . . current playlist status",
	"| seek X . . . seek in seconds, for instance `seek 12'",
	"| pause . . . . . . . . . . . . . . . .  toggle pause",
	"| get_time . . seconds elapsed since stream's beginning",
	"| is_playing . . . .  1 if a stream plays, 0 otherwise",
	"| get_title . . . . . the title of the current stream",
	"| get_length . . . .  the length of the current stream",
	"| volume [X] . . . . . . . . . .  set/get audio volume",
	"| adev [device]  . . . . . . . .  set/get audio device",
	"| logout . . . . . . .  exit (if in a socket connection)",
	"| quit . . . . . . . . . . . . . . . . . . .  quit vlc",
	"+----[ end of help ]",
}

// Player answers rc commands the way VLC does, keeping its state in a
// storage.Store.
type Player struct {
	store storage.Store
}

// NewPlayerHandler returns a Handler emulating VLC over store.
func NewPlayerHandler(store storage.Store) *Player {
	return &Player{store: store}
}

// ServeRC answers cmd. While paused every reply but the one to pause itself
// ends with protocol.PausedNotice.
func (p *Player) ServeRC(ctx context.Context, w *ResponseWriter, cmd protocol.Command) {
	p.serve(ctx, w, cmd)

	switch cmd.Name {
	case "pause", "quit", "logout", "exit":
		return
	}

	if p.get(ctx, "state").String() == "paused" {
		w.WriteLine(protocol.PausedNotice)
	}
}

func (p *Player) serve(ctx context.Context, w *ResponseWriter, cmd protocol.Command) {
	arg := strings.Join(cmd.Args, " ")

	switch cmd.Name {
	case "add":
		p.add(ctx, arg, true)
	case "enqueue":
		p.add(ctx, arg, false)
	case "playlist":
		w.WriteLines(p.playlist(ctx)...)
	case "play":
		p.play(ctx)
	case "stop":
		p.set(ctx, "state", "stopped")
		p.set(ctx, "time", 0)
	case "pause":
		switch p.get(ctx, "state").String() {
		case "playing":
			p.set(ctx, "state", "paused")
		case "paused":
			p.set(ctx, "state", "playing")
		}
	case "next":
		p.jump(ctx, p.get(ctx, "current").Int()+1)
	case "prev":
		p.jump(ctx, p.get(ctx, "current").Int()-1)
	case "goto":
		if n, err := strconv.Atoi(arg); err == nil {
			p.jump(ctx, int64(n-1))
		}
	case "clear":
		p.set(ctx, "playlist", []interface{}{})
		p.set(ctx, "current", -1)
		p.set(ctx, "state", "stopped")
	case "repeat", "loop", "random":
		w.WriteLine(p.toggle(ctx, cmd.Name, arg))
	case "status":
		w.WriteLines(p.status(ctx)...)
	case "volume":
		p.volume(ctx, arg)
		w.WriteLine(fmt.Sprintf("( audio volume: %d )", p.get(ctx, "volume").Int()))
	case "adev":
		if arg == "" {
			w.WriteLines(p.devices(ctx)...)
			return
		}
		p.setDevice(ctx, arg)
	case "seek":
		p.seek(ctx, arg)
	case "get_time":
		w.WriteLine(strconv.FormatInt(p.get(ctx, "time").Int(), 10))
	case "get_length":
		w.WriteLine(strconv.FormatInt(p.currentItem(ctx).Get("length").Int(), 10))
	case "get_title":
		w.WriteLine(p.currentItem(ctx).Get("title").String())
	case "is_playing":
		if p.get(ctx, "state").String() == "playing" {
			w.WriteLine("1")
		} else {
			w.WriteLine("0")
		}
	case "help", "longhelp", "h", "?":
		w.WriteLines(helpText...)
	case "quit":
		w.WriteLine("Shutting down.")
		w.Hangup()
	case "logout", "exit":
		w.Hangup()
	default:
		w.WriteLine(fmt.Sprintf("Unknown command `%s'. Type `help' for help.", cmd.Name))
	}
}

func (p *Player) get(ctx context.Context, key string) gjson.Result {
	value, _ := p.store.Get(ctx, key)
	return value
}

func (p *Player) set(ctx context.Context, key string, value interface{}) {
	// The in-memory store only fails on malformed paths, which are all
	// constants here.
	_ = p.store.Set(ctx, key, value)
}

func (p *Player) currentItem(ctx context.Context) gjson.Result {
	current := p.get(ctx, "current").Int()
	if current < 0 {
		return gjson.Result{}
	}

	return p.get(ctx, fmt.Sprintf("playlist.%d", current))
}

func (p *Player) add(ctx context.Context, mrl string, play bool) {
	if mrl == "" {
		return
	}

	p.set(ctx, "playlist.-1", map[string]interface{}{
		"mrl":    mrl,
		"title":  titleOf(mrl),
		"length": DefaultItemLength,
		"played": 0,
	})

	if play {
		p.jump(ctx, p.get(ctx, "playlist.#").Int()-1)
	}
}

func (p *Player) play(ctx context.Context) {
	if p.get(ctx, "playlist.#").Int() == 0 {
		return
	}

	if p.get(ctx, "current").Int() < 0 {
		p.jump(ctx, 0)
		return
	}

	p.set(ctx, "state", "playing")
}

// jump makes index the current item and starts playing it. Out of range
// indexes are ignored.
func (p *Player) jump(ctx context.Context, index int64) {
	if index < 0 || index >= p.get(ctx, "playlist.#").Int() {
		return
	}

	key := fmt.Sprintf("playlist.%d.played", index)

	p.set(ctx, "current", index)
	p.set(ctx, key, p.get(ctx, key).Int()+1)
	p.set(ctx, "time", 0)
	p.set(ctx, "state", "playing")
}

func (p *Player) toggle(ctx context.Context, name, arg string) string {
	value := !p.get(ctx, name).Bool()

	switch arg {
	case "on":
		value = true
	case "off":
		value = false
	}

	p.set(ctx, name, value)

	return fmt.Sprintf("Setting %s to %t", name, value)
}

func (p *Player) volume(ctx context.Context, arg string) {
	if arg == "" {
		return
	}

	level, err := strconv.Atoi(arg)
	if err != nil || level < 0 || level > MaxVolume {
		return
	}

	p.set(ctx, "volume", level)
}

func (p *Player) seek(ctx context.Context, arg string) {
	item := p.currentItem(ctx)
	if !item.Exists() {
		return
	}

	seconds, err := strconv.Atoi(arg)
	if err != nil {
		return
	}

	length := int(item.Get("length").Int())
	if seconds < 0 {
		seconds = 0
	}
	if seconds > length {
		seconds = length
	}

	p.set(ctx, "time", seconds)
}

func (p *Player) setDevice(ctx context.Context, id string) {
	for _, dev := range p.get(ctx, "devices").Array() {
		if dev.Get("id").String() == id {
			p.set(ctx, "adev", id)
			return
		}
	}
}

func (p *Player) status(ctx context.Context) []string {
	lines := make([]string, 0, 3)

	if item := p.currentItem(ctx); item.Exists() {
		lines = append(lines, fmt.Sprintf("( new input: %s )", item.Get("mrl").String()))
	}

	lines = append(lines,
		fmt.Sprintf("( audio volume: %d )", p.get(ctx, "volume").Int()),
		fmt.Sprintf("( state %s )", p.get(ctx, "state").String()),
	)

	return lines
}

func (p *Player) playlist(ctx context.Context) []string {
	items := p.get(ctx, "playlist").Array()
	current := p.get(ctx, "current").Int()

	lines := make([]string, 0, len(items)+4)
	lines = append(lines, "+----[ Playlist - playlist ]", "| 1 - Playlist")

	for i, item := range items {
		marker := ""
		if int64(i) == current {
			marker = "*"
		}

		line := fmt.Sprintf("|   %s%d - %s (%s)",
			marker, i+playlistIDOffset, item.Get("title").String(), formatLength(item.Get("length").Int()))

		if played := item.Get("played").Int(); played == 1 {
			line += " [played 1 time]"
		} else if played > 1 {
			line += fmt.Sprintf(" [played %d times]", played)
		}

		lines = append(lines, line)
	}

	return append(lines, "| 2 - Media Library", "+----[ End of playlist ]")
}

func (p *Player) devices(ctx context.Context) []string {
	active := p.get(ctx, "adev").String()

	lines := []string{"+----[ audio-device ]"}
	for _, dev := range p.get(ctx, "devices").Array() {
		line := fmt.Sprintf("| %s - %s", dev.Get("id").String(), dev.Get("label").String())
		if dev.Get("id").String() == active {
			line += " *"
		}
		lines = append(lines, line)
	}

	return append(lines, "+----[ end of audio-device ]")
}

func titleOf(mrl string) string {
	return path.Base(strings.TrimPrefix(mrl, "file://"))
}

func formatLength(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

var _ Handler = (*Player)(nil)
