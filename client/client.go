package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/luma/vlcrc/protocol"
)

// ToggleMode picks what repeat, loop and random do.
type ToggleMode int

const (
	// Flip inverts the current state.
	Flip ToggleMode = iota
	On
	Off
)

// Client has one typed method per rc command. All methods share a single Conn
// and run one at a time.
type Client struct {
	conn   *Conn
	redial bool
	log    *zap.Logger
}

// New returns a Client for options without connecting. See Open.
func New(options Options) *Client {
	options = options.withDefaults()

	return &Client{
		conn:   NewConn(options),
		redial: options.Redial,
		log:    options.Log.Named("client"),
	}
}

// Dial returns a connected Client.
func Dial(ctx context.Context, options Options) (*Client, error) {
	c := New(options)

	if err := c.Open(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) Open(ctx context.Context) error {
	return c.conn.Open(ctx)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Conn returns the underlying connection.
func (c *Client) Conn() *Conn {
	return c.conn
}

// Exec runs a command line such as "volume 200". Known commands are validated
// and parsed, anything else is sent as is and returns a protocol.RawResponse.
func (c *Client) Exec(ctx context.Context, line string) (protocol.Result, error) {
	return c.Do(ctx, protocol.ParseCommandLine(line))
}

// Do validates cmd, sends it and parses the response according to the
// command. Parse problems are logged and available through
// protocol.WarningFor, they never fail the call. A truncated response is
// parsed as far as it goes and the result reports IsTruncated.
//
// While the player is paused it appends protocol.PausedNotice to its
// replies. Do fails those with ErrPaused, except for pause and status.
func (c *Client) Do(ctx context.Context, cmd protocol.Command) (protocol.Result, error) {
	wire, shape, err := protocol.Prepare(cmd)
	if err != nil {
		return nil, err
	}

	if c.redial && !c.conn.IsOpen() {
		c.log.Info("Reconnecting")

		if err := c.conn.Open(ctx); err != nil {
			return nil, err
		}
	}

	raw, err := c.conn.SendCommand(ctx, wire)
	if err != nil {
		return nil, err
	}

	if !pauseExempt[wire.Name] && carriesPausedNotice(raw) {
		return nil, fmt.Errorf("%s: %w", cmd.Name, ErrPaused)
	}

	result := protocol.Parse(shape, raw)

	if warning := protocol.WarningFor(cmd.Name, result); warning != nil {
		c.log.Warn("Unexpected response lines", zap.Error(warning))
	}

	if raw.Truncated {
		c.log.Warn("Truncated response", zap.String("command", cmd.Name))
	}

	return result, nil
}

var pauseExempt = map[string]bool{
	"pause":  true,
	"status": true,
}

func carriesPausedNotice(raw protocol.RawResponse) bool {
	for _, line := range raw.Lines {
		if strings.Contains(line, protocol.PausedNotice) {
			return true
		}
	}

	return false
}

func (c *Client) do(ctx context.Context, name string, args ...string) (protocol.Result, error) {
	return c.Do(ctx, protocol.NewCommand(name, args...))
}

func (c *Client) ack(ctx context.Context, name string, args ...string) error {
	_, err := c.do(ctx, name, args...)
	return err
}

// Add appends mrl to the playlist and plays it.
func (c *Client) Add(ctx context.Context, mrl string) error {
	return c.ack(ctx, "add", mrl)
}

// AddFile adds a local file by its absolute file:// URI. The file has to
// exist.
func (c *Client) AddFile(ctx context.Context, path string) error {
	mrl, err := FileMRL(path)
	if err != nil {
		return err
	}

	return c.Add(ctx, mrl)
}

// Enqueue appends mrl to the playlist without playing it.
func (c *Client) Enqueue(ctx context.Context, mrl string) error {
	return c.ack(ctx, "enqueue", mrl)
}

func (c *Client) Playlist(ctx context.Context) (*protocol.Playlist, error) {
	result, err := c.do(ctx, "playlist")
	if err != nil {
		return nil, err
	}

	return result.(*protocol.Playlist), nil
}

func (c *Client) Play(ctx context.Context) error {
	return c.ack(ctx, "play")
}

func (c *Client) Stop(ctx context.Context) error {
	return c.ack(ctx, "stop")
}

func (c *Client) Next(ctx context.Context) error {
	return c.ack(ctx, "next")
}

func (c *Client) Prev(ctx context.Context) error {
	return c.ack(ctx, "prev")
}

// Pause toggles pause and returns whether the player is paused now.
func (c *Client) Pause(ctx context.Context) (bool, error) {
	if err := c.ack(ctx, "pause"); err != nil {
		return false, err
	}

	return c.IsPaused(ctx)
}

func (c *Client) Clear(ctx context.Context) error {
	return c.ack(ctx, "clear")
}

// Quit asks the player to exit. The server hangs up in response, which is not
// an error here. The Conn is closed afterwards.
func (c *Client) Quit(ctx context.Context) error {
	err := c.ack(ctx, "quit")
	if errors.Is(err, ErrConnectionClosed) {
		err = nil
	}

	c.conn.Close()

	return err
}

// Goto plays the playlist item at the 1-based index.
func (c *Client) Goto(ctx context.Context, index int) error {
	return c.ack(ctx, "goto", strconv.Itoa(index))
}

func (c *Client) Repeat(ctx context.Context, mode ToggleMode) (bool, error) {
	return c.toggle(ctx, "repeat", mode)
}

func (c *Client) Loop(ctx context.Context, mode ToggleMode) (bool, error) {
	return c.toggle(ctx, "loop", mode)
}

func (c *Client) Random(ctx context.Context, mode ToggleMode) (bool, error) {
	return c.toggle(ctx, "random", mode)
}

// toggle returns the state the server echoed. Without an echo it returns the
// requested state, or false for Flip.
func (c *Client) toggle(ctx context.Context, name string, mode ToggleMode) (bool, error) {
	var args []string

	switch mode {
	case On:
		args = []string{"on"}
	case Off:
		args = []string{"off"}
	}

	result, err := c.do(ctx, name, args...)
	if err != nil {
		return false, err
	}

	toggle := result.(*protocol.Toggle)
	if toggle.Echoed {
		return toggle.On, nil
	}

	return mode == On, nil
}

func (c *Client) Status(ctx context.Context) (*protocol.Status, error) {
	result, err := c.do(ctx, "status")
	if err != nil {
		return nil, err
	}

	return result.(*protocol.Status), nil
}

func (c *Client) IsPaused(ctx context.Context) (bool, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return false, err
	}

	return status.Paused(), nil
}

// Volume returns the current volume, or -1 when the server did not say.
func (c *Client) Volume(ctx context.Context) (int, error) {
	return c.volume(ctx, "get_volume")
}

// SetVolume sets the volume and returns the level the server echoed, or -1.
// Levels outside 0-320 are left to the server to refuse.
func (c *Client) SetVolume(ctx context.Context, level int) (int, error) {
	return c.volume(ctx, "set_volume", strconv.Itoa(level))
}

func (c *Client) volume(ctx context.Context, name string, args ...string) (int, error) {
	result, err := c.do(ctx, name, args...)
	if err != nil {
		return -1, err
	}

	return result.(*protocol.Volume).Level, nil
}

func (c *Client) AudioDevices(ctx context.Context) (*protocol.Devices, error) {
	result, err := c.do(ctx, "get_adev")
	if err != nil {
		return nil, err
	}

	return result.(*protocol.Devices), nil
}

func (c *Client) SetAudioDevice(ctx context.Context, id string) error {
	return c.ack(ctx, "set_adev", id)
}

// Seek jumps to seconds into the current item.
func (c *Client) Seek(ctx context.Context, seconds int) error {
	return c.ack(ctx, "seek", strconv.Itoa(seconds))
}

// Time returns the seconds elapsed in the current item.
func (c *Client) Time(ctx context.Context) (int, error) {
	return c.intScalar(ctx, "get_time")
}

// Length returns the length of the current item in seconds.
func (c *Client) Length(ctx context.Context) (int, error) {
	return c.intScalar(ctx, "get_length")
}

func (c *Client) Title(ctx context.Context) (string, error) {
	result, err := c.do(ctx, "get_title")
	if err != nil {
		return "", err
	}

	return result.(*protocol.Scalar).Value, nil
}

func (c *Client) IsPlaying(ctx context.Context) (bool, error) {
	result, err := c.do(ctx, "is_playing")
	if err != nil {
		return false, err
	}

	return result.(*protocol.Scalar).Bool(), nil
}

func (c *Client) Help(ctx context.Context) (*protocol.Text, error) {
	result, err := c.do(ctx, "help")
	if err != nil {
		return nil, err
	}

	return result.(*protocol.Text), nil
}

// intScalar reads an integer reply. Nothing playing gives an empty reply,
// which reads as 0.
func (c *Client) intScalar(ctx context.Context, name string) (int, error) {
	result, err := c.do(ctx, name)
	if err != nil {
		return 0, err
	}

	scalar := result.(*protocol.Scalar)
	if scalar.Value == "" {
		return 0, nil
	}

	value, err := scalar.Int()
	if err != nil {
		c.log.Warn("Expected an integer", zap.String("command", name), zap.String("value", scalar.Value))
		return 0, nil
	}

	return value, nil
}

// FileMRL turns a local path into the file:// URI the player expects.
func FileMRL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", protocol.ErrInvalidArgument, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", protocol.ErrInvalidArgument, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", protocol.ErrInvalidArgument, abs)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	return u.String(), nil
}
