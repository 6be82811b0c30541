// Package api exposes a player over HTTP. Every request is turned into one rc
// command on a shared connection.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luma/vlcrc/client"
	"github.com/luma/vlcrc/protocol"
)

// MaxCommandBody bounds the body of POST /command.
const MaxCommandBody = 4096

// Player is the part of client.Client the routes use.
type Player interface {
	Exec(ctx context.Context, line string) (protocol.Result, error)

	Status(ctx context.Context) (*protocol.Status, error)
	Playlist(ctx context.Context) (*protocol.Playlist, error)

	Volume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, level int) (int, error)

	AudioDevices(ctx context.Context) (*protocol.Devices, error)
	SetAudioDevice(ctx context.Context, id string) error

	Seek(ctx context.Context, seconds int) error

	Play(ctx context.Context) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Pause(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

var _ Player = (*client.Client)(nil)

// NewRouter returns the routes for player.
func NewRouter(player Player, log *zap.Logger, debugHTTP bool) *gin.Engine {
	r := setupRouter(debugHTTP, log)

	h := &handlers{player: player, log: log}

	// Ping test
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.GET("/status", h.status)
	r.GET("/playlist", h.playlist)
	r.GET("/volume", h.volume)
	r.PUT("/volume/:level", h.setVolume)
	r.GET("/adev", h.devices)
	r.PUT("/adev/:id", h.setDevice)
	r.POST("/playback/:action", h.playback)
	r.POST("/seek/:seconds", h.seek)
	r.POST("/command", h.command)

	return r
}

func setupRouter(debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/ping"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	return r
}

type handlers struct {
	player Player
	log    *zap.Logger
}

func (h *handlers) status(c *gin.Context) {
	status, err := h.player.Status(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *handlers) playlist(c *gin.Context) {
	playlist, err := h.player.Playlist(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, playlist)
}

func (h *handlers) volume(c *gin.Context) {
	level, err := h.player.Volume(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"level": level})
}

func (h *handlers) setVolume(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		h.fail(c, protocolError("volume %q is not an integer", c.Param("level")))
		return
	}

	level, err = h.player.SetVolume(c.Request.Context(), level)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"level": level})
}

func (h *handlers) devices(c *gin.Context) {
	devices, err := h.player.AudioDevices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, devices)
}

func (h *handlers) setDevice(c *gin.Context) {
	if err := h.player.SetAudioDevice(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlers) playback(c *gin.Context) {
	actions := map[string]func(context.Context) error{
		"play":  h.player.Play,
		"stop":  h.player.Stop,
		"next":  h.player.Next,
		"prev":  h.player.Prev,
		"clear": h.player.Clear,
	}

	if c.Param("action") == "pause" {
		paused, err := h.player.Pause(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"paused": paused})
		return
	}

	action, ok := actions[c.Param("action")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown action " + c.Param("action")})
		return
	}

	if err := action(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlers) seek(c *gin.Context) {
	seconds, err := strconv.Atoi(c.Param("seconds"))
	if err != nil {
		h.fail(c, protocolError("seek %q is not an integer", c.Param("seconds")))
		return
	}

	if err := h.player.Seek(c.Request.Context(), seconds); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// command runs the command line in the request body.
func (h *handlers) command(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxCommandBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line := strings.TrimSpace(string(body))
	cmd := protocol.ParseCommandLine(line)

	result, err := h.player.Exec(c.Request.Context(), line)
	if err != nil {
		h.fail(c, err)
		return
	}

	response := gin.H{
		"command": cmd.Name,
		"result":  result,
	}

	if warning := protocol.WarningFor(cmd.Name, result); warning != nil {
		response["warning"] = warning.Error()
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlers) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Warn("Player request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps a client error to an HTTP status.
func StatusFor(err error) int {
	var connErr *client.ConnectionError

	switch {
	case errors.Is(err, protocol.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, client.ErrPaused):
		return http.StatusConflict
	case errors.As(err, &connErr), errors.Is(err, client.ErrConnectionClosed):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
