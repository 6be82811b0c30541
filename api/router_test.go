package api_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/luma/vlcrc/api"
	"github.com/luma/vlcrc/client"
	"github.com/luma/vlcrc/transport"
)

var _ = Describe("Router", func() {
	var (
		tcp    *transport.TCP
		player *client.Client
		router *gin.Engine
	)

	BeforeEach(func() {
		tcp = transport.NewTCP(transport.Options{
			Host:     "127.0.0.1",
			Greeting: transport.DefaultGreeting,
			Prompt:   transport.DefaultPrompt,
			Log:      zap.NewNop(),
		})
		Expect(tcp.Start(context.Background())).To(Succeed())

		host, port, err := net.SplitHostPort(tcp.Addr())
		Expect(err).To(Succeed())
		p, err := strconv.Atoi(port)
		Expect(err).To(Succeed())

		player, err = client.Dial(context.Background(), client.Options{Host: host, Port: p, Log: zap.NewNop()})
		Expect(err).To(Succeed())

		router = api.NewRouter(player, zap.NewNop(), false)
	})

	AfterEach(func() {
		Expect(player.Close()).To(Succeed())
		Expect(tcp.Close()).To(Succeed())
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		router.ServeHTTP(w, req)

		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())

		return body
	}

	It("answers pings", func() {
		w := serve(http.MethodGet, "/ping", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("pong"))
	})

	It("returns the status", func() {
		w := serve(http.MethodGet, "/status", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["fields"]).To(HaveKeyWithValue("state", "stopped"))
	})

	It("sets and reads the volume", func() {
		w := serve(http.MethodPut, "/volume/128", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("level", BeNumerically("==", 128)))

		w = serve(http.MethodGet, "/volume", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("level", BeNumerically("==", 128)))
	})

	It("rejects a volume that is not a number", func() {
		w := serve(http.MethodPut, "/volume/loud", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(w)["error"]).To(ContainSubstring("invalid argument"))
	})

	It("controls playback and lists the playlist", func() {
		w := serve(http.MethodPost, "/command", "enqueue /music/a.mp3")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = serve(http.MethodPost, "/playback/play", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = serve(http.MethodPost, "/seek/12", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = serve(http.MethodGet, "/playlist", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		entries := decode(w)["entries"].([]interface{})
		Expect(entries).To(ContainElement(HaveKeyWithValue("label", "a.mp3")))
	})

	It("reports the pause state and refuses commands while paused", func() {
		w := serve(http.MethodPost, "/command", "add /music/a.mp3")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = serve(http.MethodPost, "/playback/pause", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("paused", true))

		w = serve(http.MethodPut, "/volume/100", "")
		Expect(w.Code).To(Equal(http.StatusConflict))

		w = serve(http.MethodPost, "/playback/pause", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("paused", false))
	})

	It("returns 404 for unknown playback actions", func() {
		w := serve(http.MethodPost, "/playback/dance", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("switches audio devices", func() {
		w := serve(http.MethodPut, "/adev/alsa", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = serve(http.MethodGet, "/adev", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["devices"]).To(ContainElement(SatisfyAll(
			HaveKeyWithValue("id", "alsa"),
			HaveKeyWithValue("current", true),
		)))
	})

	It("runs raw command lines", func() {
		w := serve(http.MethodPost, "/command", "get_time")
		Expect(w.Code).To(Equal(http.StatusOK))

		body := decode(w)
		Expect(body).To(HaveKeyWithValue("command", "get_time"))
		Expect(body["result"]).To(HaveKeyWithValue("value", "0"))
	})

	It("maps invalid commands to 400", func() {
		w := serve(http.MethodPost, "/command", "goto zero")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps connection failures to 502", func() {
		Expect(player.Close()).To(Succeed())

		w := serve(http.MethodGet, "/status", "")
		Expect(w.Code).To(Equal(http.StatusBadGateway))
	})
})
