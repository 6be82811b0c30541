package transport_test

import (
	"net"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/vlcrc/protocol"
	"github.com/luma/vlcrc/transport"
)

var _ = Describe("Player", func() {
	var (
		tcp  *transport.TCP
		conn net.Conn
	)

	BeforeEach(func() {
		tcp = makeTCPServer(transport.Options{Prompt: transport.DefaultPrompt})
		conn = dial(tcp)

		// Drain the first prompt.
		readUntilPrompt(conn)
	})

	AfterEach(func() {
		conn.Close()
		Expect(tcp.Close()).To(Succeed())
	})

	It("reports the default status", func() {
		Expect(sendCommand(conn, "status")).To(Equal([]string{
			"( audio volume: 256 )",
			"( state stopped )",
		}))
	})

	It("plays what was added", func() {
		Expect(sendCommand(conn, "add /music/song.mp3")).To(BeEmpty())

		Expect(sendCommand(conn, "status")).To(Equal([]string{
			"( new input: /music/song.mp3 )",
			"( audio volume: 256 )",
			"( state playing )",
		}))
		Expect(sendCommand(conn, "is_playing")).To(Equal([]string{"1"}))
		Expect(sendCommand(conn, "get_title")).To(Equal([]string{"song.mp3"}))
		Expect(sendCommand(conn, "get_length")).To(Equal([]string{"180"}))
	})

	It("queues without playing", func() {
		sendCommand(conn, "enqueue /music/a.mp3")

		Expect(sendCommand(conn, "is_playing")).To(Equal([]string{"0"}))
		Expect(sendCommand(conn, "playlist")).To(Equal([]string{
			"+----[ Playlist - playlist ]",
			"| 1 - Playlist",
			"|   3 - a.mp3 (00:03:00)",
			"| 2 - Media Library",
			"+----[ End of playlist ]",
		}))
	})

	It("marks the current item in the playlist", func() {
		sendCommand(conn, "enqueue /music/a.mp3")
		sendCommand(conn, "enqueue /music/b.mp3")
		sendCommand(conn, "goto 2")

		Expect(sendCommand(conn, "playlist")).To(ContainElement("|   *4 - b.mp3 (00:03:00) [played 1 time]"))

		sendCommand(conn, "prev")
		Expect(sendCommand(conn, "get_title")).To(Equal([]string{"a.mp3"}))
	})

	It("toggles pause", func() {
		sendCommand(conn, "add /music/a.mp3")
		Expect(sendCommand(conn, "pause")).To(BeEmpty())
		Expect(sendCommand(conn, "status")).To(ContainElement("( state paused )"))
		Expect(sendCommand(conn, "get_time")).To(Equal([]string{"0", protocol.PausedNotice}))

		Expect(sendCommand(conn, "pause")).To(BeEmpty())
		Expect(sendCommand(conn, "status")).To(ContainElement("( state playing )"))
		Expect(sendCommand(conn, "get_time")).To(Equal([]string{"0"}))
	})

	It("echoes the volume", func() {
		Expect(sendCommand(conn, "volume 100")).To(Equal([]string{"( audio volume: 100 )"}))
		Expect(sendCommand(conn, "volume")).To(Equal([]string{"( audio volume: 100 )"}))
	})

	It("ignores volumes out of range", func() {
		Expect(sendCommand(conn, "volume 1000")).To(Equal([]string{"( audio volume: 256 )"}))
	})

	It("echoes toggles", func() {
		Expect(sendCommand(conn, "repeat")).To(Equal([]string{"Setting repeat to true"}))
		Expect(sendCommand(conn, "repeat on")).To(Equal([]string{"Setting repeat to true"}))
		Expect(sendCommand(conn, "repeat off")).To(Equal([]string{"Setting repeat to false"}))
	})

	It("lists and switches audio devices", func() {
		Expect(sendCommand(conn, "adev")).To(Equal([]string{
			"+----[ audio-device ]",
			"| pulse - PulseAudio sound server *",
			"| alsa - ALSA",
			"+----[ end of audio-device ]",
		}))

		Expect(sendCommand(conn, "adev alsa")).To(BeEmpty())
		Expect(sendCommand(conn, "adev")).To(ContainElement("| alsa - ALSA *"))
	})

	It("clamps seeks to the item length", func() {
		sendCommand(conn, "add /music/a.mp3")

		sendCommand(conn, "seek 42")
		Expect(sendCommand(conn, "get_time")).To(Equal([]string{"42"}))

		sendCommand(conn, "seek 9000")
		Expect(sendCommand(conn, "get_time")).To(Equal([]string{"180"}))
	})

	It("empties the playlist on clear", func() {
		sendCommand(conn, "add /music/a.mp3")
		sendCommand(conn, "clear")

		Expect(sendCommand(conn, "status")).To(Equal([]string{
			"( audio volume: 256 )",
			"( state stopped )",
		}))
	})

	It("answers unknown commands", func() {
		Expect(sendCommand(conn, "dance")).To(Equal([]string{
			"Unknown command `dance'. Type `help' for help.",
		}))
	})

	It("prints help in a box", func() {
		help := sendCommand(conn, "help")
		Expect(help[0]).To(Equal("+----[ Remote control commands ]"))
		Expect(help[len(help)-1]).To(Equal("+----[ end of help ]"))
	})

	It("hangs up on quit", func() {
		_, err := conn.Write([]byte("quit\n"))
		Expect(err).To(Succeed())

		waitForClose(conn)
	})
})
