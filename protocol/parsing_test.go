package protocol_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/vlcrc/protocol"
)

func raw(lines ...string) protocol.RawResponse {
	return protocol.RawResponse{Lines: lines}
}

var _ = Describe("Parsing", func() {
	Describe("ParseStatus()", func() {
		It("folds key: value lines into fields", func() {
			status := protocol.ParseStatus(raw("state: playing", "time: 42"))

			Expect(status.Fields).To(Equal(map[string]string{
				"state": "playing",
				"time":  "42",
			}))
			Expect(status.Unparsed).To(BeZero())
			Expect(protocol.WarningFor("status", status)).To(BeNil())
		})

		It("understands VLC's parenthesised lines", func() {
			status := protocol.ParseStatus(raw(
				"( new input: file:///music/song.mp3 )",
				"( audio volume: 256 )",
				"( state paused )",
			))

			Expect(status.Fields).To(HaveKeyWithValue("new input", "file:///music/song.mp3"))
			Expect(status.State()).To(Equal("paused"))
			Expect(status.Paused()).To(BeTrue())

			volume, ok := status.Volume()
			Expect(ok).To(BeTrue())
			Expect(volume).To(Equal(256))
		})

		It("keeps unknown lines under the raw key and counts them", func() {
			status := protocol.ParseStatus(raw("state: playing", protocol.PausedNotice, "garbage"))

			Expect(status.Fields).To(HaveKeyWithValue("state", "playing"))
			Expect(status.Fields).To(HaveKeyWithValue(protocol.RawKey, protocol.PausedNotice+"\ngarbage"))
			Expect(status.Paused()).To(BeTrue())

			var warning *protocol.ParseWarning
			Expect(errors.As(protocol.WarningFor("status", status), &warning)).To(BeTrue())
			Expect(warning.Unparsed).To(Equal(1))
		})

		It("does not count the pause notice as unparsed", func() {
			status := protocol.ParseStatus(raw("( state paused )", protocol.PausedNotice))

			Expect(status.Paused()).To(BeTrue())
			Expect(protocol.WarningFor("status", status)).To(BeNil())
		})

		It("skips box edges and blank lines", func() {
			status := protocol.ParseStatus(raw("+----[ status ]", "", "| state: stopped", "+----[ end ]"))

			Expect(status.Fields).To(Equal(map[string]string{"state": "stopped"}))
			Expect(status.Unparsed).To(BeZero())
		})

		It("returns an empty status for an empty response", func() {
			status := protocol.ParseStatus(raw())
			Expect(status.Fields).To(BeEmpty())
		})
	})

	Describe("ParsePlaylist()", func() {
		listing := raw(
			"+----[ Playlist - playlist ]",
			"| 1 - Playlist",
			"|   3 - song.mp3 (00:03:21)",
			"|   *4 - other.mp3 (00:02:10) [played 2 times]",
			"|     5 - nested",
			"| 2 - Media Library",
			"|   6 - library.mp3",
			"+----[ End of playlist ]",
		)

		It("derives depth from indentation", func() {
			playlist := protocol.ParsePlaylist(listing)

			Expect(playlist.Unparsed).To(BeZero())
			Expect(playlist.Entries).To(HaveLen(6))

			depths := make([]int, 0, len(playlist.Entries))
			for _, e := range playlist.Entries {
				depths = append(depths, e.Depth)
			}
			Expect(depths).To(Equal([]int{0, 1, 1, 2, 0, 1}))
		})

		It("flags exactly one entry as current", func() {
			playlist := protocol.ParsePlaylist(listing)

			current := 0
			for _, e := range playlist.Entries {
				if e.IsCurrent {
					current++
				}
			}
			Expect(current).To(Equal(1))

			entry, ok := playlist.Current()
			Expect(ok).To(BeTrue())
			Expect(entry).To(Equal(protocol.PlaylistEntry{
				Index:     4,
				Depth:     1,
				Label:     "other.mp3",
				IsCurrent: true,
				Duration:  2*time.Minute + 10*time.Second,
				PlayCount: 2,
			}))
		})

		It("keeps server order", func() {
			playlist := protocol.ParsePlaylist(listing)

			labels := make([]string, 0, len(playlist.Entries))
			for _, e := range playlist.Entries {
				labels = append(labels, e.Label)
			}
			Expect(labels).To(Equal([]string{
				"Playlist", "song.mp3", "other.mp3", "nested", "Media Library", "library.mp3",
			}))
		})

		It("lists the items of the Playlist node without the media library", func() {
			items := protocol.ParsePlaylist(listing).Items()

			Expect(items).To(HaveLen(3))
			Expect(items[0].Label).To(Equal("song.mp3"))
			Expect(items[2].Label).To(Equal("nested"))
		})

		It("counts numbers too large for an int as unparsed", func() {
			playlist := protocol.ParsePlaylist(raw(
				"| 1 - Playlist",
				"|   99999999999999999999999 - song.mp3",
				"|   5 - other.mp3 (00:01:00) [played 99999999999999999999999 times]",
				"|   6 - last.mp3",
			))

			Expect(playlist.Unparsed).To(Equal(2))
			Expect(playlist.Entries).To(HaveLen(2))
			Expect(playlist.Entries[1].Label).To(Equal("last.mp3"))
		})

		It("accepts the older listing without ids", func() {
			playlist := protocol.ParsePlaylist(raw(
				"|- Playlist",
				"|  - song (00:01:00)",
				"|- Media Library",
			))

			Expect(playlist.Unparsed).To(BeZero())
			Expect(playlist.Entries).To(HaveLen(3))
			Expect(playlist.Entries[1].Depth).To(Equal(1))
			Expect(playlist.Entries[1].Index).To(BeZero())
			Expect(playlist.Entries[1].Label).To(Equal("song"))
			Expect(playlist.Entries[1].Duration).To(Equal(time.Minute))
		})

		It("skips malformed lines and counts them", func() {
			playlist := protocol.ParsePlaylist(raw("| 1 - Playlist", "what is this", "|   3 - song.mp3"))

			Expect(playlist.Entries).To(HaveLen(2))
			Expect(playlist.Unparsed).To(Equal(1))
		})
	})

	Describe("ParseDevices()", func() {
		It("splits id and label", func() {
			devices := protocol.ParseDevices(raw(
				"+----[ audio-device ]",
				"| pulse - PulseAudio sound server *",
				"| alsa - ALSA",
				"+----[ end of audio-device ]",
			))

			Expect(devices.Unparsed).To(BeZero())
			Expect(devices.Devices).To(Equal([]protocol.AudioDevice{
				{ID: "pulse", Label: "PulseAudio sound server", Current: true},
				{ID: "alsa", Label: "ALSA"},
			}))

			current, ok := devices.Current()
			Expect(ok).To(BeTrue())
			Expect(current.ID).To(Equal("pulse"))
		})

		It("counts a line without the delimiter as unparsed and keeps the rest", func() {
			devices := protocol.ParseDevices(raw(
				"| pulse - PulseAudio",
				"| this line is broken",
				"| alsa - ALSA",
			))

			Expect(devices.Devices).To(HaveLen(2))
			Expect(devices.Unparsed).To(Equal(1))
			Expect(protocol.WarningFor("adev", devices)).To(MatchError(ContainSubstring("1 response line")))
		})

		It("skips devices with an empty id", func() {
			devices := protocol.ParseDevices(raw("|  - Default", "| alsa - ALSA"))

			Expect(devices.Devices).To(Equal([]protocol.AudioDevice{{ID: "alsa", Label: "ALSA"}}))
			Expect(devices.Unparsed).To(BeZero())
		})
	})

	Describe("ParseVolume()", func() {
		It("finds the audio volume echo", func() {
			Expect(protocol.ParseVolume(raw("( audio volume: 128 )")).Level).To(Equal(128))
		})

		It("accepts a bare integer", func() {
			Expect(protocol.ParseVolume(raw("320")).Level).To(Equal(320))
		})

		It("returns -1 without an echo", func() {
			volume := protocol.ParseVolume(raw())
			Expect(volume.Level).To(Equal(-1))
			Expect(volume.Unparsed).To(BeZero())
		})

		It("counts an echo too large for an int as unparsed", func() {
			volume := protocol.ParseVolume(raw("( audio volume: 99999999999999999999999 )"))
			Expect(volume.Level).To(Equal(-1))
			Expect(volume.Unparsed).To(Equal(1))
		})

		It("counts noise when no volume was found", func() {
			volume := protocol.ParseVolume(raw("Unknown command `volume'."))
			Expect(volume.Level).To(Equal(-1))
			Expect(volume.Unparsed).To(Equal(1))
		})
	})

	Describe("ParseToggle()", func() {
		It("reads true from the echo", func() {
			toggle := protocol.ParseToggle(raw("Setting repeat to true"))
			Expect(toggle.On).To(BeTrue())
			Expect(toggle.Echoed).To(BeTrue())
		})

		It("reads off from the echo", func() {
			toggle := protocol.ParseToggle(raw("( random: off )"))
			Expect(toggle.On).To(BeFalse())
			Expect(toggle.Echoed).To(BeTrue())
		})

		It("is not echoed for an empty response", func() {
			Expect(protocol.ParseToggle(raw()).Echoed).To(BeFalse())
		})
	})

	Describe("ParseScalar()", func() {
		It("takes the first line as value", func() {
			scalar := protocol.ParseScalar(raw(" 42 "))
			Expect(scalar.Value).To(Equal("42"))
			Expect(scalar.Int()).To(Equal(42))
		})

		It("interprets is_playing output", func() {
			Expect(protocol.ParseScalar(raw("1")).Bool()).To(BeTrue())
			Expect(protocol.ParseScalar(raw("0")).Bool()).To(BeFalse())
		})

		It("counts extra lines as unparsed", func() {
			Expect(protocol.ParseScalar(raw("song", "extra")).Unparsed).To(Equal(1))
		})
	})

	Describe("Parse()", func() {
		It("dispatches on shape", func() {
			Expect(protocol.Parse(protocol.ShapeStatus, raw("state: playing"))).To(BeAssignableToTypeOf(&protocol.Status{}))
			Expect(protocol.Parse(protocol.ShapePlaylist, raw())).To(BeAssignableToTypeOf(&protocol.Playlist{}))
			Expect(protocol.Parse(protocol.ShapeDevices, raw())).To(BeAssignableToTypeOf(&protocol.Devices{}))
			Expect(protocol.Parse(protocol.ShapeText, raw("help"))).To(BeAssignableToTypeOf(&protocol.Text{}))
		})

		It("carries the truncation flag into every shape", func() {
			response := protocol.RawResponse{Lines: []string{"| 1 - Playlist"}, Truncated: true}

			for _, shape := range []protocol.Shape{
				protocol.ShapeAck, protocol.ShapeStatus, protocol.ShapePlaylist, protocol.ShapeDevices,
				protocol.ShapeVolume, protocol.ShapeToggle, protocol.ShapeScalar, protocol.ShapeText, protocol.ShapeRaw,
			} {
				Expect(protocol.Parse(shape, response).IsTruncated()).To(BeTrue(), "shape %s", shape)
			}

			Expect(protocol.Parse(protocol.ShapePlaylist, raw("| 1 - Playlist")).IsTruncated()).To(BeFalse())
		})

		It("passes raw responses through for ShapeRaw", func() {
			response := protocol.RawResponse{Lines: []string{"a", "b"}, Truncated: true}
			Expect(protocol.Parse(protocol.ShapeRaw, response)).To(Equal(response))
		})
	})

	Describe("RemoveTrailingCR()", func() {
		It("does nothing if the data does not end in CR", func() {
			data := []byte("I am awesome data")
			Expect(protocol.RemoveTrailingCR(data)).To(Equal(data))
		})

		It("removes the trailling CR", func() {
			input := []byte("I am awesome data\r")
			output := []byte("I am awesome data")
			Expect(protocol.RemoveTrailingCR(input)).To(Equal(output))
		})

		It("copes with empty data", func() {
			Expect(protocol.RemoveTrailingCR([]byte{})).To(BeEmpty())
		})
	})
})
