// Package protocol implements the command vocabulary and the response
// parsing of VLC's "rc" remote-control interface.
//
// The rc interface is a plain text session over TCP. It is easy to drive by
// hand with netcat, but has no framing:
//
// - A client writes one command per line: `<command>[ <arg>...]\n`
// - The server answers with zero or more `\r\n` terminated lines
// - Nothing marks the end of a response. There is no length prefix and no
//   terminator, a client has to notice that the server went quiet
//   (see client.Conn)
// - The server prints a prompt, "> ", after each response, without a newline
//
// === Response shapes
//
// The same stream of lines means different things depending on the command
// that produced it, so the shape is picked from the command (see Prepare and
// Parse), never sniffed from the reply.
//
// Status block
//
//   ```
//   > status
//   < ( new input: file:///music/song.mp3 )
//   < ( audio volume: 256 )
//   < ( state playing )
//   ```
//
// Playlist tree. Two spaces of indentation per level, '*' marks the current
// item.
//
//   ```
//   > playlist
//   < +----[ Playlist - playlist ]
//   < | 1 - Playlist
//   < |   3 - song.mp3 (00:03:21)
//   < |   *4 - other.mp3 (00:02:10) [played 1 time]
//   < | 2 - Media Library
//   < +----[ End of playlist ]
//   ```
//
// Audio device table
//
//   ```
//   > adev
//   < +----[ audio-device ]
//   < | pulse - PulseAudio sound server *
//   < | alsa - ALSA
//   < +----[ end of audio-device ]
//   ```
//
// Single values (get_time, get_title, get_length, is_playing) are one line.
// help is free text. Everything else is an ack, usually nothing at all.
//
// === Malformed lines
//
// Parsers never fail. A line that does not fit the expected shape is counted
// and the rest of the response is still returned, see ParseWarning.
//
package protocol
