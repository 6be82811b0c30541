package protocol

// Shape identifies how the lines of a response should be interpreted. The
// wire protocol does not describe itself, the shape follows from the command
// that produced the response.
type Shape int

const (
	ShapeRaw Shape = iota
	ShapeAck
	ShapeStatus
	ShapePlaylist
	ShapeDevices
	ShapeVolume
	ShapeToggle
	ShapeScalar
	ShapeText
)

var shapeNames = map[Shape]string{
	ShapeRaw:      "raw",
	ShapeAck:      "ack",
	ShapeStatus:   "status",
	ShapePlaylist: "playlist",
	ShapeDevices:  "devices",
	ShapeVolume:   "volume",
	ShapeToggle:   "toggle",
	ShapeScalar:   "scalar",
	ShapeText:     "text",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}

	return "unknown"
}

// Result is the structured form of a response.
type Result interface {
	// UnparsedLines is the number of lines the parser could not interpret.
	UnparsedLines() int

	// IsTruncated reports whether the server hung up part way through the
	// response the result was parsed from.
	IsTruncated() bool
}

// Partial is embedded in every parsed result to carry the truncation flag of
// its RawResponse.
type Partial struct {
	Truncated bool `json:"truncated,omitempty"`
}

func (p Partial) IsTruncated() bool {
	return p.Truncated
}

func partialOf(raw RawResponse) Partial {
	return Partial{Truncated: raw.Truncated}
}

// RawResponse holds the lines of a response exactly as received, in arrival
// order, with line terminators removed.
type RawResponse struct {
	Lines []string `json:"lines"`

	// Truncated is set when the server closed the connection part way
	// through the response.
	Truncated bool `json:"truncated,omitempty"`
}

func (r RawResponse) UnparsedLines() int {
	return 0
}

func (r RawResponse) IsTruncated() bool {
	return r.Truncated
}

// Ack is the response to a command without a structured payload. Whatever
// the server echoed is kept.
type Ack struct {
	Partial
	Lines []string `json:"lines,omitempty"`
}

func (a *Ack) UnparsedLines() int {
	return 0
}

// Text is free text such as the help listing.
type Text struct {
	Partial
	Lines []string `json:"lines"`
}

func (t *Text) UnparsedLines() int {
	return 0
}

// ParseFunc converts raw response lines into a structured Result.
type ParseFunc func(raw RawResponse) Result

var parsers = map[Shape]ParseFunc{
	ShapeAck:      func(raw RawResponse) Result { return ParseAck(raw) },
	ShapeStatus:   func(raw RawResponse) Result { return ParseStatus(raw) },
	ShapePlaylist: func(raw RawResponse) Result { return ParsePlaylist(raw) },
	ShapeDevices:  func(raw RawResponse) Result { return ParseDevices(raw) },
	ShapeVolume:   func(raw RawResponse) Result { return ParseVolume(raw) },
	ShapeToggle:   func(raw RawResponse) Result { return ParseToggle(raw) },
	ShapeScalar:   func(raw RawResponse) Result { return ParseScalar(raw) },
	ShapeText:     func(raw RawResponse) Result { return ParseText(raw) },
}

// Parse runs the parser registered for shape. Shapes without a parser,
// ShapeRaw included, return raw unchanged.
func Parse(shape Shape, raw RawResponse) Result {
	parse, ok := parsers[shape]
	if !ok {
		return raw
	}

	return parse(raw)
}

// ParseAck keeps any non blank lines the server echoed.
func ParseAck(raw RawResponse) *Ack {
	ack := &Ack{Partial: partialOf(raw)}
	for _, line := range raw.Lines {
		if !isBlank(line) {
			ack.Lines = append(ack.Lines, line)
		}
	}

	return ack
}

// ParseText keeps every line, dropping only the box framing.
func ParseText(raw RawResponse) *Text {
	text := &Text{Partial: partialOf(raw), Lines: make([]string, 0, len(raw.Lines))}
	for _, line := range raw.Lines {
		if isBoxEdge(line) {
			continue
		}
		text.Lines = append(text.Lines, line)
	}

	return text
}
