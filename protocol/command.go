package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is a single RC instruction: a keyword followed by space separated
// arguments.
type Command struct {
	Name string
	Args []string
}

// NewCommand builds a Command from a name and its arguments.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Line serialises the command without its terminator.
func (c Command) Line() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return c.Name + " " + strings.Join(c.Args, " ")
}

func (c Command) String() string {
	return c.Line()
}

// ParseCommandLine splits a command line typed by a user (or received by a
// server) into a Command. Runs of whitespace collapse to a single separator.
func ParseCommandLine(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}

	return Command{Name: fields[0], Args: fields[1:]}
}

// ArgShape describes the arguments a command accepts.
type ArgShape int

const (
	// ArgNone accepts no arguments.
	ArgNone ArgShape = iota
	// ArgText requires free text (a path, an MRL or a device id). Multiple
	// arguments are joined with single spaces.
	ArgText
	// ArgOptionalText accepts free text or nothing.
	ArgOptionalText
	// ArgInteger requires exactly one integer.
	ArgInteger
	// ArgOptionalInteger accepts one integer or nothing.
	ArgOptionalInteger
	// ArgOptionalFlag accepts "on", "off" or nothing.
	ArgOptionalFlag
)

// Definition describes a known command keyword.
type Definition struct {
	// Wire is the keyword written to the socket. It differs from the
	// vocabulary name for client side aliases like get_volume.
	Wire string

	Args ArgShape

	// Shape is the response shape when no argument is given.
	Shape Shape

	// WithArg is the response shape when an argument is given. ShapeRaw
	// means the same as Shape.
	WithArg Shape

	// Positive requires integer arguments to be greater than zero.
	Positive bool
}

// ResponseShape returns the shape of the response expected for the given
// number of arguments.
func (d Definition) ResponseShape(nargs int) Shape {
	if nargs > 0 && d.WithArg != ShapeRaw {
		return d.WithArg
	}

	return d.Shape
}

var vocabulary = map[string]Definition{
	"add":      {Wire: "add", Args: ArgText, Shape: ShapeAck},
	"enqueue":  {Wire: "enqueue", Args: ArgText, Shape: ShapeAck},
	"playlist": {Wire: "playlist", Args: ArgNone, Shape: ShapePlaylist},
	"play":     {Wire: "play", Args: ArgNone, Shape: ShapeAck},
	"stop":     {Wire: "stop", Args: ArgNone, Shape: ShapeAck},
	"next":     {Wire: "next", Args: ArgNone, Shape: ShapeAck},
	"prev":     {Wire: "prev", Args: ArgNone, Shape: ShapeAck},
	"pause":    {Wire: "pause", Args: ArgNone, Shape: ShapeAck},
	"clear":    {Wire: "clear", Args: ArgNone, Shape: ShapeAck},
	"quit":     {Wire: "quit", Args: ArgNone, Shape: ShapeAck},
	"goto":     {Wire: "goto", Args: ArgInteger, Shape: ShapeAck, Positive: true},
	"repeat":   {Wire: "repeat", Args: ArgOptionalFlag, Shape: ShapeToggle},
	"loop":     {Wire: "loop", Args: ArgOptionalFlag, Shape: ShapeToggle},
	"random":   {Wire: "random", Args: ArgOptionalFlag, Shape: ShapeToggle},
	"status":   {Wire: "status", Args: ArgNone, Shape: ShapeStatus},

	"volume":     {Wire: "volume", Args: ArgOptionalInteger, Shape: ShapeVolume},
	"get_volume": {Wire: "volume", Args: ArgNone, Shape: ShapeVolume},
	"set_volume": {Wire: "volume", Args: ArgInteger, Shape: ShapeVolume},

	"adev":     {Wire: "adev", Args: ArgOptionalText, Shape: ShapeDevices, WithArg: ShapeAck},
	"get_adev": {Wire: "adev", Args: ArgNone, Shape: ShapeDevices},
	"set_adev": {Wire: "adev", Args: ArgText, Shape: ShapeAck},

	"seek":       {Wire: "seek", Args: ArgInteger, Shape: ShapeAck},
	"get_time":   {Wire: "get_time", Args: ArgNone, Shape: ShapeScalar},
	"get_title":  {Wire: "get_title", Args: ArgNone, Shape: ShapeScalar},
	"get_length": {Wire: "get_length", Args: ArgNone, Shape: ShapeScalar},
	"is_playing": {Wire: "is_playing", Args: ArgNone, Shape: ShapeScalar},
	"help":       {Wire: "help", Args: ArgNone, Shape: ShapeText},
}

// Lookup returns the definition of a known command keyword.
func Lookup(name string) (Definition, error) {
	def, ok := vocabulary[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w '%s'", ErrUnknownCommand, name)
	}

	return def, nil
}

// Known reports whether name is part of the command vocabulary.
func Known(name string) bool {
	_, ok := vocabulary[name]
	return ok
}

// Names returns every keyword of the vocabulary, in no particular order.
func Names() []string {
	names := make([]string, 0, len(vocabulary))
	for name := range vocabulary {
		names = append(names, name)
	}

	return names
}

// Prepare validates cmd and returns the command to write on the wire along
// with the shape of the response to expect. Unknown keywords pass through
// unchanged with ShapeRaw, only the newline check applies to them.
func Prepare(cmd Command) (Command, Shape, error) {
	if cmd.Name == "" {
		return Command{}, ShapeRaw, invalidArgument("empty command")
	}

	if containsNewline(cmd.Name) {
		return Command{}, ShapeRaw, invalidArgument("command name %q contains a newline", cmd.Name)
	}

	for _, arg := range cmd.Args {
		if containsNewline(arg) {
			return Command{}, ShapeRaw, invalidArgument("%s: argument %q contains a newline", cmd.Name, arg)
		}
	}

	def, ok := vocabulary[cmd.Name]
	if !ok {
		return cmd, ShapeRaw, nil
	}

	args, err := def.validate(cmd.Name, cmd.Args)
	if err != nil {
		return Command{}, ShapeRaw, err
	}

	return Command{Name: def.Wire, Args: args}, def.ResponseShape(len(args)), nil
}

func (d Definition) validate(name string, args []string) ([]string, error) {
	switch d.Args {
	case ArgNone:
		if len(args) != 0 {
			return nil, invalidArgument("%s takes no arguments", name)
		}
		return nil, nil

	case ArgText:
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return nil, invalidArgument("%s requires an argument", name)
		}
		return []string{text}, nil

	case ArgOptionalText:
		if len(args) == 0 {
			return nil, nil
		}
		return []string{strings.Join(args, " ")}, nil

	case ArgInteger:
		if len(args) != 1 {
			return nil, invalidArgument("%s requires exactly one integer", name)
		}
		return d.validateInteger(name, args[0])

	case ArgOptionalInteger:
		if len(args) == 0 {
			return nil, nil
		}
		if len(args) != 1 {
			return nil, invalidArgument("%s takes at most one integer", name)
		}
		return d.validateInteger(name, args[0])

	case ArgOptionalFlag:
		if len(args) == 0 {
			return nil, nil
		}
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return nil, invalidArgument("%s accepts only on or off, got %q", name, strings.Join(args, " "))
		}
		return args, nil
	}

	return args, nil
}

func (d Definition) validateInteger(name, arg string) ([]string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, invalidArgument("%s: %q is not an integer", name, arg)
	}

	if d.Positive && n <= 0 {
		return nil, invalidArgument("%s: %d must be greater than 0", name, n)
	}

	return []string{strconv.Itoa(n)}, nil
}

func containsNewline(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}
