package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/physcii/core"
)

// MaxSeedCount caps a single random command
const MaxSeedCount = 1000

var (
	// ErrEmptyLine is returned for blank and comment lines; callers skip them silently
	ErrEmptyLine = errors.New("empty line")

	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnknownShape     = errors.New("unknown shape")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrArgumentCount    = errors.New("wrong number of arguments")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// Parse converts one protocol line into a command
// Grammar:
//
//	add <S|C> <glyph> <size> <x> <y> <vx> <vy>
//	remove <glyph>
//	set gravity <number> | set coe <number>
//	random <count>
//	clear
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return Command{}, ErrEmptyLine
	}

	cmd := Command{Line: strings.TrimSpace(line), Timestamp: time.Now()}
	args := fields[1:]

	var err error
	switch fields[0] {
	case "add":
		cmd.Type = TypeAddSprite
		cmd.Payload, err = parseAdd(args)
	case "remove":
		cmd.Type = TypeRemoveByGlyph
		cmd.Payload, err = parseRemove(args)
	case "set":
		cmd.Type, cmd.Payload, err = parseSet(args)
	case "random":
		cmd.Type = TypeSeedRandom
		cmd.Payload, err = parseRandom(args)
	case "clear":
		cmd.Type = TypeClearAll
		err = expectArgs(args, 0)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])
	}

	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func parseAdd(args []string) (*AddSpritePayload, error) {
	if err := expectArgs(args, 7); err != nil {
		return nil, err
	}

	shape, ok := core.ParseShape(args[0])
	if !ok {
		return nil, fmt.Errorf("%w %q, want S or C", ErrUnknownShape, args[0])
	}
	glyph, err := parseGlyph(args[1])
	if err != nil {
		return nil, err
	}
	size, err := parseInt("size", args[2])
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrInvalidArgument, size)
	}

	var nums [4]float64
	for i, name := range [4]string{"x", "y", "vx", "vy"} {
		if nums[i], err = parseFloat(name, args[3+i]); err != nil {
			return nil, err
		}
	}

	return &AddSpritePayload{
		Shape: shape,
		Glyph: glyph,
		Size:  size,
		Pos:   mgl64.Vec2{nums[0], nums[1]},
		Vel:   mgl64.Vec2{nums[2], nums[3]},
	}, nil
}

func parseRemove(args []string) (*GlyphPayload, error) {
	if err := expectArgs(args, 1); err != nil {
		return nil, err
	}
	glyph, err := parseGlyph(args[0])
	if err != nil {
		return nil, err
	}
	return &GlyphPayload{Glyph: glyph}, nil
}

func parseSet(args []string) (Type, *ValuePayload, error) {
	if err := expectArgs(args, 2); err != nil {
		return 0, nil, err
	}

	var t Type
	switch args[0] {
	case "gravity":
		t = TypeSetGravity
	case "coe":
		t = TypeSetRestitution
	default:
		return 0, nil, fmt.Errorf("%w %q, want gravity or coe", ErrUnknownParameter, args[0])
	}

	v, err := parseFloat(args[0], args[1])
	if err != nil {
		return 0, nil, err
	}
	if t == TypeSetRestitution && v < 0 {
		return 0, nil, fmt.Errorf("%w: coe %g must not be negative", ErrInvalidArgument, v)
	}
	return t, &ValuePayload{Value: v}, nil
}

func parseRandom(args []string) (*SeedPayload, error) {
	if err := expectArgs(args, 1); err != nil {
		return nil, err
	}
	n, err := parseInt("count", args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 || n > MaxSeedCount {
		return nil, fmt.Errorf("%w: count %d outside [0, %d]", ErrInvalidArgument, n, MaxSeedCount)
	}
	return &SeedPayload{Count: n}, nil
}

func expectArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: got %d, want %d", ErrArgumentCount, len(args), n)
	}
	return nil
}

// parseGlyph takes the first rune of the token
func parseGlyph(token string) (rune, error) {
	r, _ := utf8.DecodeRuneInString(token)
	if r == utf8.RuneError {
		return 0, fmt.Errorf("%w: glyph %q", ErrInvalidArgument, token)
	}
	return r, nil
}

func parseInt(name, token string) (int, error) {
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidArgument, name, token)
	}
	return v, nil
}

func parseFloat(name, token string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidArgument, name, token)
	}
	return v, nil
}
