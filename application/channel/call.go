package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"video-thumbnail/domain/thumbnail"
)

// Method names understood by the handler
const (
	MethodFile = "file"
	MethodData = "data"
)

// ErrNotImplemented is returned by DecodeCall for unknown method names
var ErrNotImplemented = errors.New("method not implemented")

// MethodCall is a named invocation with loosely typed arguments, as delivered
// by a transport (CLI flags, JSON bodies, ...).
type MethodCall struct {
	Method    string
	Arguments map[string]any
}

// Call is a decoded method call. The concrete type is either ExtractToFile or
// ExtractToBytes.
type Call interface {
	Request() *thumbnail.Request
	isCall()
}

// ExtractToFile writes the thumbnail and answers with its absolute path
type ExtractToFile struct {
	Req *thumbnail.Request
}

// ExtractToBytes answers with the encoded thumbnail
type ExtractToBytes struct {
	Req *thumbnail.Request
}

func (c ExtractToFile) Request() *thumbnail.Request  { return c.Req }
func (c ExtractToBytes) Request() *thumbnail.Request { return c.Req }
func (ExtractToFile) isCall()                        {}
func (ExtractToBytes) isCall()                       {}

// Defaults fill in arguments a caller left out
type Defaults struct {
	Format  thumbnail.ImageFormat
	Quality int
}

// DefaultQuality is the handler's quality unless WithDefaults replaces it
const DefaultQuality = 75

// DecodeCall validates the method name and unpacks its arguments
func DecodeCall(mc MethodCall, defaults Defaults) (Call, error) {
	switch mc.Method {
	case MethodFile:
		req, err := decodeRequest(mc.Arguments, true, defaults)
		if err != nil {
			return nil, err
		}
		return ExtractToFile{Req: req}, nil
	case MethodData:
		req, err := decodeRequest(mc.Arguments, false, defaults)
		if err != nil {
			return nil, err
		}
		return ExtractToBytes{Req: req}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotImplemented, mc.Method)
}

func decodeRequest(args map[string]any, withPath bool, defaults Defaults) (*thumbnail.Request, error) {
	video, err := stringArg(args, "video", true)
	if err != nil {
		return nil, err
	}
	headers, err := headersArg(args, "headers")
	if err != nil {
		return nil, err
	}

	var thumbnailPath string
	if withPath {
		if thumbnailPath, err = stringArg(args, "thumbnailPath", false); err != nil {
			return nil, err
		}
	}

	format := defaults.Format
	if _, ok := args["imageFormat"]; ok {
		v, err := intArg(args, "imageFormat", 0)
		if err != nil {
			return nil, err
		}
		if format, err = thumbnail.ParseImageFormat(v); err != nil {
			return nil, err
		}
	}

	quality, err := intArg(args, "quality", defaults.Quality)
	if err != nil {
		return nil, err
	}

	maxWidth, err := intArg(args, "maxWidth", 0)
	if err != nil {
		return nil, err
	}
	maxHeight, err := intArg(args, "maxHeight", 0)
	if err != nil {
		return nil, err
	}
	timeMs, err := intArg(args, "timeMs", 0)
	if err != nil {
		return nil, err
	}

	return thumbnail.NewRequest(video, headers, thumbnailPath, format, maxWidth, maxHeight, timeMs, quality)
}

func stringArg(args map[string]any, key string, required bool) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("%w: %s is required", thumbnail.ErrInvalidArgument, key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", thumbnail.ErrInvalidArgument, key, v)
	}
	return s, nil
}

func headersArg(args map[string]any, key string) (map[string]string, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]any:
		headers := make(map[string]string, len(v))
		for name, value := range v {
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: header %q must be a string, got %T", thumbnail.ErrInvalidArgument, name, value)
			}
			headers[name] = s
		}
		return headers, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a string map, got %T", thumbnail.ErrInvalidArgument, key, v)
	}
}

// intArg accepts any Go integer, integral floats (JSON numbers) and json.Number
func intArg(args map[string]any, key string, fallback int) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}

	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case float32:
		return floatToInt(key, float64(n))
	case float64:
		return floatToInt(key, n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer: %w", thumbnail.ErrInvalidArgument, key, err)
		}
		return int(i), nil
	}
	return 0, fmt.Errorf("%w: %s must be an integer, got %T", thumbnail.ErrInvalidArgument, key, v)
}

func floatToInt(key string, f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", thumbnail.ErrInvalidArgument, key, f)
	}
	return int(f), nil
}
