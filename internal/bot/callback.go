package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vidsnap/bot/internal/orchestrator"
)

// Telegram rejects callback data past this size, so encoding fails fast
// rather than producing a dead button.
const maxCallbackData = 64

// EncodeAction serializes an action into inline-button callback data.
// YouTube actions carry the URL inline; Instagram actions carry only a
// registry token.
func EncodeAction(act orchestrator.Action) (string, error) {
	var data string
	switch a := act.(type) {
	case orchestrator.AudioAction:
		data = "a|" + a.URL
	case orchestrator.VideoAction:
		data = "v|" + a.URL
	case orchestrator.ResolutionAction:
		data = "r|" + a.URL + "|" + strconv.Itoa(a.Height)
	case orchestrator.InstagramVideoAction:
		data = "iv|" + a.Token
	case orchestrator.InstagramAudioAction:
		data = "ia|" + a.Token
	default:
		return "", fmt.Errorf("unsupported action type %T", act)
	}
	if len(data) > maxCallbackData {
		return "", fmt.Errorf("callback data is %d bytes, limit is %d", len(data), maxCallbackData)
	}
	return data, nil
}

// DecodeAction parses callback data produced by EncodeAction.
func DecodeAction(data string) (orchestrator.Action, error) {
	prefix, rest, ok := strings.Cut(data, "|")
	if !ok || rest == "" {
		return nil, fmt.Errorf("malformed callback data %q", data)
	}

	switch prefix {
	case "a":
		return orchestrator.AudioAction{URL: rest}, nil
	case "v":
		return orchestrator.VideoAction{URL: rest}, nil
	case "r":
		i := strings.LastIndexByte(rest, '|')
		if i < 1 || i == len(rest)-1 {
			return nil, fmt.Errorf("malformed resolution callback %q", data)
		}
		height, err := strconv.Atoi(rest[i+1:])
		if err != nil {
			return nil, fmt.Errorf("parsing rendition height in %q: %w", data, err)
		}
		return orchestrator.ResolutionAction{URL: rest[:i], Height: height}, nil
	case "iv":
		return orchestrator.InstagramVideoAction{Token: rest}, nil
	case "ia":
		return orchestrator.InstagramAudioAction{Token: rest}, nil
	default:
		return nil, fmt.Errorf("unknown callback prefix %q", prefix)
	}
}
