// Package video builds the commands sent to an embedded video player through
// its postMessage API.
package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCommand is returned for a command the player cannot accept.
var ErrInvalidCommand = errors.New("invalid player command")

// Command is one player API call, e.g.
// {"event":"command","func":"seekTo","args":[272,true]}.
type Command struct {
	Event string `json:"event"`
	Func  string `json:"func"`
	Args  []any  `json:"args"`
}

// Seek jumps to seconds and lets the player seek ahead of what is buffered.
func Seek(seconds int) Command {
	return Command{Event: "command", Func: "seekTo", Args: []any{seconds, true}}
}

// Captions switches the caption track to lang.
func Captions(lang string) Command {
	return Command{
		Event: "command",
		Func:  "setOption",
		Args:  []any{"captions", "track", map[string]string{"languageCode": lang}},
	}
}

// Message encodes c as the string handed to postMessage.
func (c Command) Message() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("video: encode: %w", err)
	}
	return string(data), nil
}

// Player delivers commands to the player showing an article.
type Player interface {
	Send(ctx context.Context, slug string, cmd Command) error
}

// Publisher pushes a command to connected clients.
type Publisher interface {
	PublishPlayer(slug string, command any)
}

// Broadcaster is a Player that fans commands out to every client watching
// the event stream; clients pick the ones addressed to their article.
type Broadcaster struct {
	pub Publisher
}

// NewBroadcaster creates a Broadcaster on top of pub.
func NewBroadcaster(pub Publisher) *Broadcaster {
	return &Broadcaster{pub: pub}
}

// Send implements Player.
func (b *Broadcaster) Send(ctx context.Context, slug string, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if slug == "" || cmd.Func == "" {
		return ErrInvalidCommand
	}
	b.pub.PublishPlayer(slug, cmd)
	return nil
}
