// Package control applies live reconfiguration commands to a running
// painter. Commands arrive as JSON over MQTT:
//
//	{"command": "set_position", "params": {"x": 100, "y": 40}}
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AnyUserName/pxflood/internal/painter"
	"github.com/AnyUserName/pxflood/internal/pixel"
	"github.com/AnyUserName/pxflood/internal/profile"
	"github.com/AnyUserName/pxflood/internal/resize"
	"github.com/AnyUserName/pxflood/internal/serializer"
)

// queueSize bounds commands waiting to be applied.
const queueSize = 16

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadParams      = errors.New("bad params")
)

// Target is the painter surface the handler drives.
type Target interface {
	UpdatePosition(pixel.Coordinate) error
	UpdateDimensions(pixel.Dimension) error
	UpdateStreamCount(int) error
	UpdateSerializer(serializer.Serializer)
	UpdateResizeType(resize.Fit) error
	UpdateResizeFilter(resize.Filter) error
	UpdateStyle(serializer.Serializer, resize.Fit, resize.Filter) error
	Settings() painter.Settings
}

// Command is one control message.
type Command struct {
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response acknowledges a command.
type Response struct {
	CommandAck string         `json:"command_ack"`
	Status     string         `json:"status"` // success, error
	Data       map[string]any `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
	Timestamp  string         `json:"timestamp"`
}

// Handler queues commands and applies them to a Target in order.
type Handler struct {
	target   Target
	commands chan Command
	respond  func(Response)
	log      *slog.Logger

	applied atomic.Uint64
	failed  atomic.Uint64
	dropped atomic.Uint64
}

// NewHandler creates a handler. respond may be nil.
func NewHandler(target Target, respond func(Response), log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		target:   target,
		commands: make(chan Command, queueSize),
		respond:  respond,
		log:      log,
	}
}

// Enqueue parses payload and queues it. A full queue drops the command.
func (h *Handler) Enqueue(payload []byte) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		h.log.Error("failed to parse control command", "error", err)
		h.failed.Add(1)
		h.send(Response{CommandAck: "unknown", Status: "error", Error: "invalid JSON"})
		return
	}
	h.log.Info("control command received", "command", cmd.Command)

	select {
	case h.commands <- cmd:
	default:
		h.dropped.Add(1)
		h.log.Warn("command queue full, dropping command", "command", cmd.Command)
	}
}

// Run applies queued commands until ctx ends.
func (h *Handler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-h.commands:
			resp := Response{CommandAck: cmd.Command, Status: "success"}
			data, err := h.Handle(cmd)
			if err != nil {
				h.failed.Add(1)
				h.log.Warn("control command failed", "command", cmd.Command, "error", err)
				resp.Status, resp.Error = "error", err.Error()
			} else {
				h.applied.Add(1)
				resp.Data = data
			}
			h.send(resp)
		}
	}
}

// Counts returns applied, failed and dropped command totals.
func (h *Handler) Counts() (applied, failed, dropped uint64) {
	return h.applied.Load(), h.failed.Load(), h.dropped.Load()
}

func (h *Handler) send(resp Response) {
	if h.respond == nil {
		return
	}
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	h.respond(resp)
}

type positionParams struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type dimensionParams struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type streamParams struct {
	Count *int `json:"count"`
}

type nameParams struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Handle applies one command and returns data for the response.
func (h *Handler) Handle(cmd Command) (map[string]any, error) {
	switch cmd.Command {
	case "get_status":
		return status(h.target.Settings()), nil

	case "set_position":
		var p positionParams
		if err := decode(cmd.Params, &p); err != nil {
			return nil, err
		}
		if p.X == nil || p.Y == nil {
			return nil, fmt.Errorf("%w: x and y are required", ErrBadParams)
		}
		if err := h.target.UpdatePosition(pixel.Coordinate{X: *p.X, Y: *p.Y}); err != nil {
			return nil, err
		}

	case "set_dimensions":
		var p dimensionParams
		if err := decode(cmd.Params, &p); err != nil {
			return nil, err
		}
		if err := h.target.UpdateDimensions(pixel.Dimension{Width: p.Width, Height: p.Height}); err != nil {
			return nil, err
		}

	case "set_streams":
		var p streamParams
		if err := decode(cmd.Params, &p); err != nil {
			return nil, err
		}
		if p.Count == nil {
			return nil, fmt.Errorf("%w: count is required", ErrBadParams)
		}
		if err := h.target.UpdateStreamCount(*p.Count); err != nil {
			return nil, err
		}

	case "set_serializer":
		var p nameParams
		if err := decode(cmd.Params, &p); err != nil {
			return nil, err
		}
		s, err := serializer.Parse(p.Name)
		if err != nil {
			return nil, err
		}
		h.target.UpdateSerializer(s)

	case "set_resize":
		var p nameParams
		if err := decode(cmd.Params, &p); err != nil {
			return nil, err
		}
		fit, err := resize.ParseFit(p.Type)
		if err != nil {
			return nil, err
		}
		if err := h.target.UpdateResizeType(fit); err != nil {
			return nil, err
		}

	case "set_filter":
		var p nameParams
		if err := decode(cmd.Params, &p); err != nil {
			return nil, err
		}
		f, err := resize.ParseFilter(p.Name)
		if err != nil {
			return nil, err
		}
		if err := h.target.UpdateResizeFilter(f); err != nil {
			return nil, err
		}

	case "set_profile":
		var p nameParams
		if err := decode(cmd.Params, &p); err != nil {
			return nil, err
		}
		if !profile.Known(p.Name) {
			return nil, fmt.Errorf("%w: unknown profile %q", ErrBadParams, p.Name)
		}
		if err := Apply(h.target, profile.Get(p.Name)); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Command)
	}
	return status(h.target.Settings()), nil
}

// Apply switches target to a profile's serializer, fit and filter.
func Apply(target Target, p profile.Profile) error {
	s, f, err := p.Settings()
	if err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return target.UpdateStyle(s, p.Fit, f)
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: params missing", ErrBadParams)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadParams, err)
	}
	return nil
}

func status(s painter.Settings) map[string]any {
	return map[string]any{
		"width":        s.Dimension.Width,
		"height":       s.Dimension.Height,
		"x":            s.Position.X,
		"y":            s.Position.Y,
		"stream_count": s.StreamCount,
		"serializer":   s.Serializer,
		"resize":       s.Fit.String(),
		"filter":       s.Filter.Name,
	}
}
