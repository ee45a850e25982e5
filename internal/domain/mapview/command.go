package mapview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pet-reports-map/internal/domain/reports"
)

var ErrBadCommand = errors.New("bad command")

// Command es un frame cliente -> servidor.
//
//	{"type":"filter","category":"missing","region":"الدمام"}
//	{"type":"select","kind":"missing","id":"r1"}
//	{"type":"locate","lat":26.4,"lon":50.1} | {"type":"locate","error":"timeout"}
type Command struct {
	Type            string   `json:"type"`
	Category        string   `json:"category,omitempty"`
	Region          string   `json:"region,omitempty"`
	Kind            Kind     `json:"kind,omitempty"`
	ID              string   `json:"id,omitempty"`
	On              *bool    `json:"on,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lon             *float64 `json:"lon,omitempty"`
	Accuracy        float64  `json:"accuracy,omitempty"`
	Error           string   `json:"error,omitempty"`
	IncludeResolved *bool    `json:"include_resolved,omitempty"`
}

const (
	CmdRefresh        = "refresh"
	CmdFilter         = "filter"
	CmdSelect         = "select"
	CmdClearSelection = "clear_selection"
	CmdTracking       = "tracking"
	CmdLocate         = "locate"
	CmdSound          = "sound"
)

func ParseCommand(raw []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(raw, &c); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrBadCommand, err)
	}
	if c.Type == "" {
		return Command{}, fmt.Errorf("%w: type required", ErrBadCommand)
	}
	return c, nil
}

// Apply despacha un comando sobre la sesión.
func (s *Session) Apply(ctx context.Context, c Command) []Message {
	switch c.Type {
	case CmdRefresh:
		if c.IncludeResolved != nil && *c.IncludeResolved != s.includeResolved {
			return s.SetIncludeResolved(ctx, *c.IncludeResolved)
		}
		return s.Load(ctx)

	case CmdFilter:
		cat, ok := ParseCategory(c.Category)
		if !ok {
			return errorMsg("invalid_category")
		}
		return s.SetFilter(Filter{Category: cat, Region: c.Region})

	case CmdSelect:
		if c.ID == "" || (c.Kind != KindMissing && c.Kind != KindStray) {
			return errorMsg("invalid_selection")
		}
		return s.Select(ctx, c.Kind, c.ID)

	case CmdClearSelection:
		return s.ClearSelection()

	case CmdTracking:
		if c.On == nil {
			return errorMsg("on_required")
		}
		return s.SetTracking(*c.On)

	case CmdLocate:
		if c.Error != "" {
			return s.Locate(ctx, LocateResult{Failure: GeoFailure(c.Error)})
		}
		if c.Lat == nil || c.Lon == nil {
			return s.Locate(ctx, LocateResult{Failure: GeoPositionUnavailable})
		}
		return s.Locate(ctx, LocateResult{
			Coord:    &reports.Coord{Lat: *c.Lat, Lon: *c.Lon},
			Accuracy: c.Accuracy,
		})

	case CmdSound:
		if c.On == nil {
			return errorMsg("on_required")
		}
		s.SetSound(*c.On)
		return nil
	}
	return errorMsg("unknown_command")
}

func errorMsg(code string) []Message {
	return []Message{{Type: MsgError, Payload: map[string]string{"error": code}}}
}
