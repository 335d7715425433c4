package model

import (
	"strings"
	"time"
)

type Color string

const (
	ColorDefault  Color = "default"
	ColorWork     Color = "work"
	ColorPersonal Color = "personal"
	ColorOther    Color = "other"
)

// Colors lists the categories in the order the form cycles through them.
var Colors = []Color{ColorDefault, ColorWork, ColorPersonal, ColorOther}

func ParseColor(value string) Color {
	normalized := Color(strings.TrimSpace(strings.ToLower(value)))
	for _, color := range Colors {
		if color == normalized {
			return color
		}
	}
	return ColorDefault
}

type Event struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title" validate:"notblank"`
	Description string `json:"description" yaml:"description,omitempty"`
	Date        string `json:"date" yaml:"date" validate:"datetime=2006-01-02"`
	StartTime   string `json:"startTime" yaml:"startTime" validate:"notblank,len=5,datetime=15:04"`
	EndTime     string `json:"endTime" yaml:"endTime" validate:"notblank,len=5,datetime=15:04"`
	Color       Color  `json:"color" yaml:"color"`
}

type HistoryEntry struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
