package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// scheduleDoc is the on-disk shape of a schedule file.
type scheduleDoc struct {
	WakeTime  string     `json:"wakeTime"`
	SleepTime string     `json:"sleepTime"`
	Events    []eventDoc `json:"events"`
}

type eventDoc struct {
	Time        string         `json:"time"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Payload     map[string]any `json:"payload"`
}

// DroppedEvent records an event the parser discarded and why.
type DroppedEvent struct {
	Time   string
	Type   string
	Reason string
}

// Parse decodes a schedule document. Parsing is recoverable by design: an
// unparsable document yields the default schedule, an event with a bad time
// or unknown type is dropped and reported, and the simulation proceeds with
// whatever survived.
func Parse(data []byte) (Schedule, []DroppedEvent) {
	var doc scheduleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Default(), []DroppedEvent{{Reason: fmt.Sprintf("unparsable document: %v", err)}}
	}

	s := Default()
	var dropped []DroppedEvent

	if m, err := ParseClock(doc.WakeTime); err == nil {
		s.WakeMinute = m
	}
	if m, err := ParseClock(doc.SleepTime); err == nil {
		s.SleepMinute = m
	}

	for _, e := range doc.Events {
		minute, err := ParseClock(e.Time)
		if err != nil {
			dropped = append(dropped, DroppedEvent{Time: e.Time, Type: e.Type, Reason: "unparsable time"})
			continue
		}

		event := Event{Minute: minute, Description: e.Description}
		switch EventKind(e.Type) {
		case EventMeal:
			event.Kind = EventMeal
			event.Meal = &MealPayload{
				GlucoseG: payloadNumber(e.Payload, "glucoseLoad"),
				ProteinG: payloadNumber(e.Payload, "proteinLoad"),
				FatG:     payloadNumber(e.Payload, "fatLoad"),
			}
		case EventExercise:
			event.Kind = EventExercise
			event.Exercise = &ExercisePayload{
				Intensity:       parseIntensity(payloadString(e.Payload, "intensity")),
				DurationMinutes: payloadNumber(e.Payload, "durationMinutes"),
			}
		case EventSupplement:
			event.Kind = EventSupplement
		case EventStressor:
			event.Kind = EventStressor
		default:
			dropped = append(dropped, DroppedEvent{Time: e.Time, Type: e.Type, Reason: "unknown event type"})
			continue
		}

		s.Events = append(s.Events, event)
	}

	return s, dropped
}

// LoadFile parses the schedule at path. A missing or unreadable file yields
// the default schedule, matching the recoverable-parse contract.
func LoadFile(path string) (Schedule, []DroppedEvent) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), []DroppedEvent{{Reason: fmt.Sprintf("reading schedule: %v", err)}}
	}
	return Parse(data)
}

// ParseClock converts an "HH:MM" clock string to minutes of day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}

func parseIntensity(s string) Intensity {
	switch Intensity(s) {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return Intensity(s)
	}
	return IntensityMedium
}

func payloadNumber(payload map[string]any, key string) float64 {
	if v, ok := payload[key].(float64); ok {
		return v
	}
	return 0
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
