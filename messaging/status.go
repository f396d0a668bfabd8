package messaging

import (
	"regexp"
	"strings"
)

// =============================================================================
// GENERATED STATUS TEXT
// =============================================================================

// StatusCategories are the structured observations a caregiver ticks
// off; the generator turns them into a short prose update for the
// relatives. All fields are optional.
type StatusCategories struct {
	Sleep      string   `json:"schlaf,omitempty"`      // gut | mittel | schlecht
	Eating     string   `json:"essen,omitempty"`       // gut | okay | wenig
	Activities []string `json:"aktivitaet,omitempty"`  // free-text activity names
	Mood       string   `json:"stimmung,omitempty"`    // fröhlich | ruhig | angespannt
	Note       string   `json:"note,omitempty"`
}

const maxNoteLen = 250

var spaceBeforeDot = regexp.MustCompile(`\s+\.`)

// GenerateStatus composes the daily update sentence for one resident.
// Empty categories collapse to a quiet-day fallback; the free-text note
// is truncated to keep messages short.
func GenerateStatus(name string, c StatusCategories) string {
	var parts []string
	if c.Eating != "" {
		parts = append(parts, name+" hat heute "+c.Eating+" gegessen")
	}
	if len(c.Activities) > 0 {
		parts = append(parts, "war bei "+strings.Join(c.Activities, " und ")+" dabei")
	}
	if c.Sleep != "" {
		parts = append(parts, "und hat "+c.Sleep+" geschlafen")
	}
	text := strings.Join(parts, " ")
	if c.Mood != "" {
		text += ". Die Stimmung war " + c.Mood + "."
	}
	if text == "" {
		text = name + " hatte heute einen ruhigen Tag."
	}
	if c.Note != "" {
		text += " Hinweis: " + sanitizeNote(c.Note)
	}
	return strings.TrimSpace(spaceBeforeDot.ReplaceAllString(text, "."))
}

func sanitizeNote(s string) string {
	r := []rune(s)
	if len(r) > maxNoteLen {
		return string(r[:maxNoteLen-3]) + "…"
	}
	return s
}
