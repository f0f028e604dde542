package spectrum

import "strings"

// NoteValue returns the value of the first "key=value" line in note whose
// key matches. Lines with zero or several '=' are ignored.
func NoteValue(note, key string) (string, bool) {
	for _, line := range strings.Split(note, "\n") {
		parts := strings.Split(strings.TrimRight(line, "\r"), "=")
		if len(parts) == 2 && parts[0] == key {
			return parts[1], true
		}
	}
	return "", false
}

// TagsFromNote extracts space mode and energy axis tags from note lines.
// Unknown values are treated as unset.
func TagsFromNote(note string) (SpaceMode, Axis) {
	mode, energy := SpaceNone, NoAxis
	if v, ok := NoteValue(note, KeySpaceMode); ok {
		if m, err := ParseSpaceMode(v); err == nil {
			mode = m
		}
	}
	if v, ok := NoteValue(note, KeyEnergyAxis); ok {
		if a, err := ParseAxis(v); err == nil {
			energy = a
		}
	}
	return mode, energy
}

// SyncNoteTags returns note with its spacemode and energyAxis lines replaced
// by the given tags. Unset tags leave the matching lines alone. Line breaks
// are normalized to LF.
func SyncNoteTags(note string, mode SpaceMode, energy Axis) string {
	note = strings.ReplaceAll(note, "\r\n", "\n")
	note = strings.ReplaceAll(note, "\r", "\n")

	var lines []string
	if note != "" {
		for _, line := range strings.Split(note, "\n") {
			key, _, _ := strings.Cut(line, "=")
			if (key == KeySpaceMode && mode != SpaceNone) || (key == KeyEnergyAxis && energy.Valid()) {
				continue
			}
			lines = append(lines, line)
		}
	}
	if mode != SpaceNone {
		lines = append(lines, KeySpaceMode+"="+mode.String())
	}
	if energy.Valid() {
		lines = append(lines, KeyEnergyAxis+"="+energy.String())
	}
	return strings.Join(lines, "\n")
}
