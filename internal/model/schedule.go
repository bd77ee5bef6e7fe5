package model

import "time"

// ISOLayout is the offset-less timestamp layout Notion receives together with a named zone.
const ISOLayout = "2006-01-02T15:04:05"

// RawScheduleEntry is one row scraped from the portal schedule table.
type RawScheduleEntry struct {
	CourseName   string `json:"mata_kuliah"`
	Room         string `json:"ruangan"`
	ScheduleText string `json:"jadwal_string"` // e.g. "Senin, 14 Jul 2025 | 14:00 - 16:30"
}

// Title is the page title sent to Notion: the course name followed by the room when known.
func (e RawScheduleEntry) Title() string {
	if e.Room == "" {
		return e.CourseName
	}
	return e.CourseName + " - " + e.Room
}

// ParsedInterval is the normalized start/end pair of a schedule string.
type ParsedInterval struct {
	Start time.Time
	End   time.Time
}

func (p ParsedInterval) StartISO() string {
	return p.Start.Format(ISOLayout)
}

func (p ParsedInterval) EndISO() string {
	return p.End.Format(ISOLayout)
}

type SyncSuccess struct {
	CourseName string `json:"mata_kuliah"`
	ExternalID string `json:"notion_page_id"`
}

type SyncFailure struct {
	CourseName   string `json:"mata_kuliah"`
	ErrorMessage string `json:"error"`
}

// SyncResult is the report of one sync run. It is never persisted.
type SyncResult struct {
	RunID     string
	Succeeded []SyncSuccess
	Failed    []SyncFailure
}

func (r *SyncResult) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}
