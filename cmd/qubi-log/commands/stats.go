package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/qubi-robotics/qubi-go/pkg/log"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Modules           map[string]*ModuleStats
	BytesIn           int
	BytesOut          int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ModuleStats holds statistics for a single module ID seen in the capture.
type ModuleStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Actions   map[string]int
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Modules:           make(map[string]*ModuleStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Category == log.CategoryDatagram {
			if event.Direction == log.DirectionIn {
				stats.BytesIn += event.Size
			} else {
				stats.BytesOut += event.Size
			}
		}

		if event.ModuleID != "" {
			mod, ok := stats.Modules[event.ModuleID]
			if !ok {
				mod = &ModuleStats{
					FirstSeen: event.Timestamp,
					LastSeen:  event.Timestamp,
					Actions:   make(map[string]int),
				}
				stats.Modules[event.ModuleID] = mod
			}
			mod.Events++
			if event.Timestamp.After(mod.LastSeen) {
				mod.LastSeen = event.Timestamp
			}
			if event.Action != "" {
				mod.Actions[event.Action]++
			}
		}

		if event.Category == log.CategoryError {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Qubi Capture Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryDatagram, log.CategoryDispatch, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if stats.BytesIn > 0 || stats.BytesOut > 0 {
		fmt.Fprintf(w, "Traffic: %d bytes in, %d bytes out\n", stats.BytesIn, stats.BytesOut)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Modules: %d\n", len(stats.Modules))
	if len(stats.Modules) > 0 {
		type modInfo struct {
			id    string
			stats *ModuleStats
		}
		mods := make([]modInfo, 0, len(stats.Modules))
		for id, ms := range stats.Modules {
			mods = append(mods, modInfo{id, ms})
		}
		sort.Slice(mods, func(i, j int) bool {
			return mods[i].stats.FirstSeen.Before(mods[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, m := range mods {
			duration := m.stats.LastSeen.Sub(m.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", m.id, m.stats.Events, duration)
			if len(m.stats.Actions) > 0 {
				actions := make([]string, 0, len(m.stats.Actions))
				for a := range m.stats.Actions {
					actions = append(actions, a)
				}
				sort.Strings(actions)
				for _, a := range actions {
					fmt.Fprintf(w, "           %s: %d\n", a, m.stats.Actions[a])
				}
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
