package pkg

import "time"

// StartOfToday returns UTC midnight of the current day.
func StartOfToday(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the most recent Sunday 00:00 UTC. Votes and prize pools
// aggregate over Sunday-aligned weeks.
func StartOfWeek(now time.Time) time.Time {
	today := StartOfToday(now)
	return today.AddDate(0, 0, -int(today.Weekday()))
}

// EndOfWeek returns the exclusive upper bound of the week containing now.
func EndOfWeek(now time.Time) time.Time {
	return StartOfWeek(now).AddDate(0, 0, 7)
}

// ChunkStrings splits items into batches of at most size. Twitch Helix caps
// batched lookups at 100 identifiers per call.
func ChunkStrings(items []string, size int) [][]string {
	if size <= 0 || len(items) == 0 {
		return nil
	}

	var chunks [][]string
	for size < len(items) {
		chunks = append(chunks, items[:size])
		items = items[size:]
	}

	return append(chunks, items)
}
