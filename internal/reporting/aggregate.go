package reporting

import (
	"sort"
	"time"
)

type monthKey struct {
	year  int
	month time.Month
}

// windowStart is the first instant of the oldest of the last n calendar months, current month included.
func windowStart(now time.Time, n int) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m-time.Month(n-1), 1, 0, 0, 0, 0, now.Location())
}

func monthEnd(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location())
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func keyOf(t time.Time, loc *time.Location) monthKey {
	y, m, _ := t.In(loc).Date()
	return monthKey{year: y, month: m}
}

func sortedKeys[V any](buckets map[monthKey]V) []monthKey {
	keys := make([]monthKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year > keys[j].year
		}
		return keys[i].month > keys[j].month
	})
	return keys
}

// MonthlySessions buckets sessions by calendar month of scheduled_at, newest first.
// Only months with at least one session appear.
func MonthlySessions(rows []SessionRow, now time.Time, months int) []MonthlySessionStat {
	from, to := windowStart(now, months), monthEnd(now)

	buckets := make(map[monthKey]*MonthlySessionStat)
	for _, row := range rows {
		if !inWindow(row.ScheduledAt, from, to) {
			continue
		}
		k := keyOf(row.ScheduledAt, now.Location())
		stat, ok := buckets[k]
		if !ok {
			stat = &MonthlySessionStat{Year: k.year, Month: int(k.month)}
			buckets[k] = stat
		}
		stat.Total++
		if row.Status == "completed" {
			stat.Completed++
		}
	}

	out := make([]MonthlySessionStat, 0, len(buckets))
	for _, k := range sortedKeys(buckets) {
		out = append(out, *buckets[k])
	}
	return out
}

// MonthlyRevenue sums amounts paid for subscriptions purchased in each month, newest first.
func MonthlyRevenue(rows []RevenueRow, now time.Time, months int) []MonthlyRevenueStat {
	from, to := windowStart(now, months), monthEnd(now)

	buckets := make(map[monthKey]int64)
	for _, row := range rows {
		if !inWindow(row.CreatedAt, from, to) {
			continue
		}
		buckets[keyOf(row.CreatedAt, now.Location())] += row.AmountPaidCents
	}

	out := make([]MonthlyRevenueStat, 0, len(buckets))
	for _, k := range sortedKeys(buckets) {
		out = append(out, MonthlyRevenueStat{Year: k.year, Month: int(k.month), RevenueCents: buckets[k]})
	}
	return out
}

func CompletedThisMonth(rows []SessionRow, now time.Time) int {
	from, to := windowStart(now, 1), monthEnd(now)

	n := 0
	for _, row := range rows {
		if row.Status == "completed" && inWindow(row.ScheduledAt, from, to) {
			n++
		}
	}
	return n
}
