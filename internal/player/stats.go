package player

// Stats holds the timing summary shown on the results screen and submitted
// to the server. All values are whole seconds.
type Stats struct {
	TotalTime   int
	AvgTime     int
	FastestTime int
	SlowestTime int
}

// ComputeStats derives average, fastest and slowest from the per-question
// solve times. An empty attempt yields zeroes rather than dividing by zero.
func ComputeStats(solveTimes []int, totalTime int) Stats {
	stats := Stats{TotalTime: totalTime}
	if len(solveTimes) == 0 {
		return stats
	}

	sum := 0
	fastest := solveTimes[0]
	slowest := solveTimes[0]
	for _, t := range solveTimes {
		sum += t
		if t < fastest {
			fastest = t
		}
		if t > slowest {
			slowest = t
		}
	}

	stats.AvgTime = sum / len(solveTimes)
	stats.FastestTime = fastest
	stats.SlowestTime = slowest
	return stats
}
