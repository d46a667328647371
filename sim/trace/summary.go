package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalPromotions      int
	TotalDispatches      int
	TotalDemotions       int
	FinishedCount        int
	TimedOutCount        int
	MeanAdmissionWait    float64
	MaxAdmissionWait     int64
	DispatchDistribution map[int]int // level → count of dispatches
	DemotionDistribution map[int]int // source level → count of demotions
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchDistribution: make(map[int]int),
		DemotionDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalPromotions = len(st.Promotions)
	if len(st.Promotions) > 0 {
		var totalWait int64
		for _, p := range st.Promotions {
			totalWait += p.Waited
			if p.Waited > summary.MaxAdmissionWait {
				summary.MaxAdmissionWait = p.Waited
			}
		}
		summary.MeanAdmissionWait = float64(totalWait) / float64(len(st.Promotions))
	}

	summary.TotalDispatches = len(st.Dispatches)
	for _, d := range st.Dispatches {
		summary.DispatchDistribution[d.Level]++
	}

	summary.TotalDemotions = len(st.Demotions)
	for _, d := range st.Demotions {
		summary.DemotionDistribution[d.From]++
	}

	for _, c := range st.Completions {
		switch c.Status {
		case "TimedOut":
			summary.TimedOutCount++
		default:
			summary.FinishedCount++
		}
	}

	return summary
}
