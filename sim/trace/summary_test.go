package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalDispatches != 0 || summary.TotalPromotions != 0 {
		t.Error("expected zero counts for nil trace")
	}
	if summary.DispatchDistribution == nil {
		t.Error("expected non-nil dispatch distribution")
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalPromotions != 0 || summary.TotalDispatches != 0 || summary.TotalDemotions != 0 {
		t.Error("expected zero decision counts")
	}
	if summary.FinishedCount != 0 || summary.TimedOutCount != 0 {
		t.Error("expected zero completions")
	}
	if summary.MeanAdmissionWait != 0 || summary.MaxAdmissionWait != 0 {
		t.Error("expected zero admission wait")
	}
	if len(summary.DispatchDistribution) != 0 {
		t.Error("expected empty dispatch distribution")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with records of every kind
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordPromotion(PromotionRecord{TaskID: 1, Waited: 2})
	st.RecordPromotion(PromotionRecord{TaskID: 2, Waited: 6})
	st.RecordDispatch(DispatchRecord{TaskID: 1, Level: 1})
	st.RecordDispatch(DispatchRecord{TaskID: 2, Level: 1})
	st.RecordDispatch(DispatchRecord{TaskID: 1, Level: 2})
	st.RecordDemotion(DemotionRecord{TaskID: 1, From: 1, To: 2})
	st.RecordCompletion(CompletionRecord{TaskID: 1, Status: "Finished"})
	st.RecordCompletion(CompletionRecord{TaskID: 2, Status: "TimedOut"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts and distributions reflect the records
	if summary.TotalPromotions != 2 {
		t.Errorf("promotions: got %d, want 2", summary.TotalPromotions)
	}
	if summary.MeanAdmissionWait != 4 {
		t.Errorf("mean admission wait: got %v, want 4", summary.MeanAdmissionWait)
	}
	if summary.MaxAdmissionWait != 6 {
		t.Errorf("max admission wait: got %d, want 6", summary.MaxAdmissionWait)
	}
	if summary.TotalDispatches != 3 {
		t.Errorf("dispatches: got %d, want 3", summary.TotalDispatches)
	}
	if summary.DispatchDistribution[1] != 2 || summary.DispatchDistribution[2] != 1 {
		t.Errorf("dispatch distribution: got %v", summary.DispatchDistribution)
	}
	if summary.DemotionDistribution[1] != 1 {
		t.Errorf("demotion distribution: got %v", summary.DemotionDistribution)
	}
	if summary.FinishedCount != 1 || summary.TimedOutCount != 1 {
		t.Errorf("completions: finished=%d timedout=%d, want 1/1", summary.FinishedCount, summary.TimedOutCount)
	}
}
