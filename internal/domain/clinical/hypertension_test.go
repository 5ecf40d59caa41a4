package clinical

import "testing"

func intPtr(v int) *int { return &v }

func TestComputeHTNStage(t *testing.T) {
	tests := []struct {
		name      string
		systolic  *int
		diastolic *int
		want      HTNStage
		wantOK    bool
	}{
		{"normal", intPtr(118), intPtr(76), HTNNormal, true},
		{"elevated", intPtr(125), intPtr(79), HTNElevated, true},
		{"stage 1 by systolic", intPtr(135), intPtr(78), HTNStage1, true},
		{"stage 1 by diastolic", intPtr(129), intPtr(85), HTNStage1, true},
		{"stage 1 low systolic high diastolic", intPtr(110), intPtr(82), HTNStage1, true},
		{"stage 2 by systolic", intPtr(145), intPtr(70), HTNStage2, true},
		{"stage 2 by diastolic", intPtr(118), intPtr(95), HTNStage2, true},
		{"stage 1 wins over stage 2 diastolic", intPtr(135), intPtr(92), HTNStage1, true},
		{"missing systolic", nil, intPtr(80), "", false},
		{"missing diastolic", intPtr(120), nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeHTNStage(tt.systolic, tt.diastolic)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ComputeHTNStage = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestComputeHTNStage_Exhaustive(t *testing.T) {
	valid := map[HTNStage]bool{HTNNormal: true, HTNElevated: true, HTNStage1: true, HTNStage2: true}
	for s := 50; s <= 250; s++ {
		for d := 30; d <= 150; d++ {
			got, ok := ComputeHTNStage(intPtr(s), intPtr(d))
			if !ok || !valid[got] {
				t.Fatalf("ComputeHTNStage(%d, %d) = (%q, %v), want a stage", s, d, got, ok)
			}
			if got == HTNStage2 && s < 140 && d < 90 {
				t.Fatalf("ComputeHTNStage(%d, %d) = stage 2 below both thresholds", s, d)
			}
		}
	}
}
