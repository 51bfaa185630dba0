package capacity

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		capacity int
		want     Level
	}{
		{name: "empty shop is green", total: 0, capacity: 10, want: LevelGreen},
		{name: "just under near threshold", total: 7, capacity: 10, want: LevelGreen},
		{name: "exactly 80 percent is yellow", total: 8, capacity: 10, want: LevelYellow},
		{name: "full shop is yellow not red", total: 50, capacity: 50, want: LevelYellow},
		{name: "one over capacity is red", total: 51, capacity: 50, want: LevelRed},
		{name: "well over capacity", total: 11, capacity: 10, want: LevelRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.total, tt.capacity); got != tt.want {
				t.Errorf("Classify(%d, %d) = %s, want %s", tt.total, tt.capacity, got, tt.want)
			}
		})
	}
}

func TestIsOverCapacity(t *testing.T) {
	if IsOverCapacity(10, 10) {
		t.Error("count equal to capacity must not be over")
	}
	if !IsOverCapacity(11, 10) {
		t.Error("count above capacity must be over")
	}
}

func TestUtilizationPercent(t *testing.T) {
	if got := UtilizationPercent(11, 10); got != 110 {
		t.Errorf("UtilizationPercent(11, 10) = %v, want 110", got)
	}
	if got := UtilizationPercent(50, 50); got != 100 {
		t.Errorf("UtilizationPercent(50, 50) = %v, want 100", got)
	}
	if got := UtilizationPercent(3, 0); got != 0 {
		t.Errorf("UtilizationPercent with zero capacity = %v, want 0", got)
	}
}

func TestOverload(t *testing.T) {
	if got := Overload(8, 10); got != 0 {
		t.Errorf("Overload(8, 10) = %d, want 0", got)
	}
	if got := Overload(13, 10); got != 3 {
		t.Errorf("Overload(13, 10) = %d, want 3", got)
	}
}

func TestForecastLabel(t *testing.T) {
	cases := map[Level]string{LevelRed: "over", LevelYellow: "near", LevelGreen: "good"}
	for level, want := range cases {
		if got := level.ForecastLabel(); got != want {
			t.Errorf("%s.ForecastLabel() = %q, want %q", level, got, want)
		}
	}
}
