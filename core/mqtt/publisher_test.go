package mqtt

import "testing"

func TestPlanTopic(t *testing.T) {
	cases := map[string]string{
		"blendplan/plans":  "blendplan/plans/r1",
		"blendplan/plans/": "blendplan/plans/r1",
	}
	for prefix, want := range cases {
		if got := PlanTopic(prefix, "r1"); got != want {
			t.Fatalf("PlanTopic(%q) = %q, want %q", prefix, got, want)
		}
	}
}
