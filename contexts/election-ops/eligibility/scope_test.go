package eligibility

import "testing"

func TestMatches(t *testing.T) {
	cases := []struct {
		name        string
		scope       Scope
		targetState string
		targetLGA   string
		actor       Location
		want        bool
	}{
		{"global matches anyone", ScopeGlobal, "", "", Location{}, true},
		{"national matches anyone", ScopeNational, "", "", Location{}, true},
		{"state exact match", ScopeState, "Lagos", "", Location{State: "Lagos"}, true},
		{"state case and whitespace insensitive", ScopeState, " lagos ", "", Location{State: "LAGOS"}, true},
		{"state mismatch", ScopeState, "Lagos", "", Location{State: "Kano"}, false},
		{"state missing actor state", ScopeState, "Lagos", "", Location{}, false},
		{"state permissive fallback", ScopeState, "", "", Location{State: "Oyo"}, true},
		{"state fallback needs actor state", ScopeState, "", "", Location{}, false},
		{"local full match", ScopeLocal, "Lagos", "Ikeja", Location{State: "Lagos", LGA: "Ikeja"}, true},
		{"local lga mismatch", ScopeLocal, "Lagos", "Ikeja", Location{State: "Lagos", LGA: "Epe"}, false},
		{"local state mismatch", ScopeLocal, "Lagos", "Ikeja", Location{State: "Kano", LGA: "Ikeja"}, false},
		{"local missing actor lga", ScopeLocal, "Lagos", "Ikeja", Location{State: "Lagos"}, false},
		{"local permissive lga fallback", ScopeLocal, "Lagos", "", Location{State: "Lagos", LGA: "Surulere"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Matches(tc.scope, tc.targetState, tc.targetLGA, tc.actor)
			if got != tc.want {
				t.Fatalf("Matches(%s, %q, %q, %+v) = %v, want %v",
					tc.scope, tc.targetState, tc.targetLGA, tc.actor, got, tc.want)
			}
		})
	}
}
