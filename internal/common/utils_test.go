package common

import "testing"

func TestHasAny(t *testing.T) {
	if !HasAny("Heavy Rain Shower", "rain") {
		t.Error("expected case-insensitive match on rain")
	}
	if !HasAny("overcast", "cloud", "overcast") {
		t.Error("expected match on any substring")
	}
	if HasAny("sunny", "rain", "snow") {
		t.Error("unexpected match")
	}
	if HasAny("anything") {
		t.Error("no substrings should never match")
	}
}
