package validate

import "testing"

func TestPassword(t *testing.T) {
	cases := map[string]bool{
		"S3cure!pass": true,
		"short1!A":    true,
		"Sh0rt!":      false,
		"alllower1!":  false,
		"ALLUPPER1!":  false,
		"NoDigits!!":  false,
		"NoSymbol11":  false,
	}
	for in, want := range cases {
		if got := Password(in); got != want {
			t.Errorf("Password(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFields(t *testing.T) {
	if _, ok := Email("ana@crm.test"); !ok {
		t.Error("valid email rejected")
	}
	if _, ok := Email("ana@crm"); ok {
		t.Error("email without tld accepted")
	}
	if s, ok := ID("  p-water_20l "); !ok || s != "p-water_20l" {
		t.Errorf("ID trim: %q %v", s, ok)
	}
	if _, ok := ID("../etc"); ok {
		t.Error("path-like id accepted")
	}
	if _, ok := Name(""); ok {
		t.Error("empty name accepted")
	}
	if _, ok := Phone("+52 (555) 010-0100"); !ok {
		t.Error("phone rejected")
	}
	if _, ok := Phone("call me"); ok {
		t.Error("letters accepted as phone")
	}
	if Qty(0) || !Qty(1) || !Qty(MaxQty) || Qty(MaxQty+1) {
		t.Error("Qty bounds")
	}
}
