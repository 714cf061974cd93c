package expreval

import "testing"

func TestReadArithmetic(t *testing.T) {
	ev, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		expr string
		want float64
	}{
		{"2**2*(2+1)", 12},
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"10%3", 1},
		{"-1.75u", -1.75e-6},
		{"1.5K", 1500},
		{"1MEG", 1e6},
		{"1M", 1e-3},
	}

	for _, c := range cases {
		v, err := ev.Read(c.expr, nil, nil)
		if err != nil {
			t.Fatalf("Read(%q): %v", c.expr, err)
		}
		if !v.CanConvertToFloat() {
			t.Fatalf("Read(%q): not numeric: %+v", c.expr, v)
		}
		if got := v.ToFloat(); got != c.want {
			t.Errorf("Read(%q) = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestReadFunctions(t *testing.T) {
	ev, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	v, err := ev.Read("ternery_fcn(1==2,2,3)", nil, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v.ToFloat() != 3 {
		t.Errorf("ternery_fcn(1==2,2,3) = %v, want 3", v.ToFloat())
	}

	outer := Vars{"A": NumberValue(17.5), "B": NumberValue(42)}
	v, err = ev.Read("max(a,b)", nil, outer)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v.ToFloat() != 42 {
		t.Errorf("max(a,b) = %v, want 42", v.ToFloat())
	}
}

func TestInnerShadowsOuter(t *testing.T) {
	ev, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inner := Vars{"L": NumberValue(0.25)}
	outer := Vars{"L": NumberValue(0.15)}

	v, err := ev.Read("L", inner, outer)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v.ToFloat() != 0.25 {
		t.Errorf("L = %v, want 0.25 (inner scope)", v.ToFloat())
	}
}

func TestTryReadInvalid(t *testing.T) {
	ev, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := ev.TryRead("1 +", nil, nil); ok {
		t.Errorf("TryRead(%q) should fail", "1 +")
	}
	if _, err := ev.Read("1 +", nil, nil); err == nil {
		t.Errorf("Read(%q) should return an error", "1 +")
	}
}

func TestNintBankersRounding(t *testing.T) {
	ev, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v, err := ev.Read("nint(2.5)", nil, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v.ToFloat() != 2 {
		t.Errorf("nint(2.5) = %v, want 2 (round half to even)", v.ToFloat())
	}
	v, err = ev.Read("nint(3.5)", nil, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v.ToFloat() != 4 {
		t.Errorf("nint(3.5) = %v, want 4 (round half to even)", v.ToFloat())
	}
}
