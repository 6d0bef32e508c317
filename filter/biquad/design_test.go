package biquad

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-emg/emg"
)

const tol = 1e-9

func mag(c Coefficients, freq, sr float64) float64 {
	return cmplx.Abs(c.Response(freq, sr))
}

func TestDesigners_BasicResponseShape(t *testing.T) {
	sr := 2000.0
	f := 100.0
	q := 1 / math.Sqrt2

	lp, err := Lowpass(f, q, sr)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}
	if !(mag(lp, 10, sr) > mag(lp, 800, sr)) {
		t.Fatal("lowpass shape check failed")
	}

	hp, err := Highpass(f, q, sr)
	if err != nil {
		t.Fatalf("Highpass: %v", err)
	}
	if !(mag(hp, 800, sr) > mag(hp, 10, sr)) {
		t.Fatal("highpass shape check failed")
	}

	n, err := Notch(f, q, sr)
	if err != nil {
		t.Fatalf("Notch: %v", err)
	}
	if !(mag(n, f, sr) < mag(n, 10, sr) && mag(n, f, sr) < mag(n, 800, sr)) {
		t.Fatal("notch shape check failed")
	}
}

func TestNotch_DeepAtCenterNarrowSkirt(t *testing.T) {
	sr := 2000.0
	c, err := Notch(60, 5, sr)
	if err != nil {
		t.Fatalf("Notch: %v", err)
	}

	if m := cmplx.Abs(c.Response(60, sr)); m > 1e-6 {
		t.Fatalf("magnitude at center = %v, want ~0", m)
	}
	// One octave away the notch should be nearly transparent.
	if m := cmplx.Abs(c.Response(120, sr)); m < 0.95 {
		t.Fatalf("magnitude at 120 Hz = %v, want > 0.95", m)
	}
	if m := cmplx.Abs(c.Response(30, sr)); m < 0.95 {
		t.Fatalf("magnitude at 30 Hz = %v, want > 0.95", m)
	}
}

func TestDesigners_ValidateAcrossSampleRates(t *testing.T) {
	designs := []struct {
		name string
		fn   func(freq, q, sampleRate float64) (Coefficients, error)
		q    float64
	}{
		{"lowpass", Lowpass, 0.707},
		{"highpass", Highpass, 0.707},
		{"notch", Notch, 1.2},
	}
	for _, sr := range []float64{1000, 2000, 4000, 10000} {
		for _, d := range designs {
			c, err := d.fn(100, d.q, sr)
			if err != nil {
				t.Fatalf("%s at sr=%v: %v", d.name, sr, err)
			}
			assertFiniteCoefficients(t, c)
			assertStableSection(t, c)
		}
	}
}

func TestButterworthLP_OrderAndShape(t *testing.T) {
	sr := 2000.0
	coeffs, err := ButterworthLP(450, 5, sr)
	if err != nil {
		t.Fatalf("ButterworthLP: %v", err)
	}
	if len(coeffs) != 3 {
		t.Fatalf("len=%d, want 3", len(coeffs))
	}
	if coeffs[len(coeffs)-1].A2 != 0 || coeffs[len(coeffs)-1].B2 != 0 {
		t.Fatalf("expected final first-order section, got %#v", coeffs[len(coeffs)-1])
	}
	for _, c := range coeffs {
		assertStableSection(t, c)
	}
	chain := NewChain(coeffs)
	if !(magChain(chain, 50, sr) > magChain(chain, 900, sr)) {
		t.Fatal("ButterworthLP response shape check failed")
	}
}

func TestButterworthHP_OrderAndShape(t *testing.T) {
	sr := 2000.0
	coeffs, err := ButterworthHP(20, 5, sr)
	if err != nil {
		t.Fatalf("ButterworthHP: %v", err)
	}
	if len(coeffs) != 3 {
		t.Fatalf("len=%d, want 3", len(coeffs))
	}
	if coeffs[len(coeffs)-1].A2 != 0 || coeffs[len(coeffs)-1].B2 != 0 {
		t.Fatalf("expected final first-order section, got %#v", coeffs[len(coeffs)-1])
	}
	for _, c := range coeffs {
		assertStableSection(t, c)
	}
	chain := NewChain(coeffs)
	if !(magChain(chain, 200, sr) > magChain(chain, 5, sr)) {
		t.Fatal("ButterworthHP response shape check failed")
	}
}

func TestButterworthBand_PassbandAndStopbands(t *testing.T) {
	sr := 2000.0
	coeffs, err := ButterworthBand(20, 450, 4, sr)
	if err != nil {
		t.Fatalf("ButterworthBand: %v", err)
	}
	chain := NewChain(coeffs)

	mid := magChain(chain, 150, sr)
	if mid < 0.9 {
		t.Fatalf("passband magnitude at 150 Hz = %v, want > 0.9", mid)
	}
	if lo := magChain(chain, 2, sr); lo > 0.1 {
		t.Fatalf("stopband magnitude at 2 Hz = %v, want < 0.1", lo)
	}
	if hi := magChain(chain, 900, sr); hi > 0.1 {
		t.Fatalf("stopband magnitude at 900 Hz = %v, want < 0.1", hi)
	}
}

func TestDesigners_InvalidInputs(t *testing.T) {
	sr := 2000.0
	var perr *emg.ParameterError

	cases := []struct {
		name string
		err  error
	}{
		{"zero rate", errOnly(Notch(60, 5, 0))},
		{"zero freq", errOnly(Notch(0, 5, sr))},
		{"freq at nyquist", errOnly(Notch(1000, 5, sr))},
		{"negative q", errOnly(Notch(60, -1, sr))},
		{"zero q lowpass", errOnly(Lowpass(100, 0, sr))},
		{"nan freq", errOnly(Highpass(math.NaN(), 0.707, sr))},
	}
	for _, tc := range cases {
		if tc.err == nil {
			t.Errorf("%s: want error, got nil", tc.name)
			continue
		}
		if !errors.As(tc.err, &perr) {
			t.Errorf("%s: error %v is not a ParameterError", tc.name, tc.err)
		}
	}

	if _, err := ButterworthLP(100, 0, sr); !errors.As(err, &perr) {
		t.Errorf("order 0: want ParameterError, got %v", err)
	}
	if _, err := ButterworthBand(450, 20, 4, sr); !errors.As(err, &perr) {
		t.Errorf("inverted band: want ParameterError, got %v", err)
	}
}

func errOnly(_ Coefficients, err error) error { return err }

func TestButterworthQ_KnownValues(t *testing.T) {
	// Order-2 Butterworth has a single section at Q = 1/sqrt(2).
	if got := butterworthQ(2, 0); !almostEqual(got, 1/math.Sqrt2, 1e-12) {
		t.Fatalf("butterworthQ(2,0)=%v, want %v", got, 1/math.Sqrt2)
	}
	// Order-4 sections: Q = 0.5412, 1.3066 (standard tables).
	if got := butterworthQ(4, 1); !almostEqual(got, 0.54119610014619698, 1e-12) {
		t.Fatalf("butterworthQ(4,1)=%v", got)
	}
	if got := butterworthQ(4, 0); !almostEqual(got, 1.30656296487637652, 1e-12) {
		t.Fatalf("butterworthQ(4,0)=%v", got)
	}
}

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	sr := 2000.0
	c, err := Notch(60, 5, sr)
	if err != nil {
		t.Fatalf("Notch: %v", err)
	}
	for _, f := range []float64{10, 30, 59, 60, 61, 120, 500} {
		want := cmplx.Abs(c.Response(f, sr))
		got := math.Sqrt(c.MagnitudeSquared(f, sr))
		if !almostEqual(got, want, 1e-9) {
			t.Errorf("f=%v: closed form %v, response %v", f, got, want)
		}
	}
}

func magChain(c *Chain, freq, sr float64) float64 {
	return cmplx.Abs(c.Response(freq, sr))
}

func assertFiniteCoefficients(t *testing.T, c Coefficients) {
	t.Helper()
	v := []float64{c.B0, c.B1, c.B2, c.A1, c.A2}
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			t.Fatalf("invalid coefficient[%d]=%v", i, v[i])
		}
	}
}

func assertStableSection(t *testing.T, c Coefficients) {
	t.Helper()
	r1, r2 := sectionRoots(c)
	if cmplx.Abs(r1) >= 1+tol || cmplx.Abs(r2) >= 1+tol {
		t.Fatalf("unstable poles: |r1|=%v |r2|=%v coeff=%#v", cmplx.Abs(r1), cmplx.Abs(r2), c)
	}
}

func sectionRoots(c Coefficients) (complex128, complex128) {
	disc := complex(c.A1*c.A1-4*c.A2, 0)
	sqrtDisc := cmplx.Sqrt(disc)
	r1 := (-complex(c.A1, 0) + sqrtDisc) / 2
	r2 := (-complex(c.A1, 0) - sqrtDisc) / 2
	return r1, r2
}
