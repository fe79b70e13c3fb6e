package waveform

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		w       Waveform
		wantErr error
	}{
		{"valid", Waveform{SampleRate: 40, Samples: []float64{1}}, nil},
		{"zero sample rate", Waveform{Samples: []float64{1}}, ErrInvalidSampleRate},
		{"negative sample rate", Waveform{SampleRate: -1, Samples: []float64{1}}, ErrInvalidSampleRate},
		{"NaN sample rate", Waveform{SampleRate: math.NaN(), Samples: []float64{1}}, ErrInvalidSampleRate},
		{"infinite sample rate", Waveform{SampleRate: math.Inf(1), Samples: []float64{1}}, ErrInvalidSampleRate},
		{"no samples", Waveform{SampleRate: 40}, ErrEmptyWaveform},
		{"NaN sample", Waveform{SampleRate: 40, Samples: []float64{1, math.NaN()}}, ErrNonFiniteSample},
		{"infinite sample", Waveform{SampleRate: 40, Samples: []float64{math.Inf(-1), 1}}, ErrNonFiniteSample},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.w.Validate()
			if tc.wantErr == nil && err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTimeConversions(t *testing.T) {
	w := Waveform{StartTime: 1000, SampleRate: 20, Samples: make([]float64, 41)}

	if got := w.Duration(); got != 2 {
		t.Errorf("Duration() = %v, want 2", got)
	}
	if got := w.EndTime(); got != 1002 {
		t.Errorf("EndTime() = %v, want 1002", got)
	}
	if got := w.TimeAt(10); got != 1000.5 {
		t.Errorf("TimeAt(10) = %v, want 1000.5", got)
	}

	indexCases := []struct {
		time float64
		want int
	}{
		{1000, 0},
		{1000.5, 10},
		{1000.52, 10},
		{1000.53, 11},
		{999, -20},
		{1003, 60},
	}
	for _, tc := range indexCases {
		if got := w.IndexAt(tc.time); got != tc.want {
			t.Errorf("IndexAt(%v) = %d, want %d", tc.time, got, tc.want)
		}
	}
}

func TestDuration_Empty(t *testing.T) {
	w := Waveform{SampleRate: 20}
	if got := w.Duration(); got != 0 {
		t.Errorf("Duration() = %v, want 0", got)
	}
}

func TestStats(t *testing.T) {
	w := Waveform{Samples: []float64{2, -4, 6, 0}}
	got := w.Stats()
	if got.Min != -4 || got.Max != 6 || got.Mean != 1 {
		t.Errorf("Stats() = %+v, want {Min:-4 Max:6 Mean:1}", got)
	}

	empty := Waveform{}
	if got := empty.Stats(); got != (Stats{}) {
		t.Errorf("Stats() on empty = %+v, want zero", got)
	}
}

func TestRemoveMean(t *testing.T) {
	w := Waveform{Samples: []float64{3, 5, 7}}
	w.RemoveMean()

	want := []float64{-2, 0, 2}
	for i := range want {
		if w.Samples[i] != want[i] {
			t.Errorf("Samples[%d] = %v, want %v", i, w.Samples[i], want[i])
		}
	}

	empty := Waveform{}
	empty.RemoveMean()
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "wave.yaml", `channel: ASAR.AS01.SHZ
start_time: 1700000000
sample_rate: 40
samples: [0, 1.5, -2, 3]
`)

	w, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if w.Channel != "ASAR.AS01.SHZ" {
		t.Errorf("Channel = %q, want ASAR.AS01.SHZ", w.Channel)
	}
	if w.StartTime != 1700000000 {
		t.Errorf("StartTime = %v, want 1700000000", w.StartTime)
	}
	if w.SampleRate != 40 {
		t.Errorf("SampleRate = %v, want 40", w.SampleRate)
	}
	if len(w.Samples) != 4 || w.Samples[2] != -2 {
		t.Errorf("Samples = %v, want [0 1.5 -2 3]", w.Samples)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "wave.json", `{"channel": "ZZ", "start_time": 10, "sample_rate": 100, "samples": [1, 2, 3]}`)

	w, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if w.Channel != "ZZ" || len(w.Samples) != 3 {
		t.Errorf("Load() = %+v, want channel ZZ with 3 samples", w)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Load() expected error for missing file")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "samples: [1, 2\n")
		if _, err := Load(path); err == nil {
			t.Error("Load() expected parse error")
		}
	})

	t.Run("no samples", func(t *testing.T) {
		path := writeFile(t, "empty.yaml", "sample_rate: 40\n")
		if _, err := Load(path); !errors.Is(err, ErrEmptyWaveform) {
			t.Errorf("Load() error = %v, want ErrEmptyWaveform", err)
		}
	})

	t.Run("non-finite samples", func(t *testing.T) {
		for name, samples := range map[string]string{"nan.yaml": "[1, .nan, 2]", "inf.yaml": "[.inf, 1]"} {
			path := writeFile(t, name, "sample_rate: 40\nsamples: "+samples+"\n")
			if _, err := Load(path); !errors.Is(err, ErrNonFiniteSample) {
				t.Errorf("Load(%s) error = %v, want ErrNonFiniteSample", name, err)
			}
		}
	})

	t.Run("no sample rate", func(t *testing.T) {
		path := writeFile(t, "norate.yaml", "samples: [1]\n")
		if _, err := Load(path); !errors.Is(err, ErrInvalidSampleRate) {
			t.Errorf("Load() error = %v, want ErrInvalidSampleRate", err)
		}
	})
}

func TestFromFloat32(t *testing.T) {
	w := FromFloat32("mic", 5, 8000, []float32{0.5, -0.25})
	if w.Channel != "mic" || w.StartTime != 5 || w.SampleRate != 8000 {
		t.Errorf("FromFloat32() = %+v", w)
	}
	if len(w.Samples) != 2 || w.Samples[0] != 0.5 || w.Samples[1] != -0.25 {
		t.Errorf("Samples = %v, want [0.5 -0.25]", w.Samples)
	}
}
