package profile

import "testing"

func TestProfiler_StartWithoutMode(t *testing.T) {
	stop := Profiler{Path: t.TempDir()}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", stop)
	}

	stop.Stop()
}

func TestProfiler_StartUnknownMode(t *testing.T) {
	stop := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("Start() = %T, want no-op", stop)
	}

	stop.Stop()
}
