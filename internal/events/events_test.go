package events

import "testing"

func TestCollectorKeepsOrder(t *testing.T) {
	var sink Collector
	Infof(&sink, "first %d", 1)
	Warningf(&sink, "second")
	Errorf(&sink, "third")

	got := sink.Events()
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].Message != "first 1" || got[0].Severity != Info {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	if got[1].Severity != Warning || got[2].Severity != Error {
		t.Fatalf("unexpected severities: %+v", got)
	}
}

func TestEmitToleratesNilSink(t *testing.T) {
	Emit(nil, Info, "dropped")
}

func TestSeverityString(t *testing.T) {
	testCases := []struct {
		severity Severity
		expected string
	}{
		{Info, "info"},
		{Warning, "warning"},
		{Error, "error"},
	}
	for _, tc := range testCases {
		if got := tc.severity.String(); got != tc.expected {
			t.Errorf("Severity(%d).String() = %q, expected %q", tc.severity, got, tc.expected)
		}
	}
}
