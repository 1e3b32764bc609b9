package state

import (
	"reflect"
	"testing"

	"github.com/five82/tdulog/internal/logline"
)

func TestStore_AppendPreservesOrderAndDuplicates(t *testing.T) {
	s := NewStore(false)

	lines := []string{
		"1 (Debug) [A] x",
		"1 (Debug) [A] x",
		"garbage text",
		"2 (Error) [B] y",
	}
	for _, line := range lines {
		s.Append(logline.Parse(line))
	}

	got := s.Records()
	if len(got) != len(lines) {
		t.Fatalf("len(Records) = %d, want %d", len(got), len(lines))
	}
	for i, rec := range got {
		if rec.String() != lines[i] {
			t.Fatalf("Records[%d] = %q, want %q", i, rec.String(), lines[i])
		}
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(s.Subsystems(), want) {
		t.Fatalf("Subsystems = %v, want %v", s.Subsystems(), want)
	}
}

func TestStore_ClearThenSnapshotIsEmpty(t *testing.T) {
	for _, n := range []int{0, 1, 100} {
		s := NewStore(true)
		for i := 0; i < n; i++ {
			s.Append(logline.Parse("1 (Info) [Net] tick"))
		}
		before := s.Epoch()
		s.Clear()

		snap := s.Snapshot()
		if len(snap.Records) != 0 {
			t.Fatalf("n=%d: Snapshot has %d records after Clear, want 0", n, len(snap.Records))
		}
		if snap.Epoch != before+1 {
			t.Fatalf("n=%d: Epoch = %d, want %d", n, snap.Epoch, before+1)
		}
	}
}

func TestStore_ClearKeepsSubsystemsResetDropsThem(t *testing.T) {
	s := NewStore(false)
	s.Append(logline.Parse("1 (Info) [Net] up"))

	s.Clear()
	if got := s.Subsystems(); !reflect.DeepEqual(got, []string{"Net"}) {
		t.Fatalf("Subsystems after Clear = %v, want [Net]", got)
	}

	s.Append(logline.Parse("2 (Info) [Drive] go"))
	s.Reset()
	if got := s.Subsystems(); got != nil {
		t.Fatalf("Subsystems after Reset = %v, want nil", got)
	}
	if s.Len() != 0 {
		t.Fatalf("Len after Reset = %d, want 0", s.Len())
	}
}

func TestStore_SnapshotUnaffectedByLaterWrites(t *testing.T) {
	s := NewStore(false)
	s.Append(logline.Parse("1 (Info) [A] one"))
	s.Append(logline.Parse("2 (Info) [A] two"))

	snap := s.Snapshot()

	s.Append(logline.Parse("3 (Info) [A] three"))
	if len(snap.Records) != 2 {
		t.Fatalf("snapshot grew to %d records", len(snap.Records))
	}

	s.Clear()
	s.Append(logline.Parse("4 (Info) [A] four"))
	if snap.Records[0].Body != "one" || snap.Records[1].Body != "two" {
		t.Fatalf("snapshot changed after Clear: %v", snap.Records)
	}
}

func TestStore_AppendReportsNewSubsystem(t *testing.T) {
	s := NewStore(false)
	if !s.Append(logline.Parse("1 (Info) [Net] a")) {
		t.Fatal("first Net record should report a new subsystem")
	}
	if s.Append(logline.Parse("2 (Info) [Net] b")) {
		t.Fatal("second Net record should not report a new subsystem")
	}
	if s.Append(logline.Parse("not structured")) {
		t.Fatal("passthrough record should not report a new subsystem")
	}
}

func TestStore_Autoscroll(t *testing.T) {
	s := NewStore(true)

	if s.ConsumeScroll() {
		t.Fatal("ConsumeScroll = true before any append")
	}
	s.Append(logline.Parse("1 (Info) [A] x"))
	s.Append(logline.Parse("2 (Info) [A] y"))
	if !s.ConsumeScroll() {
		t.Fatal("ConsumeScroll = false after append with autoscroll on")
	}
	if s.ConsumeScroll() {
		t.Fatal("ConsumeScroll should clear the request")
	}

	s.SetAutoscroll(false)
	s.Append(logline.Parse("3 (Info) [A] z"))
	if s.ConsumeScroll() {
		t.Fatal("ConsumeScroll = true with autoscroll off")
	}

	s.SetAutoscroll(true)
	s.Append(logline.Parse("4 (Info) [A] w"))
	s.SetAutoscroll(false)
	if s.ConsumeScroll() {
		t.Fatal("disabling autoscroll should drop the pending request")
	}
	if s.Snapshot().Autoscroll {
		t.Fatal("Snapshot.Autoscroll = true, want false")
	}
}

func TestRegistry_ObserveIsIdempotentAndOrdered(t *testing.T) {
	var r Registry

	for _, name := range []string{"Net", "Drive", "Net", "", "Arm", "Drive"} {
		r.Observe(name)
	}
	if want := []string{"Net", "Drive", "Arm"}; !reflect.DeepEqual(r.List(), want) {
		t.Fatalf("List = %v, want %v", r.List(), want)
	}
	if !r.Contains("Arm") || r.Contains("Vision") {
		t.Fatalf("Contains mismatch for %v", r.List())
	}

	list := r.List()
	list[0] = "mutated"
	if r.List()[0] != "Net" {
		t.Fatal("List should return a copy")
	}

	r.Reset()
	if r.Len() != 0 || r.List() != nil {
		t.Fatalf("after Reset: Len=%d List=%v", r.Len(), r.List())
	}
	if !r.Observe("Net") {
		t.Fatal("Observe after Reset should report a new subsystem")
	}
}
