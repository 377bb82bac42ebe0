package rill

import (
	"errors"
	"slices"
	"testing"
)

func TestMapFilterScan(t *testing.T) {
	src := Of(1, 2, 3, 4, 5)
	doubled := Map(src, func(v int) int { return v * 2 })
	even := Filter(src, func(v int) bool { return v%2 == 0 })
	sums := Scan(src, 10, func(acc, v int) int { return acc + v })

	tests := []struct {
		name string
		s    Stream[int]
		want []int
	}{
		{"Map", doubled, []int{2, 4, 6, 8, 10}},
		{"Filter", even, []int{2, 4}},
		{"Scan", sums, []int{11, 13, 16, 20, 25}},
		{"MapTo", MapTo(src, 7), []int{7, 7, 7, 7, 7}},
		{"StartWith", StartWith(Of(3), 1, 2), []int{1, 2, 3}},
		{"Take", Take(src, 2), []int{1, 2}},
		{"TakeZero", Take(src, 0), nil},
		{"DropRepeats", DropRepeats(Of(1, 1, 2, 2, 2, 1, 3, 3)), []int{1, 2, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := observe(tt.s)
			if !slices.Equal(p.values, tt.want) {
				t.Errorf("values = %v, want %v", p.values, tt.want)
			}
			if !p.completed {
				t.Error("did not complete")
			}
		})
	}
}

func TestScanDoesNotEmitSeed(t *testing.T) {
	p, _ := observe(Scan(Empty[int](), 42, func(a, v int) int { return a + v }))
	if len(p.values) != 0 {
		t.Errorf("values = %v, want none", p.values)
	}
}

func TestTakeUnsubscribesSource(t *testing.T) {
	src := NewSubject[int]()
	p, _ := observe(Take(src.Stream(), 2))
	src.Next(1)
	src.Next(2)
	src.Next(3)
	if !slices.Equal(p.values, []int{1, 2}) || !p.completed {
		t.Errorf("got %+v, want [1 2] and completion", p)
	}
	if src.ObserverCount() != 0 {
		t.Errorf("source observers = %d, want 0", src.ObserverCount())
	}
}

func TestMergeInterleaves(t *testing.T) {
	a, b := NewSubject[string](), NewSubject[string]()
	p, sub := observe(Merge(a.Stream(), b.Stream()))
	a.Next("a1")
	b.Next("b1")
	a.Next("a2")
	if !slices.Equal(p.values, []string{"a1", "b1", "a2"}) {
		t.Errorf("values = %v, want [a1 b1 a2]", p.values)
	}

	a.Complete()
	if p.completed {
		t.Error("completed before every input completed")
	}
	b.Complete()
	if !p.completed {
		t.Error("did not complete after every input completed")
	}
	sub.Unsubscribe()
}

func TestMergeError(t *testing.T) {
	boom := errors.New("boom")
	a := NewSubject[int]()
	p, _ := observe(Merge(a.Stream(), Never[int]()))
	a.Error(boom)
	if !errors.Is(p.err, boom) {
		t.Errorf("err = %v, want %v", p.err, boom)
	}
}

func TestMergeEmptyCompletes(t *testing.T) {
	p, _ := observe(Merge[int]())
	if !p.completed {
		t.Error("Merge() did not complete")
	}
}

func TestMergeTeardown(t *testing.T) {
	a, b := NewSubject[int](), NewSubject[int]()
	_, sub := observe(Merge(a.Stream(), b.Stream()))
	sub.Unsubscribe()
	if a.ObserverCount() != 0 || b.ObserverCount() != 0 {
		t.Errorf("observers after teardown = %d, %d, want 0, 0", a.ObserverCount(), b.ObserverCount())
	}
}

func TestWithLatestFrom(t *testing.T) {
	src, other := NewSubject[int](), NewSubject[string]()
	p, sub := observe(WithLatestFrom(src.Stream(), other.Stream(), func(n int, s string) string {
		return s + string(rune('0'+n))
	}))

	src.Next(1) // dropped: other has not emitted
	other.Next("a")
	src.Next(2)
	other.Next("b")
	other.Next("c")
	src.Next(3)

	if !slices.Equal(p.values, []string{"a2", "c3"}) {
		t.Errorf("values = %v, want [a2 c3]", p.values)
	}
	other.Complete()
	src.Next(4)
	if len(p.values) != 3 {
		t.Errorf("completion of other stopped the result: %v", p.values)
	}
	sub.Unsubscribe()
	if src.ObserverCount() != 0 {
		t.Errorf("source observers = %d, want 0", src.ObserverCount())
	}
}

func TestWithLatestFromReplayedOther(t *testing.T) {
	other := NewRememberSubject[int]()
	other.Next(5)
	p, _ := observe(WithLatestFrom(Of(1, 2), other.Stream(), func(a, b int) int { return a * b }))
	if !slices.Equal(p.values, []int{5, 10}) {
		t.Errorf("values = %v, want [5 10]", p.values)
	}
}

func TestTap(t *testing.T) {
	var seen []int
	p, _ := observe(Tap(Of(1, 2), func(v int) { seen = append(seen, v) }))
	if !slices.Equal(seen, []int{1, 2}) || !slices.Equal(p.values, []int{1, 2}) {
		t.Errorf("seen = %v values = %v, want [1 2] both", seen, p.values)
	}
}

func TestCallbackPanicBecomesError(t *testing.T) {
	src := NewSubject[int]()
	p, _ := observe(Map(src.Stream(), func(v int) int {
		if v == 2 {
			panic("two")
		}
		return v
	}))
	src.Next(1)
	src.Next(2)
	src.Next(3)

	if !slices.Equal(p.values, []int{1}) {
		t.Errorf("values = %v, want [1]", p.values)
	}
	var cbErr *CallbackError
	if !errors.As(p.err, &cbErr) || cbErr.Op != "map" || cbErr.Value != "two" {
		t.Errorf("err = %v, want map CallbackError", p.err)
	}
	if src.ObserverCount() != 0 {
		t.Errorf("source observers = %d, want 0 after error", src.ObserverCount())
	}
}

func TestPanicIsolatedToChain(t *testing.T) {
	src := NewSubject[int]()
	bad, _ := observe(Filter(src.Stream(), func(int) bool { panic("bad") }))
	good, _ := observe(src.Stream())
	src.Next(1)
	src.Next(2)
	if bad.err == nil {
		t.Error("panicking chain did not error")
	}
	if !slices.Equal(good.values, []int{1, 2}) {
		t.Errorf("sibling chain values = %v, want [1 2]", good.values)
	}
}
