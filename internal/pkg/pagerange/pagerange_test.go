package pagerange

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{in: "0-5", want: Range{Start: 0, End: 5}},
		{in: "3-10", want: Range{Start: 3, End: 10}},
		{in: " 1-2 ", want: Range{Start: 1, End: 2}},
		{in: "5-5", wantErr: true},
		{in: "5-3", wantErr: true},
		{in: "-1-3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1-x", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRangeStringRoundTrip(t *testing.T) {
	r := Range{Start: 5, End: 10}
	parsed, err := Parse(r.String())
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", r.String(), err)
	}
	if parsed != r {
		t.Fatalf("round trip mismatch: %v != %v", parsed, r)
	}
}

func TestChunksExactPartition(t *testing.T) {
	chunks := Chunks(10, 5)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].String() != "0-5" || chunks[1].String() != "5-10" {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}

func TestChunksDropsTrailingPartial(t *testing.T) {
	// 11 pages with chunk size 4 covers pages 0-8; the last 3 pages fall
	// outside any chunk.
	chunks := Chunks(11, 4)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Size() != 4 {
			t.Errorf("chunk %d has size %d, want 4", i, c.Size())
		}
	}
	if chunks[1].End != 8 {
		t.Fatalf("expected coverage to stop at page 8, got %d", chunks[1].End)
	}
}

func TestChunksContiguous(t *testing.T) {
	chunks := Chunks(100, 7)
	if len(chunks) != 14 {
		t.Fatalf("expected 14 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Start != chunks[i-1].End {
			t.Fatalf("chunks %d and %d not contiguous: %v %v", i-1, i, chunks[i-1], chunks[i])
		}
	}
}

func TestChunksDegenerate(t *testing.T) {
	if got := Chunks(0, 5); got != nil {
		t.Fatalf("expected nil for zero pages, got %v", got)
	}
	if got := Chunks(10, 0); got != nil {
		t.Fatalf("expected nil for zero chunk size, got %v", got)
	}
	if got := Chunks(3, 5); len(got) != 0 {
		t.Fatalf("expected no chunks when the document is smaller than one chunk, got %v", got)
	}
}
