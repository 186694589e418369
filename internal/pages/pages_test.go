// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pages

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		maxPages int
		want     []int
		wantErr  bool
	}{
		{
			name:     "single page",
			expr:     "5",
			maxPages: 10,
			want:     []int{5},
		},
		{
			name:     "simple range",
			expr:     "1-3",
			maxPages: 10,
			want:     []int{1, 2, 3},
		},
		{
			name:     "range and single combined",
			expr:     "1-3,7",
			maxPages: 10,
			want:     []int{1, 2, 3, 7},
		},
		{
			name:     "overlapping tokens deduplicate",
			expr:     "2,2,3",
			maxPages: 10,
			want:     []int{2, 3},
		},
		{
			name:     "unsorted input sorts ascending",
			expr:     "9,1,4-5",
			maxPages: 10,
			want:     []int{1, 4, 5, 9},
		},
		{
			name:     "whitespace tolerated",
			expr:     " 1 - 3 , 7 ",
			maxPages: 10,
			want:     []int{1, 2, 3, 7},
		},
		{
			name:     "descending range rejected",
			expr:     "5-2",
			maxPages: 10,
			wantErr:  true,
		},
		{
			name:     "zero rejected",
			expr:     "0",
			maxPages: 10,
			wantErr:  true,
		},
		{
			name:     "range end beyond max rejected",
			expr:     "1-20",
			maxPages: 10,
			wantErr:  true,
		},
		{
			name:     "page beyond max rejected",
			expr:     "11",
			maxPages: 10,
			wantErr:  true,
		},
		{
			name:     "non-numeric token rejects whole input",
			expr:     "1-3,x",
			maxPages: 10,
			wantErr:  true,
		},
		{
			name:     "empty input rejected",
			expr:     "",
			maxPages: 10,
			wantErr:  true,
		},
		{
			name:     "partial validity still rejects everything",
			expr:     "2,0,3",
			maxPages: 10,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.expr, tt.maxPages)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q, %d) = %v, want error", tt.expr, tt.maxPages, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q, %d): %v", tt.expr, tt.maxPages, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse(%q, %d) = %v, want %v", tt.expr, tt.maxPages, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Parse(%q, %d) = %v, want %v", tt.expr, tt.maxPages, got, tt.want)
				}
			}
		})
	}
}
