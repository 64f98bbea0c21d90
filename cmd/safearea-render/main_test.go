package main

import (
	"testing"

	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/inset"
)

func TestParseDrag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    dragStep
		wantErr bool
	}{
		{in: "top:30,20", want: dragStep{inset.TopLeading, geom.Sz(30, 20)}},
		{in: "bottom-trailing:-10, 4.5", want: dragStep{inset.BottomTrailing, geom.Sz(-10, 4.5)}},
		{in: "top", wantErr: true},
		{in: "left:1,2", wantErr: true},
		{in: "top:1", wantErr: true},
		{in: "top:x,2", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseDrag(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDrag(%q) succeeded; want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDrag(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDrag(%q) = %+v; want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDragListSet(t *testing.T) {
	t.Parallel()

	var d dragList
	if err := d.Set("top:1,2"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set("bottom:3,4"); err != nil {
		t.Fatal(err)
	}
	if got, want := d.String(), "top-leading:1,2 bottom-trailing:3,4"; got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}
