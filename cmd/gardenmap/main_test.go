package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectPlantLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"gardenmap"},
			want: []string{"gardenmap"},
		},
		{
			name: "direct plant id first token",
			in:   []string{"gardenmap", "plant-3"},
			want: []string{"gardenmap", "plants", "show", "plant-3"},
		},
		{
			name: "direct plant id after value flag",
			in:   []string{"gardenmap", "--store-path", "./garden.json", "plant-3"},
			want: []string{"gardenmap", "--store-path", "./garden.json", "plants", "show", "plant-3"},
		},
		{
			name: "direct plant id after equals flag",
			in:   []string{"gardenmap", "--store=json", "plant-3"},
			want: []string{"gardenmap", "--store=json", "plants", "show", "plant-3"},
		},
		{
			name: "direct plant id after bool flag",
			in:   []string{"gardenmap", "--pretty", "plant-3"},
			want: []string{"gardenmap", "--pretty", "plants", "show", "plant-3"},
		},
		{
			name: "direct plant id after double dash",
			in:   []string{"gardenmap", "--format", "json", "--", "plant-3"},
			want: []string{"gardenmap", "--format", "json", "--", "plants", "show", "plant-3"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"gardenmap", "plants", "show", "plant-3"},
			want: []string{"gardenmap", "plants", "show", "plant-3"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"gardenmap", "plant-"},
			want: []string{"gardenmap", "plant-"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectPlantLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
