package categorization

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestConfidence(t *testing.T) {
	cases := []struct {
		up, down int
		want     float64
	}{
		{0, 0, 0},
		{10, 0, 1},
		{1, 0, 0.1},
		{5, 5, 0.5},
		{3, 2, 0.3},
		{0, 7, 0},
		{30, 10, 0.75},
		{2, 1, 0.2},
		{-4, 0, 0},
	}
	for _, tc := range cases {
		if got := Confidence(tc.up, tc.down); got != tc.want {
			t.Fatalf("Confidence(%d,%d)=%v want %v", tc.up, tc.down, got, tc.want)
		}
	}
}

func TestConfidenceBounded(t *testing.T) {
	for up := 0; up <= 40; up++ {
		for down := 0; down <= 40; down++ {
			c := Confidence(up, down)
			if c < 0 || c > 1 {
				t.Fatalf("Confidence(%d,%d)=%v out of [0,1]", up, down, c)
			}
		}
	}
}

func TestNormalizeWeights(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	cases := []struct {
		name string
		in   []SiblingConfidence
		want []float64
	}{
		{name: "empty", in: nil, want: []float64{}},
		{name: "single", in: []SiblingConfidence{{a, 0.5}}, want: []float64{100}},
		{name: "all_zero", in: []SiblingConfidence{{a, 0}, {b, 0}}, want: []float64{0, 0}},
		{name: "zero_sibling", in: []SiblingConfidence{{a, 0.5}, {b, 0}}, want: []float64{100, 0}},
		{name: "proportional", in: []SiblingConfidence{{a, 0.5}, {b, 0.3}}, want: []float64{62.5, 37.5}},
		{name: "thirds", in: []SiblingConfidence{{a, 0.1}, {b, 0.1}, {c, 0.1}}, want: []float64{33.33, 33.33, 33.33}},
		// Each weight rounds on its own; the pair sums to 100.01.
		{name: "rounded_per_item", in: []SiblingConfidence{{a, 0.01}, {b, 0.31}}, want: []float64{3.13, 96.88}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeWeights(tc.in)
			weights := make([]float64, len(got))
			for i, w := range got {
				weights[i] = w.Weight
				if w.ID != tc.in[i].ID {
					t.Fatalf("order not preserved at %d", i)
				}
			}
			if !reflect.DeepEqual(weights, tc.want) {
				t.Fatalf("NormalizeWeights=%v want %v", weights, tc.want)
			}
		})
	}
}

func TestNormalizeWeightsIdempotent(t *testing.T) {
	in := []SiblingConfidence{{uuid.New(), 0.7}, {uuid.New(), 0.2}, {uuid.New(), 0.05}}
	first := NormalizeWeights(in)
	second := NormalizeWeights(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("NormalizeWeights not idempotent: %v vs %v", first, second)
	}
}

func TestSuggest(t *testing.T) {
	cases := []struct {
		content string
		want    []string
	}{
		{content: "", want: []string{}},
		{content: "bugün hava güzel", want: []string{}},
		{content: "Dün akşamki MAÇ harikaydı ⚽", want: []string{"spor"}},
		{content: "Yeni yazılım projesi 💻", want: []string{"teknoloji"}},
		{content: "İSTANBUL gezi rehberi", want: []string{"gezi"}},
		{content: "komik maç, kod yazarken yemek tarifi", want: []string{"mizah", "spor", "teknoloji"}},
	}
	for _, tc := range cases {
		got := Suggest(tc.content)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Suggest(%q)=%v want %v", tc.content, got, tc.want)
		}
	}
}
