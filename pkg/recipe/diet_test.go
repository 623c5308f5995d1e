package recipe

import (
	"testing"

	"tastebook/domain"

	"github.com/stretchr/testify/require"
)

func TestClassifyDiet(t *testing.T) {
	cases := []struct {
		name        string
		ingredients string
		want        string
	}{
		{"meat", "chicken breast\nonion", domain.DietNonVegetarian},
		{"fish", "salmon fillet", domain.DietNonVegetarian},
		{"egg counts as meat", "flour\negg\nsugar", domain.DietNonVegetarian},
		{"meat wins over dairy", "beef\nbutter", domain.DietNonVegetarian},
		{"dairy", "milk\nflour", domain.DietVegetarian},
		{"honey counts as dairy", "oats\nhoney", domain.DietVegetarian},
		{"plants only", "tomato\nbasil\nolive oil", domain.DietVegan},
		{"case insensitive", "CHICKEN", domain.DietNonVegetarian},
		{"empty", "", domain.DietVegan},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyDiet(tc.ingredients))
		})
	}
}

func TestSplitLines(t *testing.T) {
	require.Equal(t, []string{"eggs", "milk"}, SplitLines("eggs\nmilk"))
	require.Equal(t, []string{"pasta", "tomato"}, SplitLines("pasta\n\ntomato"))
	require.Equal(t, []string{"eggs"}, SplitLines("  eggs  \n   "))
	require.Nil(t, SplitLines(""))
}
