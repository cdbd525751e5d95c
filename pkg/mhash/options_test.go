package mhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Options_WithDefaults_Fills_Zero_Fields(t *testing.T) {
	t.Parallel()

	o, err := Options{}.withDefaults()
	require.NoError(t, err)

	assert.EqualValues(t, 2, o.InitialCapacity)
	assert.EqualValues(t, defaultLoadFactorPerMille, o.LoadFactorPerMille)
	assert.EqualValues(t, defaultMaxCapacityPages, o.MaxCapacityPages)
}

func Test_Options_WithDefaults_Rejects_Invalid_Combinations(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		options Options
		wantErr error
	}{
		{
			name:    "LoadFactorAboveOneThousand",
			options: Options{LoadFactorPerMille: 1001},
			wantErr: ErrInvalidLoadFactor,
		},
		{
			name:    "MaxCapacityBelowInitialCapacity",
			options: Options{InitialCapacity: 10, MaxCapacityPages: 5},
			wantErr: ErrInvalidGrowthLimit,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := testCase.options.withDefaults()
			require.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func Test_Options_WithDefaults_Accepts_Explicit_Valid_Values(t *testing.T) {
	t.Parallel()

	o, err := Options{InitialCapacity: 4, LoadFactorPerMille: 900, MaxCapacityPages: 10}.withDefaults()
	require.NoError(t, err)

	assert.EqualValues(t, 4, o.InitialCapacity)
	assert.EqualValues(t, 900, o.LoadFactorPerMille)
	assert.EqualValues(t, 10, o.MaxCapacityPages)
}
