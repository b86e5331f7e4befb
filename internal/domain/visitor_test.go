package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisitorInputInvalidFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input VisitorInput
		want  []string
	}{
		{
			name:  "valid tuple",
			input: VisitorInput{Name: "Sofia", NationalID: 44444444, Age: 30},
			want:  nil,
		},
		{
			name:  "valid tuple with size",
			input: VisitorInput{Name: "Sofia", NationalID: 44444444, Age: 30, Size: SizeM},
			want:  nil,
		},
		{
			name:  "name with digits and spaces",
			input: VisitorInput{Name: "Ana Maria 2", NationalID: 1, Age: 30},
			want:  nil,
		},
		{
			name:  "empty name",
			input: VisitorInput{NationalID: 1, Age: 30},
			want:  []string{"name"},
		},
		{
			name:  "name of only spaces",
			input: VisitorInput{Name: "   ", NationalID: 1, Age: 30},
			want:  []string{"name"},
		},
		{
			name:  "name with punctuation",
			input: VisitorInput{Name: "So-fia!", NationalID: 1, Age: 30},
			want:  []string{"name"},
		},
		{
			name:  "zero national id",
			input: VisitorInput{Name: "Sofia", Age: 30},
			want:  []string{"national_id"},
		},
		{
			name:  "negative national id",
			input: VisitorInput{Name: "Sofia", NationalID: -4, Age: 30},
			want:  []string{"national_id"},
		},
		{
			name:  "age below range",
			input: VisitorInput{Name: "Sofia", NationalID: 1, Age: -1},
			want:  []string{"age"},
		},
		{
			name:  "age above range",
			input: VisitorInput{Name: "Sofia", NationalID: 1, Age: 121},
			want:  []string{"age"},
		},
		{
			name:  "age boundaries are inclusive",
			input: VisitorInput{Name: "Sofia", NationalID: 1, Age: 120},
			want:  nil,
		},
		{
			name:  "unknown size code",
			input: VisitorInput{Name: "Sofia", NationalID: 1, Age: 30, Size: "XXXL"},
			want:  []string{"size"},
		},
		{
			name:  "everything wrong at once",
			input: VisitorInput{Name: "@@@", NationalID: 0, Age: 200, Size: "huge"},
			want:  []string{"name", "national_id", "age", "size"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.input.InvalidFields())
		})
	}
}

func TestVisitorInputByReference(t *testing.T) {
	t.Parallel()

	require.True(t, VisitorInput{VisitorID: "vis-1"}.ByReference())
	require.False(t, VisitorInput{Name: "Sofia", NationalID: 1, Age: 30}.ByReference())
}

func TestValidSize(t *testing.T) {
	t.Parallel()

	for _, s := range []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL} {
		require.True(t, ValidSize(s), string(s))
	}
	require.False(t, ValidSize(""))
	require.False(t, ValidSize("m"))
	require.False(t, ValidSize("XXXL"))
}
