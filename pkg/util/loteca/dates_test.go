package loteca

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchDateFormats(t *testing.T) {
	want := time.Date(2013, time.March, 29, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"29/03/13", "29/3/13", "29/03/2013", "29/3/2013", "2013-03-29", "03/29/2013", "29/03/2013 16:00"} {
		got, err := ParseMatchDate(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s parsed as %s", s, got)
	}
}

func TestParseMatchDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "nan", "amanhã", "32/13/2013"} {
		_, err := ParseMatchDate(s)
		assert.Error(t, err, s)
	}
}

func TestFormatMatchDate(t *testing.T) {
	assert.Equal(t, "05/06/21", FormatMatchDate(time.Date(2021, time.June, 5, 0, 0, 0, 0, time.UTC)))
}
