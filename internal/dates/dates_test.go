package dates

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestTranslateDigits(t *testing.T) {
	assert.Equal(t, "2075-01-15", TranslateDigits("२०७५-०१-१५"))
	assert.Equal(t, "abc 123", TranslateDigits("abc १२३"))
	assert.Equal(t, "", TranslateDigits(""))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2005-10-13", "2005-10-13", true},
		{"13-10-2005", "2005-10-13", true},
		{"13/10/2005", "2005-10-13", true},
		{"2005/10/13", "2005-10-13", true},
		{"2005-1-3", "2005-01-03", true},
		{" 1/2/1990 ", "1990-02-01", true},
		{"२०७५-०१-१५", "2075-01-15", true},
		{"२०४५/०५/१२", "2045-05-12", true},
		{"2005-02-30", "", false},
		{"2005-13-01", "", false},
		{"31/04/2001", "", false},
		{"2001.04.01", "", false},
		{"13 OCT 2005", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeLeapDay(t *testing.T) {
	got, ok := Normalize("29-02-2000")
	assert.True(t, ok)
	assert.Equal(t, "2000-02-29", got)

	_, ok = Normalize("29-02-1900")
	assert.False(t, ok)
}

func TestNormalizeOrRaw(t *testing.T) {
	assert.Equal(t, "2001-02-03", NormalizeOrRaw("2001/02/03"))
	assert.Equal(t, "२०७५-१३-४०", NormalizeOrRaw("  २०७५-१३-४० "))
	assert.Equal(t, "", NormalizeOrRaw("   "))
}

func TestParseYYMMDD(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"050101", "2005-01-01", true},
		{"991231", "1999-12-31", true},
		{"291231", "2029-12-31", true},
		{"300101", "1930-01-01", true},
		{"000229", "2000-02-29", true},
		{"010229", "", false},
		{"051301", "", false},
		{"0501", "", false},
		{"05O101", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseYYMMDD(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePassport(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"13 OCT 2005", "2005-10-13", true},
		{"13 oct 2005", "2005-10-13", true},
		{"1 January 1990", "1990-01-01", true},
		{"01SEP1985", "1985-09-01", true},
		{"050101", "2005-01-01", true},
		{"991231", "1999-12-31", true},
		{"१३ OCT २००५", "2005-10-13", true},
		{"31 FEB 2005", "", false},
		{"13 OCTO 2005", "", false},
		{"13 OCT 05", "", false},
		{"2005-10-13", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePassport(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func toDevanagari(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune('०' + (r - '0'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestDateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	base := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	days := gen.IntRange(0, 200*365)

	properties.Property("generic formats agree on every real date", prop.ForAll(
		func(n int) bool {
			d := base.AddDate(0, 0, n)
			want := d.Format(Layout)
			for _, layout := range []string{"2006-01-02", "02-01-2006", "02/01/2006", "2006/01/02", "2/1/2006"} {
				got, ok := Normalize(d.Format(layout))
				if !ok || got != want {
					return false
				}
			}
			return true
		},
		days,
	))

	properties.Property("devanagari digits parse like ascii digits", prop.ForAll(
		func(n int) bool {
			d := base.AddDate(0, 0, n)
			got, ok := Normalize(toDevanagari(d.Format("02/01/2006")))
			return ok && got == d.Format(Layout)
		},
		days,
	))

	properties.Property("passport month names round trip", prop.ForAll(
		func(n int) bool {
			d := base.AddDate(0, 0, n)
			short, ok1 := ParsePassport(d.Format("02 Jan 2006"))
			long, ok2 := ParsePassport(d.Format("2 January 2006"))
			return ok1 && ok2 && short == d.Format(Layout) && long == short
		},
		days,
	))

	properties.TestingRun(t)
}
