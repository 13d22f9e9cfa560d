package ocrtext

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoiseFilter_RepeatedToken(t *testing.T) {
	f := NewNoiseFilter(nil)

	t.Run("token repeated 11 times among many tokens is removed", func(t *testing.T) {
		line := "intro " + strings.TrimSpace(strings.Repeat("ghost x ", 11))
		assert.Equal(t, "", f.Filter(line))
	})

	t.Run("token repeated 10 times is kept", func(t *testing.T) {
		words := []string{"alpha", "beta", "gamma"}
		for i := 0; i < 10; i++ {
			words = append(words, "total", "other"+strings.Repeat("x", i))
		}
		line := strings.Join(words, " ")
		assert.Equal(t, line, f.Filter(line))
	})

	t.Run("short lines are exempt from the repeat check", func(t *testing.T) {
		line := "spam spam spam spam"
		got := line
		for i := 0; i < 100; i++ {
			got = f.Filter(got)
		}
		assert.Equal(t, line, got)
	})
}

func TestNoiseFilter_ConsecutiveRun(t *testing.T) {
	f := NewNoiseFilter(nil)

	t.Run("five consecutive repeats dropped", func(t *testing.T) {
		assert.Equal(t, "", f.Filter("word word word word word"))
	})

	t.Run("four consecutive repeats kept", func(t *testing.T) {
		line := "word word word word"
		assert.Equal(t, line, f.Filter(line))
	})
}

func TestNoiseFilter_GarbagePatterns(t *testing.T) {
	t.Run("default signatures removed", func(t *testing.T) {
		f := NewNoiseFilter(nil)
		in := "A normal paragraph.\nbroken 사원법law artifact\nAnother paragraph."
		assert.Equal(t, "A normal paragraph.\nAnother paragraph.", f.Filter(in))
	})

	t.Run("custom denylist replaces defaults", func(t *testing.T) {
		f := NewNoiseFilter([]*regexp.Regexp{regexp.MustCompile(`LOREM{3,}`)})
		in := "keep 사원법law now\ndrop LOREMMMM here"
		assert.Equal(t, "keep 사원법law now", f.Filter(in))
	})
}

func TestNoiseFilter_Monotonic(t *testing.T) {
	f := NewNoiseFilter(nil)
	in := "one\ntwo\nthree three three three three\nfour"

	out := f.Filter(in)

	assert.LessOrEqual(t, len(strings.Split(out, "\n")), len(strings.Split(in, "\n")))
	assert.Equal(t, "one\ntwo\nfour", out)
}

func TestNoiseFilter_PreservesOrder(t *testing.T) {
	f := NewNoiseFilter(nil)
	in := "first\nsecond\nthird"
	assert.Equal(t, in, f.Filter(in))
}
