package prompt

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfirmOrOverride(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		timedOut bool
		want     float64
	}{
		{"timed out", "12", true, 32},
		{"empty", "", false, 32},
		{"blank", "  \t", false, 32},
		{"override", "12", false, 12},
		{"override with spaces", " 7.5 ", false, 7.5},
		{"exponent", "1e2", false, 100},
		{"garbage", "abc", false, 32},
		{"nan", "NaN", false, 32},
		{"inf", "+Inf", false, 32},
		{"zero", "0", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfirmOrOverride(32, tt.input, tt.timedOut))
		})
	}
}

func TestPrompterFloat(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader("64\n"), Out: &out, Timeout: time.Second}

	assert.Equal(t, 64.0, p.Float("  Found threshold at", 32))
	assert.Equal(t, "  Found threshold at [32]: ", out.String())
}

func TestPrompterKeepsDefault(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader("\nnot a number\n"), Out: &out, Timeout: time.Second}

	assert.Equal(t, 32.0, p.Float("threshold", 32))
	assert.Equal(t, 32.0, p.Float("threshold", 32))
	// input is exhausted now
	assert.Equal(t, 32.0, p.Float("threshold", 32))
}

func TestPrompterTimeout(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	p := &Prompter{In: r, Out: &out, Timeout: 20 * time.Millisecond}

	start := time.Now()
	assert.Equal(t, 32.0, p.Float("threshold", 32))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, "threshold [32]: \n", out.String())
}

func TestPrompterInfiniteDefault(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader("\n"), Out: &out}

	assert.True(t, math.IsInf(p.Float("x", math.Inf(1)), 1))
}

func TestPauseNonInteractive(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader(""), Out: &out}

	p.Pause()
	assert.Empty(t, out.String())
}
