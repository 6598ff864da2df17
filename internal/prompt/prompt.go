// Package prompt asks the user to confirm or override a computed value.
// A prompt never fails: timeouts, closed input and garbage all keep the default.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// ConfirmOrOverride returns the number typed by the user, or def when the prompt
// timed out or input is empty, non-numeric or not finite
func ConfirmOrOverride(def float64, input string, timedOut bool) float64 {
	if timedOut {
		return def
	}

	s := strings.TrimSpace(input)
	if s == "" {
		return def
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return def
	}

	return value
}

// Prompter reads answers line by line from In and writes captions to Out
type Prompter struct {
	In      io.Reader
	Out     io.Writer
	Timeout time.Duration // <= 0 waits forever

	// Interactive discards lines typed before a prompt was shown and enables Pause
	Interactive bool

	once  sync.Once
	lines chan string
}

// Stdio returns a Prompter on the process's stdin and stdout
func Stdio(timeout time.Duration) *Prompter {
	fd := os.Stdin.Fd()
	return &Prompter{
		In:          os.Stdin,
		Out:         os.Stdout,
		Timeout:     timeout,
		Interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// start launches the single reader goroutine. It outlives a timed out prompt and
// its next line goes to the following prompt.
func (p *Prompter) start() {
	p.once.Do(func() {
		p.lines = make(chan string, 16)
		go func() {
			scanner := bufio.NewScanner(p.In)
			for scanner.Scan() {
				p.lines <- scanner.Text()
			}
			close(p.lines)
		}()
	})
}

func (p *Prompter) drain() {
	for {
		select {
		case _, ok := <-p.lines:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// readLine waits for one line. timedOut is true on timeout or closed input.
func (p *Prompter) readLine() (line string, timedOut bool) {
	var timeout <-chan time.Time
	if p.Timeout > 0 {
		timer := time.NewTimer(p.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case line, ok := <-p.lines:
		if !ok {
			return "", true
		}
		return line, false
	case <-timeout:
		return "", true
	}
}

// Float shows "caption [def]: " and returns the confirmed or overriding value
func (p *Prompter) Float(caption string, def float64) float64 {
	p.start()
	if p.Interactive {
		p.drain()
	}

	fmt.Fprintf(p.Out, "%s [%g]: ", caption, def)

	line, timedOut := p.readLine()
	if timedOut {
		fmt.Fprintln(p.Out)
	}

	return ConfirmOrOverride(def, line, timedOut)
}

// Pause waits for Enter on an interactive terminal and returns immediately otherwise
func (p *Prompter) Pause() {
	if !p.Interactive {
		return
	}

	p.start()
	p.drain()

	fmt.Fprint(p.Out, "Press Enter to exit")
	<-p.lines
}
