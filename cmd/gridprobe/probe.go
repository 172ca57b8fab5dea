package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/katalvlaran/curvgrid/curvilinear"
	"github.com/sirupsen/logrus"
)

// result is one located query point.
type result struct {
	Point  []float64 `json:"point"`
	Inside bool      `json:"inside"`
	Cell   []int     `json:"cell,omitempty"`
	Local  []float64 `json:"local,omitempty"`
	Value  *float64  `json:"value,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// parsePoint parses "x,y,z" (commas and/or whitespace) into dims floats.
func parsePoint(s string, dims int) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	if len(fields) != dims {
		return nil, fmt.Errorf("point %q has %d components, want %d", s, len(fields), dims)
	}
	p := make([]float64, dims)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", s, err)
		}
		p[i] = v
	}
	return p, nil
}

// probe locates p and, when inside, evaluates the value there.
func probe(loc *curvilinear.Locator[float64], p []float64, warm, withValue bool) result {
	r := result{Point: p}
	inside, err := loc.Locate(p, warm)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Inside = inside
	r.Cell = loc.Cell()
	r.Local = loc.Local()
	if inside && withValue {
		v, err := loc.Evaluate()
		if err != nil {
			r.Error = err.Error()
			return r
		}
		r.Value = &v
	}
	return r
}

// printer writes results as text or JSON lines.
type printer struct {
	w    io.Writer
	json bool
	enc  *json.Encoder
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	return &printer{w: w, json: asJSON, enc: json.NewEncoder(w)}
}

func (pr *printer) print(r result) error {
	if pr.json {
		return pr.enc.Encode(r)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v", r.Point)
	switch {
	case r.Error != "":
		fmt.Fprintf(&b, " error: %s", r.Error)
	case !r.Inside:
		fmt.Fprintf(&b, " outside (boundary cell %v)", r.Cell)
	default:
		fmt.Fprintf(&b, " cell=%v local=%s", r.Cell, formatFloats(r.Local))
		if r.Value != nil {
			fmt.Fprintf(&b, " value=%s", strconv.FormatFloat(*r.Value, 'g', 10, 64))
		}
	}
	_, err := fmt.Fprintln(pr.w, b.String())
	return err
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', 6, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// probeAll runs every point from points (or, when empty, every non-blank,
// non-comment line of in) through one locator. It returns the number of
// points that failed with an error.
func probeAll(g *curvilinear.Grid[float64], cfg Config, log logrus.FieldLogger, points []string, in io.Reader, pr *printer) (int, error) {
	loc := g.NewLocator(cfg.options(log)...)
	withValue := cfg.Value != ""
	failed := 0

	handle := func(s string) error {
		p, err := parsePoint(s, g.Dims())
		if err != nil {
			return err
		}
		r := probe(loc, p, cfg.Warm, withValue)
		if r.Error != "" {
			failed++
			log.WithFields(logrus.Fields{"point": p, "error": r.Error}).Warn("locate failed")
		}
		return pr.print(r)
	}

	if len(points) > 0 {
		for _, s := range points {
			if err := handle(s); err != nil {
				return failed, err
			}
		}
		return failed, nil
	}

	sc := bufio.NewScanner(in)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if err := handle(s); err != nil {
			return failed, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return failed, sc.Err()
}

// errFailedPoints reports that some points could not be located.
var errFailedPoints = errors.New("some points could not be located")
