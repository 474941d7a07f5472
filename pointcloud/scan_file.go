package pointcloud

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// scannerHeaderAffix brackets the scanner number in a scan report header,
// e.g. "--- scanner 0 ---".
const scannerHeaderAffix = "---"

// NewCloudsFromFile reads a scan report file containing one coordinate block
// per scanner and returns the clouds in file order.
func NewCloudsFromFile(fn string, logger golog.Logger) ([]*Cloud, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	clouds, err := ReadClouds(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading scan report %q", fn)
	}
	logger.Debugf("read %d scanner clouds from %q", len(clouds), fn)
	return clouds, nil
}

// ReadClouds parses a scan report: blocks headed by "--- scanner N ---"
// lines, each followed by one comma-separated integer coordinate triple per
// line, blocks separated by blank lines. Scanner numbers in the headers are
// ignored; list position identifies a cloud.
func ReadClouds(r io.Reader) ([]*Cloud, error) {
	var clouds []*Cloud
	var current []r3.Vector
	inBlock := false

	flush := func() error {
		if !inBlock {
			return nil
		}
		cloud, err := NewCloud(current)
		if err != nil {
			return errors.Wrapf(err, "scanner block %d", len(clouds))
		}
		clouds = append(clouds, cloud)
		current = nil
		inBlock = false
		return nil
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			if err := flush(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, scannerHeaderAffix):
			if err := flush(); err != nil {
				return nil, err
			}
			inBlock = true
		default:
			if !inBlock {
				return nil, errors.Errorf("line %d: coordinates before any scanner header", lineNum)
			}
			p, err := parsePoint(line)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNum)
			}
			current = append(current, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(clouds) == 0 {
		return nil, errors.New("scan report contains no scanner blocks")
	}
	return clouds, nil
}

// WriteCloudsToFile writes clouds back out as a scan report, one block per
// cloud in list order.
func WriteCloudsToFile(clouds []*Cloud, fn string) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		err = multierr.Combine(err, cerr)
	}()

	w := bufio.NewWriter(f)
	for i, cloud := range clouds {
		if i > 0 {
			if _, err := w.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s scanner %d %s\n", scannerHeaderAffix, i, scannerHeaderAffix); err != nil {
			return err
		}
		for _, p := range cloud.Points() {
			if _, err := fmt.Fprintf(w, "%.0f,%.0f,%.0f\n", p.X, p.Y, p.Z); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func parsePoint(line string) (r3.Vector, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return r3.Vector{}, errors.Errorf("expected 3 comma-separated coordinates; got %q", line)
	}
	var coords [3]float64
	for i, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "bad coordinate %q", field)
		}
		coords[i] = float64(v)
	}
	return r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
