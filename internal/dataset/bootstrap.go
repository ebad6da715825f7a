package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tothemoon/internal/model"
)

// ReadSeedFile parses a per-symbol bootstrap CSV: the first line is a header
// and is skipped, every following non-empty line is comma-separated numeric
// cells. A trailing empty cell truncates the row rather than erroring, since
// the first records of a freshly exported file are routinely incomplete.
func ReadSeedFile(path string) ([]model.FeatureRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var rows []model.FeatureRow
	scanner := bufio.NewScanner(f)
	header := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if header {
			header = false
			continue
		}
		if line == "" {
			continue
		}
		cells, err := parseSeedLine(line)
		if err != nil {
			return nil, fmt.Errorf("seed file %s: %w", path, err)
		}
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, rowFromCells(cells))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return rows, nil
}

func parseSeedLine(line string) ([]float64, error) {
	var cells []float64
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			break
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("parse cell %q: %w", part, err)
		}
		cells = append(cells, v)
	}
	return cells, nil
}

// rowFromCells maps numeric cells onto a feature row. A full row carries
// {rsi, bbLower, bbUpper, close}; shorter warm-up rows only carry the close
// as their last cell, with the indicator cells left zero.
func rowFromCells(cells []float64) model.FeatureRow {
	row := model.FeatureRow{Close: cells[len(cells)-1]}
	if len(cells) >= 4 {
		row.RSI = cells[0]
		row.BBLower = cells[1]
		row.BBUpper = cells[2]
	}
	return row
}
