package history

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"backtest_service/internal/models"
)

// LoadCSV reads candles from a file with columns
// timestamp,open,high,low,close,volume. A header row is skipped when the
// first field does not parse as an integer. Timestamps in seconds are
// converted to ms.
func LoadCSV(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func ReadCSV(r io.Reader) ([]models.Candle, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var out []models.Candle
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		line++
		if len(rec) < 6 {
			return nil, errors.Errorf("csv line %d: want 6 columns, got %d", line, len(rec))
		}

		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, errors.Wrapf(err, "csv line %d: timestamp", line)
		}
		// heuristics: epoch seconds fit in 10 digits until year 2286
		if ts < 1e12 {
			ts *= 1000
		}

		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "csv line %d: column %d", line, i+2)
			}
			vals[i] = v
		}
		out = append(out, models.Candle{
			Timestamp: ts,
			Open:      vals[0],
			High:      vals[1],
			Low:       vals[2],
			Close:     vals[3],
			Volume:    vals[4],
		})
	}
	return out, nil
}
