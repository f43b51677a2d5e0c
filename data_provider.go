package easyplot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultSignalName is the name under which the second column of every data
// file is always reachable, regardless of its header.
const DefaultSignalName = "AWV_Warnung"

var ErrTooFewColumns = errors.New("CSV file must contain at least two columns")

var errIgnoreThisRow = errors.New("ignore this row")

// DataSet is one loaded measurement file. The first column is the time axis,
// every other column is a signal with exactly len(Time) values.
type DataSet struct {
	Time    []float64
	Signals map[string][]float64

	// Header names of the signal columns, in file order.
	Columns []string
}

func (d *DataSet) Len() int {
	return len(d.Time)
}

func (d *DataSet) Signal(name string) ([]float64, bool) {
	values, ok := d.Signals[name]
	return values, ok
}

type DataProvider struct {
	logger logrus.FieldLogger
}

func NewDataProvider(logger logrus.FieldLogger) *DataProvider {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &DataProvider{
		logger: logger.WithField("tag", "DataProvider"),
	}
}

func (p *DataProvider) LoadDataSet(path string) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	dataSet, err := p.ReadDataSet(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	p.logger.WithFields(logrus.Fields{
		"path":    path,
		"rows":    dataSet.Len(),
		"signals": dataSet.Columns,
	}).Info("loaded data file")

	return dataSet, nil
}

// ReadDataSet reads CSV data with a header row. Rows that cannot be parsed
// are skipped and logged.
func (p *DataProvider) ReadDataSet(r io.Reader) (*DataSet, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, ErrTooFewColumns
	} else if err != nil {
		return nil, fmt.Errorf("unable to read CSV header: %w", err)
	}

	if len(header) < 2 {
		return nil, ErrTooFewColumns
	}

	columns := p.columnNames(header)
	values := make([][]float64, len(columns))
	dataSet := &DataSet{
		Signals: make(map[string][]float64, len(columns)+1),
		Columns: columns,
	}

	lineNum := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}

		lineNum++

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				p.logger.WithError(err).WithField("lineNum", lineNum).Warn("unable to parse CSV, ignoring...")
				continue
			}

			p.logger.WithError(err).Error("unable to read CSV")
			return nil, err
		}

		t, row, err := p.interpretRow(record, len(header))
		if err == errIgnoreThisRow {
			p.logger.WithFields(logrus.Fields{
				"line":    record,
				"lineNum": lineNum,
			}).Warn("cannot parse row, ignoring...")
			continue
		}

		dataSet.Time = append(dataSet.Time, t)
		for i, v := range row {
			values[i] = append(values[i], v)
		}
	}

	for i, name := range columns {
		if _, exists := dataSet.Signals[name]; exists {
			p.logger.WithField("column", name).Warn("duplicate column name, keeping the first one")
			continue
		}
		dataSet.Signals[name] = nonNil(values[i])
	}

	if _, exists := dataSet.Signals[DefaultSignalName]; !exists {
		dataSet.Signals[DefaultSignalName] = nonNil(values[0])
	}

	dataSet.Time = nonNil(dataSet.Time)

	return dataSet, nil
}

func (p *DataProvider) columnNames(header []string) []string {
	columns := make([]string, 0, len(header)-1)
	for i, name := range header[1:] {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		columns = append(columns, name)
	}

	return columns
}

func (p *DataProvider) interpretRow(record []string, width int) (float64, []float64, error) {
	if len(record) < width {
		return 0, nil, errIgnoreThisRow
	}

	parsed := make([]float64, 0, width)
	for _, value := range record[:width] {
		floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, nil, errIgnoreThisRow
		}

		parsed = append(parsed, floatValue)
	}

	return parsed[0], parsed[1:], nil
}

func nonNil(values []float64) []float64 {
	if values == nil {
		return []float64{}
	}
	return values
}
