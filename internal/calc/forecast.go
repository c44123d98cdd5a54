package calc

import (
	"fmt"
)

// coerceSeries flattens the lines into one numeric series. Tokens that are
// not numbers are dropped, which can make the series shorter than the input.
func coerceSeries(lines []string) []float64 {
	var series []float64
	for _, line := range lines {
		for _, tok := range nonEmptyFields(line) {
			if v, ok := parseNumber(tok); ok {
				series = append(series, v)
			}
		}
	}
	return series
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Forecast computes an iterative simple moving average.
//
// In-sample, period i (0-based) gets the mean of the window actuals before it
// once i >= window. Out-of-sample, each of the future steps is the mean of the
// last window values of the series extended with the previous forecasts.
// A zero window selects DefaultWindow; a zero future projects nothing.
func Forecast(lines []string, window, future int) (*Result, error) {
	if window == 0 {
		window = DefaultWindow
	}
	if window < 0 {
		return nil, &ParamError{Param: "window", Reason: "must be positive"}
	}
	if future < 0 {
		return nil, &ParamError{Param: "horizon", Reason: "must not be negative"}
	}

	series := coerceSeries(lines)
	n := len(series)
	if n < window {
		return nil, fmt.Errorf("%w: %d values, window %d", ErrInsufficientData, n, window)
	}

	rows := make([]Row, 0, n+future)
	for i, actual := range series {
		forecast := ""
		if i >= window {
			forecast = formatFixed(mean(series[i-window:i]), ForecastPrecision)
		}
		rows = append(rows, Row{i + 1, formatFixed(actual, ForecastPrecision), forecast})
	}

	extended := append(make([]float64, 0, n+future), series...)
	next := make([]string, 0, future)
	for h := 1; h <= future; h++ {
		f := mean(extended[len(extended)-window:])
		extended = append(extended, f)
		formatted := formatFixed(f, ForecastPrecision)
		next = append(next, formatted)
		rows = append(rows, Row{n + h, Placeholder, formatted})
	}

	return &Result{
		Calculator: NameForecast,
		Steps: []string{
			fmt.Sprintf("Use a %d-period moving average for the in-sample forecast of periods t >= %d.", window, window+1),
			fmt.Sprintf("Forecast %d future periods iteratively from the last %d values, including earlier forecasts.", future, window),
		},
		Headers: []string{"Period", "Actual", "Forecast"},
		Rows:    rows,
		Next:    next,
	}, nil
}
