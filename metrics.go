package htmlpng

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

type Metrics struct {
	TotalRenders   atomic.Int64  `metric:"htmlpng_renders_total"`
	SuccessRenders atomic.Int64  `metric:"htmlpng_renders_success_total"`
	FailedRenders  atomic.Int64  `metric:"htmlpng_renders_failed_total"`
	TotalDuration  atomic.Uint64 `metric:"htmlpng_duration_seconds_total"` // nanoseconds
}

// observe records the outcome of one render
func (m *Metrics) observe(duration time.Duration, err error) {
	m.TotalRenders.Add(1)
	m.TotalDuration.Add(uint64(duration.Nanoseconds()))
	if err != nil {
		m.FailedRenders.Add(1)
	} else {
		m.SuccessRenders.Add(1)
	}
}

func (m *Metrics) String() string {
	var sb strings.Builder

	v := reflect.ValueOf(m).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		metricName := t.Field(i).Tag.Get("metric")
		if metricName == "" {
			continue
		}

		var value string
		switch field := v.Field(i).Addr().Interface().(type) {
		case *atomic.Int64:
			value = strconv.FormatInt(field.Load(), 10)
		case *atomic.Uint64:
			seconds := float64(field.Load()) / 1e9
			value = strconv.FormatFloat(seconds, 'f', 6, 64)
		default:
			continue
		}

		sb.WriteString(metricName + " " + value + "\n")
	}

	return sb.String()
}

func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, m.String())
}
