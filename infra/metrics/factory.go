package metrics

import (
	"github.com/Dshy007/milo/core/factory"
	coremetrics "github.com/Dshy007/milo/core/metrics"
)

func init() {
	must(coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSink()
	}))
	must(coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	}))
	must(coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
