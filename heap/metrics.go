package heap

import (
	"github.com/prometheus/client_golang/prometheus"
)

type collector struct {
	heap *Accounting

	liveBytes  *prometheus.Desc
	liveBlocks *prometheus.Desc
	allocs     *prometheus.Desc
	frees      *prometheus.Desc
	failures   *prometheus.Desc
}

// NewCollector returns a Prometheus collector exporting the counters of an Accounting heap.
func NewCollector(namespace string, h *Accounting) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "heap", name), help, nil, nil)
	}

	return &collector{
		heap:       h,
		liveBytes:  desc("live_bytes", "Number of bytes held by live trie nodes"),
		liveBlocks: desc("live_blocks", "Number of live trie nodes and values blocks"),
		allocs:     desc("allocations_total", "Number of successful allocations"),
		frees:      desc("frees_total", "Number of deallocations"),
		failures:   desc("allocation_failures_total", "Number of rejected allocations"),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.liveBytes
	ch <- c.liveBlocks
	ch <- c.allocs
	ch <- c.frees
	ch <- c.failures
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.heap.Stats()

	ch <- prometheus.MustNewConstMetric(c.liveBytes, prometheus.GaugeValue, float64(stats.LiveBytes))
	ch <- prometheus.MustNewConstMetric(c.liveBlocks, prometheus.GaugeValue, float64(stats.LiveBlocks))
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(stats.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(stats.Frees))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(stats.Failures))
}
