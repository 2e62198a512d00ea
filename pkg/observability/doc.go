/*
Package observability turns engine lifecycle hooks into logs and Prometheus metrics.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng := mosaic.New(mosaic.WithLifecycleHooks(observability.Chain(
		metrics.Hooks(),
		observability.LogHooks(logger),
	)))
*/
package observability
