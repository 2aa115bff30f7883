// Package domain models probabilistic weather forecasts served to the lead
// capture front-end.
//
// # Upstream Payload
//
// The forecast backend answers with a loosely shaped JSON document:
//
//	{
//	  "status": "ok",
//	  "data": {
//	    "forecast":  {"temperature": {...}, "rain": {...}},
//	    "location":  {"lat": -23.55, "lon": -46.63},
//	    "timestamp": "2025-12-15 15:00"
//	  },
//	  "model_info": {"model": "...", "trained_until": "...", "data_source": "..."}
//	}
//
// Location spelling varies between backend versions: either {lat, lon} or
// {latitude, longitude}. Exactly one convention must be complete; anything
// else is rejected by [ResolveLocation] rather than defaulted to zero.
//
// # Metrics
//
// Every metric carries a point estimate, a 90% interval, optional
// probability buckets ("<20", "no_rain", ...), an optional series for
// sparklines and a display unit. Metric keys are free-form and are passed
// through untouched. Keys containing "rain" or "precip" (any case) name
// precipitation quantities whose lower interval bound is floored at zero by
// [ClampMetric]; quantile regression occasionally produces small negative
// lower bounds for them.
//
// # Provenance
//
// Every forecast served to a client carries a source tag: "backend" for a
// normalized upstream payload, "mock" when no upstream is configured, and
// "mock-fallback-*" when the upstream failed and the built-in mock was
// served instead. See [Source].
package domain
