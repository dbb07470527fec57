// Package domain models the temperature and academic-performance data shown on
// the dashboard and the pure transformations applied to it.
//
// # Record Shape
//
// Every time series is standardized to [Observation]:
//
//	date   calendar date (UTC midnight)
//	value  measurement as float64
//	group  label naming the series, e.g. "Sea surface temperature (example)"
//	year   date.Year(), kept redundantly so filters and joins stay cheap
//
// A [Series] is a chronological slice of observations that share one label,
// tagged with a [Provenance]: "real" when it came from a remote source,
// "synthetic" when the [Generator] produced it.
//
// # Synthetic Formulas
//
// Official series (one observation per year, dated January 1st), y0 = first year:
//
//	SST(year)      = 15.0 + 0.02(year-y0) + 0.2 sin((year-y0)/5)
//	HeatDays(year) = 5 + 0.5(year-y0) + 2 sin((year-y0)/3)
//
// Student series (seeded PRNG, one stream per generation):
//
//	MeanTemp(year)   = 16 + 0.05(year-y0) + 0.3 sin((year-y0)/4)
//	SleepHours(year) = 8.5 - 0.03(MeanTemp - mean(MeanTemp))
//	                       - 0.02(year - mean(years)) + N(0, 0.08)
//	temperature      ~ N(25, 4) per student
//	math             = 70 - 0.8(temperature-25) + N(0, 6)
//	english          = 72 - 0.6(temperature-25) + N(0, 6)
//
// Sleep observations are dated July 15th. Wide score rows are reshaped to long
// form and each long row receives a date drawn uniformly from the 30 days
// starting 2023-06-15.
//
// # Degradation
//
// Nothing in this package fails a render. Remote fetch errors fall back to the
// generator ([FetchOrFallback]), inverted year ranges are swapped
// ([FilterByYearRange]), and correlations over fewer than two joined points
// report [ErrInsufficientData] through the returned [Correlation] value.
package domain
