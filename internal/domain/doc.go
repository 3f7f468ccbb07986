// Package domain models the hazard signals aggregated by the feed service.
//
// # Data Sources
//
// Four signal categories are tracked, each with its own upstream providers,
// refresh cadence, and cached snapshot:
//
//	flood    PAGASA flood bulletins, DOST-NOAH flood-prone areas, NOAA rainfall
//	weather  OpenWeatherMap current conditions
//	traffic  regional expressway traffic feed
//	transit  rail and bus operational status feed
//
// Any provider whose credentials are absent, or whose fetch fails, is
// substituted with synthetic data of identical shape. Downstream consumers
// never observe a missing category once its first refresh has completed.
//
// # Risk Tiers
//
// Every per-area flood observation carries a numeric score in [0,100] and a
// discrete tier derived from it. The thresholds are a fixed contract shared
// by per-area scoring and category-level summaries:
//
//	score > 80  critical
//	score > 60  high
//	score > 40  moderate
//	score > 20  low
//	otherwise   minimal
//
// A tier is never stored independently of its score; [TierForScore] is the
// single derivation point, and provider adapters re-derive the tier from the
// upstream score so the two cannot disagree.
//
// # Seasonal Conventions
//
// Flood risk scoring applies a monsoon multiplier for June through November,
// matching the wet season of the monitored region. Synthetic traffic data
// models rush-hour windows (07:00-09:00, 17:00-19:00) and night damping
// (22:00-05:00); synthetic transit data models operating hours 05:00-23:00.
//
// # Snapshots
//
// A CategorySnapshot is immutable once published. Each scheduler tick
// produces a fresh snapshot that fully replaces its predecessor in the state
// cache; only the latest snapshot per category is retained.
package domain
