// Package domain models satellite fire detections, monitored forests, and the
// proximity risk rules that connect them.
//
// # Data Source
//
// Detections come from the NASA FIRMS area API
// (https://firms.modaps.eosdis.nasa.gov/api/area/), which returns one CSV row
// per thermal hot-spot observed by MODIS or VIIRS over a bounding box during
// the last 1–10 days. The FIRMS adapter strips the header and hands the
// remaining rows to [ParseDetections] as positional string slices.
//
// # FIRMS Row Layout
//
// MODIS NRT rows carry 14 columns:
//
//	latitude, longitude, brightness, scan, track, acq_date, acq_time,
//	satellite, instrument, confidence, version, bright_t31, frp, daynight
//
// acq_date is "YYYY-MM-DD" and acq_time is HHMM in UTC ("530" → 05:30).
//
// Confidence encoding differs by instrument:
//
//	MODIS: integer percentage 0–100 → <30 low | <80 nominal | ≥80 high
//	VIIRS: single letter → "l" low | "n" nominal | "h" high
//
// Rows with the wrong number of columns, non-numeric coordinates or
// brightness, an unparseable acquisition date, or an unknown confidence value
// are skipped individually. A bad row never discards the rest of the batch.
//
// # Risk Tiers
//
// A forest's tier is derived from its single closest detection:
//
//	<5 km critical | <10 km high | <20 km moderate | otherwise low
//
// Each bound is exclusive: exactly 5 km is high, exactly 20 km is low. No
// detection at all is low. See [Classify].
//
// # ID Generation
//
// Detection IDs are truncated SHA-256 hashes of lat|lon|date|time|satellite, so
// the same hot-spot reported in overlapping fetch windows keeps its ID.
package domain
