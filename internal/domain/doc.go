// Package domain models the college-football broadcast tables behind the
// viewership and attendance dashboard, and the per-row transforms that turn them
// into analysis-ready records.
//
// # Data Sources
//
// Three flat tables are read once at startup:
//
//	Games     games_flat_xml_2012-2018.csv  one row per game (box-score XML flattened)
//	Ratings   TV_Ratings_onesheet.csv       one row per broadcast (network, viewers, rating)
//	Capacity  capacity.csv                  one row per (home team, stadium) with seat count
//
// Games and Ratings share the composite key column "TeamIDsDate" (both team
// identifiers plus the game date). Capacity is keyed by ("homename", "stadium").
//
// # Known Bad Values
//
// Eight rows of the Games table carry malformed "duration" strings. They are
// overwritten by position (0-based data row index) before any parsing:
//
//	312 -> "0:00"   483 -> "3:25"   491 -> "0:00"   579 -> "3:14"
//	624 -> "3:05"   679 -> "3:07"   773 -> "2:11"   781 -> "3:00"
//
// Attendance above 200,000 is a data-entry typo and is replaced with 71004.
// Both corrections are idempotent. See [ApplyDurationPatches] and
// [CorrectAttendance].
//
// Duration format:
//
//	"H:MM", e.g. "3:07" = 187 minutes. Anything else after patching is a
//	[FormatError]; there is no silent default.
//
// Rank format:
//
//	Integer poll position 1-25. Unranked teams carry the literal text
//	"character(0)" (an R export artifact), normalized to 26. See [NormalizeRank].
//
// # Weather Categories
//
// Free-text weather descriptions are bucketed by ordered, case-insensitive
// keyword rules; the first rule with a matching keyword wins:
//
//	Clear    sunny, clear, fair, beautiful, nice
//	Cloudy   cloudy, cldy, clouds, foggy, overcast, haze
//	Rain     rain, showers, storms, scattered
//	Indoors  roof closed, indoors, indoor, dome
//	Hot      humidity, humid, hot, warm, muggy
//	Cold     cool
//
// Empty or unmatched text is Unknown.
//
// # Tracked Teams
//
// The fourteen conference members in [Roster] get a membership flag on every
// enriched game. Matching is substring-based by default, which misfires when a
// roster name is contained in another school's name ("Florida" in
// "Florida State"). [MatchExact] compares whole team names instead.
package domain
