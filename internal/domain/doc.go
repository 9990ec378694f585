// Package domain models the Korean regional festival dataset.
//
// # Data Source
//
// The dataset is the yearly "지역축제" table published by the Ministry of
// Culture, Sports and Tourism, distributed as a CSV (usually CP949 encoded,
// occasionally UTF-8) or as an .xlsx workbook. Each row is one festival.
//
// # Columns
//
// Only a handful of the published columns are interpreted; every other
// column is carried through untouched in [Festival.Fields]:
//
//	축제명          festival name
//	광역자치단체명  host region, free text ("서울특별시", "경기도", "경북")
//	개최 장소       venue
//	축제 유형       category, open vocabulary ("문화예술", "전통역사", ...)
//	시작월          start month, 1-12
//	외국인(명)      foreign visitors counted at the previous edition
//
// # Value Conventions
//
// Visitor counts use thousands separators ("1,200") and two textual
// sentinels: "미집계" (not tallied) and "최초 행사" (first edition, nothing to
// count). Both normalize to 0, as does anything that does not parse. The
// reason is kept in [VisitorCount.Status] so "reported zero" and "unknown"
// remain distinguishable.
//
// Months outside 1-12 or that do not parse become 0, which means unknown and
// belongs to no season.
//
// # Coordinates
//
// The dataset has no coordinates. A position is derived from the first two
// characters of the region name ("경기도" -> "경기") looked up in a 17-entry
// centroid table, falling back to (36.5, 127.5). Gaussian jitter is added so
// festivals of the same region do not stack on a map. The random source is a
// parameter of [Derive]; pass a seeded source for reproducible output.
//
// # Filtering
//
// Region filtering uses exact string equality on the full region value,
// unlike the centroid lookup, which only looks at the two-character prefix.
package domain
