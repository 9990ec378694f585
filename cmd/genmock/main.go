// Command genmock writes a synthetic festival dataset in the layout of the
// public regional festival CSV: CP949 encoded by default, with the visitor
// sentinels and unknown months the real file contains.
//
// Usage:
//
//	go run ./cmd/genmock -out "2025년 지역축제.CSV" -rows 200 -seed 7
//	go run ./cmd/genmock -out data/festivals.xlsx -format xlsx
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/couchcryptid/festival-guide/internal/adapter/csvfile"
	"github.com/couchcryptid/festival-guide/internal/adapter/xlsx"
	"github.com/couchcryptid/festival-guide/internal/domain"
	"golang.org/x/text/encoding/korean"
)

var regions = []string{
	"서울특별시", "부산광역시", "대구광역시", "인천광역시", "광주광역시",
	"대전광역시", "울산광역시", "세종특별자치시", "경기도", "강원특별자치도",
	"충청북도", "충청남도", "전북특별자치도", "전라남도", "경상북도",
	"경상남도", "제주특별자치도",
}

var categories = []string{"문화예술", "주민화합", "자연생태", "전통역사", "지역특산물", "기타"}

var themes = []string{"빛", "불꽃", "국화", "벚꽃", "머드", "재즈", "김치", "한우", "단풍", "눈꽃", "유등", "탈춤"}

// Columns in the order of the public file. 개최 기간 is carried through as a
// passthrough field.
var headers = []string{
	domain.ColumnName, domain.ColumnRegion, domain.ColumnVenue,
	domain.ColumnCategory, "개최 기간", domain.ColumnMonth, domain.ColumnVisitors,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path")
	rows := flag.Int("rows", 120, "number of festivals")
	seed := flag.Uint64("seed", 1, "random seed")
	format := flag.String("format", csvfile.EncodingCP949, "cp949, utf-8, or xlsx")
	flag.Parse()

	if *out == "" || *rows <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -rows > 0")
	}

	tbl := generate(*rows, rand.New(rand.NewPCG(*seed, *seed)))

	var buf bytes.Buffer
	if err := encode(&buf, tbl, *format); err != nil {
		return err
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %d festivals to %s (%s)", *rows, *out, *format)
	return nil
}

func generate(n int, rng *rand.Rand) domain.Table {
	tbl := domain.Table{Headers: headers}
	for i := range n {
		region := regions[rng.IntN(len(regions))]
		month := 1 + rng.IntN(12)
		theme := themes[rng.IntN(len(themes))]

		monthCell := strconv.Itoa(month)
		if rng.IntN(40) == 0 {
			monthCell = "미정"
		}

		tbl.Rows = append(tbl.Rows, []string{
			fmt.Sprintf("%s %s축제 %d", domain.RegionPrefix(region), theme, i+1),
			region,
			fmt.Sprintf("%s 일원", domain.RegionPrefix(region)),
			categories[rng.IntN(len(categories))],
			fmt.Sprintf("2025.%02d.%02d~2025.%02d.%02d", month, 1+rng.IntN(20), month, 21+rng.IntN(8)),
			monthCell,
			visitorsCell(rng),
		})
	}
	return tbl
}

func visitorsCell(rng *rand.Rand) string {
	switch r := rng.IntN(10); {
	case r == 0:
		return "미집계"
	case r == 1:
		return "최초 행사"
	case r == 2:
		return ""
	default:
		return withThousands(rng.IntN(250_000))
	}
}

func withThousands(n int) string {
	s := strconv.Itoa(n)
	var b []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			b = append(b, ',')
		}
		b = append(b, s[i])
	}
	return string(b)
}

func encode(w io.Writer, tbl domain.Table, format string) error {
	switch format {
	case xlsx.EncodingXLSX:
		return xlsx.WriteTable(w, tbl)
	case csvfile.EncodingUTF8:
		return writeCSV(w, tbl)
	case csvfile.EncodingCP949:
		var utf bytes.Buffer
		if err := writeCSV(&utf, tbl); err != nil {
			return err
		}
		raw, err := korean.EUCKR.NewEncoder().Bytes(utf.Bytes())
		if err != nil {
			return fmt.Errorf("encode cp949: %w", err)
		}
		_, err = w.Write(raw)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeCSV(w io.Writer, tbl domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(tbl.Rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
