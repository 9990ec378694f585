package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/festival-guide/internal/catalog"
	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const festivalsCSV = `축제명,광역자치단체명,개최 장소,축제 유형,시작월,외국인(명)
Fest A,서울,광화문광장,문화예술,10,"1,200"
Fest B,부산,해운대,주민화합,10,미집계
Fest C,서울,여의도,자연생태,4,500
`

func writeDataset(t *testing.T) string {
	t.Helper()
	return writeCSV(t, festivalsCSV)
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "festivals.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func dataArgs(t *testing.T, args ...string) []string {
	return append(args, "--data", writeDataset(t), "--encodings", "utf-8", "--seed", "1")
}

func festivalNames(fs []domain.Festival) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}

func TestFilter_JSON(t *testing.T) {
	out, err := execute(t, "", dataArgs(t, "filter", "--month", "10", "--json")...)
	require.NoError(t, err)

	var got []domain.Festival
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Fest A", "Fest B"}, festivalNames(got))
}

func TestFilter_DefaultMonthAndRegion(t *testing.T) {
	out, err := execute(t, "", dataArgs(t, "filter", "--region", "서울")...)
	require.NoError(t, err)

	assert.Contains(t, out, "Fest A")
	assert.NotContains(t, out, "Fest B")
	assert.NotContains(t, out, "Fest C")
}

func TestFilter_NoMatch(t *testing.T) {
	out, err := execute(t, "", dataArgs(t, "filter", "--month", "7")...)
	require.NoError(t, err)
	assert.Contains(t, out, "no festivals match")
}

func TestFilter_InvalidMonth(t *testing.T) {
	_, err := execute(t, "", dataArgs(t, "filter", "--month", "13")...)
	require.ErrorIs(t, err, domain.ErrInvalidMonth)
}

func TestRanking(t *testing.T) {
	out, err := execute(t, "", dataArgs(t, "ranking", "--limit", "1", "--json")...)
	require.NoError(t, err)

	var got []domain.Festival
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Fest A"}, festivalNames(got))
}

func TestRanking_NoReportedVisitors(t *testing.T) {
	data := writeCSV(t, `축제명,광역자치단체명,개최 장소,축제 유형,시작월,외국인(명)
Fest B,부산,해운대,주민화합,10,미집계
Fest D,대구,수성못,문화예술,5,최초 행사
`)

	out, err := execute(t, "", "ranking", "--data", data, "--encodings", "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "no festivals with reported visitors\n", out)

	out, err = execute(t, "", "ranking", "--data", data, "--encodings", "utf-8", "--json")
	require.NoError(t, err)
	var got []domain.Festival
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got)
}

func TestSeasonal(t *testing.T) {
	out, err := execute(t, "", dataArgs(t, "seasonal")...)
	require.NoError(t, err)

	assert.Contains(t, out, "spring (3, 4, 5)")
	assert.Contains(t, out, "Fest C")
	assert.Contains(t, out, "winter (12, 1, 2)")
}

func TestQuality(t *testing.T) {
	out, err := execute(t, "", dataArgs(t, "quality", "--json")...)
	require.NoError(t, err)

	var meta catalog.Meta
	require.NoError(t, json.Unmarshal([]byte(out), &meta))
	assert.Equal(t, 3, meta.Rows)
	assert.Equal(t, "utf-8", meta.Encoding)
	assert.Equal(t, 1, meta.Quality.VisitorStatus[domain.CountNotTallied])
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	_, err := execute(t, "", dataArgs(t, "export", "--out", path)...)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Festivals", "Ranking", "Seasonal"}, f.GetSheetList())

	rows, err := f.GetRows("Ranking")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fest A", rows[1][1])
}

func TestMissingDataset(t *testing.T) {
	_, err := execute(t, "", "ranking", "--data", filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestChat(t *testing.T) {
	var out bytes.Buffer
	transcript, err := runChat(strings.NewReader("any food festivals?\n\nexit\nignored\n"), &out)
	require.NoError(t, err)

	msgs := transcript.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, domain.Greeting, msgs[0].Content)
	assert.Equal(t, "any food festivals?", msgs[1].Content)
	assert.Contains(t, out.String(), domain.Greeting)
	assert.Equal(t, domain.Reply("any food festivals?").Text, msgs[2].Content)
}

func TestChat_Command(t *testing.T) {
	out, err := execute(t, "tell me about music\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, domain.Reply("tell me about music").Text)
}
