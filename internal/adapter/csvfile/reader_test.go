package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

const sampleCSV = "축제명,광역자치단체명,개최 장소,축제 유형,시작월,외국인(명)\n" +
	"진주남강유등축제,경상남도,진주성 일원,문화예술,10,\"12,000\"\n" +
	"부산불꽃축제,부산광역시,광안리해수욕장,문화예술,11,미집계\n" +
	"가,서울특별시,여의도공원,자연생태,4,500\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func encodeCP949(t *testing.T, s string) []byte {
	t.Helper()
	out, err := korean.EUCKR.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func TestReader_LoadCP949(t *testing.T) {
	path := writeFile(t, "festivals.csv", encodeCP949(t, sampleCSV))

	tbl, err := NewReader(path, nil).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, EncodingCP949, tbl.Encoding)
	assert.Equal(t, []string{"축제명", "광역자치단체명", "개최 장소", "축제 유형", "시작월", "외국인(명)"}, tbl.Headers)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "진주남강유등축제", tbl.Rows[0][0])
	assert.Equal(t, "12,000", tbl.Rows[0][5])
	assert.Equal(t, "미집계", tbl.Rows[1][5])
}

func TestReader_FallsBackToUTF8(t *testing.T) {
	// The "가," row start is not valid CP949, forcing the fallback.
	path := writeFile(t, "festivals.csv", []byte(sampleCSV))

	tbl, err := NewReader(path, nil).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, EncodingUTF8, tbl.Encoding)
	assert.Equal(t, domain.ColumnName, tbl.Headers[0])
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "가", tbl.Rows[2][0])
}

func TestReader_BothEncodingsFail(t *testing.T) {
	path := writeFile(t, "broken.csv", []byte{0x80, ',', 0xff, '\n'})

	_, err := NewReader(path, nil).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), EncodingCP949)
	assert.Contains(t, err.Error(), EncodingUTF8)
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv"), nil).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader("unused.csv", nil).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_RaggedRowsAndBOM(t *testing.T) {
	data := []byte("\ufeff축제명 , 시작월\n짧은행\n긴행,5,extra\n")

	tbl, err := Parse(data, []string{EncodingUTF8})
	require.NoError(t, err)

	assert.Equal(t, []string{"축제명", "시작월"}, tbl.Headers)
	assert.Equal(t, []string{"짧은행", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"긴행", "5"}, tbl.Rows[1])
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(nil, []string{EncodingUTF8})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty file")
}

func TestParseEncodings(t *testing.T) {
	encs, err := ParseEncodings("CP949, utf8")
	require.NoError(t, err)
	assert.Equal(t, []string{EncodingCP949, EncodingUTF8}, encs)

	encs, err = ParseEncodings("euc-kr")
	require.NoError(t, err)
	assert.Equal(t, []string{EncodingCP949}, encs)

	_, err = ParseEncodings("latin1")
	assert.Error(t, err)

	_, err = ParseEncodings(" , ")
	assert.Error(t, err)
}
