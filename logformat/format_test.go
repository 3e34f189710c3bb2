package logformat

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	h := Header{Arch: ArchX64, DiagEnabled: true, UsedMemory: 1024, ReservedMemory: 4096}
	require.NoError(t, w.WriteHeader(h))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	got, err := r.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.NoError(t, r.Errors())
}

func TestHeaderCompatibility(t *testing.T) {
	h := Header{Arch: ArchX64, DiagEnabled: false}
	assert.NoError(t, h.CheckCompatible(ArchX64, false))
	assert.Error(t, h.CheckCompatible(ArchARM64, false))
	assert.Error(t, h.CheckCompatible(ArchX64, true))
}

func TestBlockIndentation(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteField("before", "1"))
	require.NoError(t, w.BeginBlock("JsRTCallFunctionBegin"))
	require.NoError(t, w.WriteField("inside", "2"))
	require.NoError(t, w.EndBlock())
	require.NoError(t, w.WriteField("after", "3"))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	var lines []Line
	for {
		l, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		lines = append(lines, l)
	}

	require.Len(t, lines, 5)
	assert.Equal(t, "before", lines[0].Field)
	assert.Equal(t, 0, lines[0].IndentBefore)
	assert.True(t, lines[1].IsBegin)
	assert.Equal(t, "JsRTCallFunctionBegin", lines[1].Block)
	assert.Equal(t, "inside", lines[2].Field)
	assert.Equal(t, 1, lines[2].IndentBefore)
	assert.True(t, lines[3].IsEnd)
	assert.Equal(t, "after", lines[4].Field)
	assert.Equal(t, 0, lines[4].IndentBefore)
}

func TestMalformedLinesAggregate(t *testing.T) {
	input := "not-a-field-line\nfield: ok\nanother-bad-one\n"
	r := NewReader(bytes.NewBufferString(input))

	l, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "field", l.Field)
	assert.Equal(t, "ok", l.Value)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)

	require.Error(t, r.Errors())
	assert.Contains(t, r.Errors().Error(), "2 error(s) occurred")
}

func TestDumpProducesAlignedColumns(t *testing.T) {
	out := Dump([]Row{
		{EventTime: 0, Kind: "DateTime", Indent: 0},
		{EventTime: 1, Kind: "JsRTCallFunctionBegin", Indent: 0},
		{EventTime: 2, Kind: "RandomSeed", Indent: 1},
	})
	assert.Contains(t, out, "DateTime")
	assert.Contains(t, out, "JsRTCallFunctionBegin")
}
