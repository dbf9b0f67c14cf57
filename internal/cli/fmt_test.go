package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodeweave/internal/codec"
)

const compactDocument = `{"nodes":[{"id":"a","position":{"x":1,"y":2},"data":{"label":"A","color":"#fff","inputs":[],"outputs":[]}}]}`

func TestFmtCommandPrintsIndentedForm(t *testing.T) {
	path := writeFile(t, "doc.json", compactDocument)

	out, err := execute(NewFmtCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	doc, err := codec.Decode([]byte(compactDocument))
	require.NoError(t, err)
	want, err := codec.EncodeIndent(doc)
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", out)

	// stdout mode leaves the file alone
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, compactDocument, string(data))
}

func TestFmtCommandIsIdempotent(t *testing.T) {
	path := writeFile(t, "doc.json", compactDocument)

	first, err := execute(NewFmtCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	again := writeFile(t, "again.json", first)
	second, err := execute(NewFmtCommand(&RootOptions{Format: "text"}), again)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFmtCommandWrite(t *testing.T) {
	path := writeFile(t, "doc.json", compactDocument)

	out, err := execute(NewFmtCommand(&RootOptions{Format: "text"}), "--write", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = execute(NewFmtCommand(&RootOptions{Format: "text"}), "--check", path)
	assert.NoError(t, err)
}

func TestFmtCommandCheckUnformatted(t *testing.T) {
	path := writeFile(t, "doc.json", compactDocument)

	_, err := execute(NewFmtCommand(&RootOptions{Format: "text"}), "--check", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "is not formatted")
}

func TestFmtCommandMalformed(t *testing.T) {
	path := writeFile(t, "doc.json", `{`)

	_, err := execute(NewFmtCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
