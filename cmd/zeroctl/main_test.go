package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerosite/zerosite/internal/models"
)

const cliDocument = `Preface
A short preface.
Chapter 1: Zero
Chapter 1: Zero
Principle 1: Begin.
Body.
Conclusion:
Fin.`

func writeDocument(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zero.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseJSON(t *testing.T) {
	path := writeDocument(t, cliDocument)

	out, err := run(t, "parse", path)
	require.NoError(t, err)

	var content models.ZeroContent
	require.NoError(t, json.Unmarshal([]byte(out), &content))
	assert.Equal(t, "A short preface.", content.Preface)
	assert.Equal(t, "Fin.", content.Conclusion)
	require.Len(t, content.Chapters, 1)
	require.Len(t, content.Chapters[0].Principles, 1)
	assert.Equal(t, "Begin.\nBody.", content.Chapters[0].Principles[0].Content)
}

func TestParseOutline(t *testing.T) {
	path := writeDocument(t, cliDocument)

	out, err := run(t, "parse", path, "--format", "outline")
	require.NoError(t, err)
	assert.Contains(t, out, "chapter-1  Chapter 1: Zero")
	assert.Contains(t, out, "chapter-1-principle-1  Principle 1: Begin. (1 paragraphs)")
	assert.Contains(t, out, "1 chapters, 1 principles")
}

func TestParseNoTOC(t *testing.T) {
	path := writeDocument(t, "Chapter 1: Zero\nPrinciple 1: Begin.\n")

	out, err := run(t, "parse", path, "--no-toc")
	require.NoError(t, err)

	var content models.ZeroContent
	require.NoError(t, json.Unmarshal([]byte(out), &content))
	require.Len(t, content.Chapters, 1)

	// 默认模式下第一个 "Chapter 1:" 被当作目录
	out, err = run(t, "parse", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &content))
	assert.Empty(t, content.Chapters)
}

func TestParseErrors(t *testing.T) {
	_, err := run(t, "parse", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = run(t, "parse", writeDocument(t, cliDocument), "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestMeta(t *testing.T) {
	path := writeDocument(t, cliDocument)

	out, err := run(t, "meta", path, "--chapter", "1", "--principle", "1", "--site-url", "https://zero.example/")
	require.NoError(t, err)

	var meta models.PageMetadata
	require.NoError(t, json.Unmarshal([]byte(out), &meta))
	assert.Equal(t, "Begin. | Chapter 1: Zero | Zero", meta.Title)
	assert.Equal(t, "https://zero.example/zero#chapter-1-principle-1", meta.CanonicalURL)

	_, err = run(t, "meta", path, "--chapter", "4")
	assert.ErrorContains(t, err, "chapter 4 not found")
}
