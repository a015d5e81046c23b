package compare

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alc6/pgdbdiff/describe"
)

var baseDefinition = describe.Definition{
	`Table "public.orders"`,
	` Column | Type`,
	`--------+------`,
	` id     | integer`,
	`Indexes:`,
	`    "orders_pkey" PRIMARY KEY, btree (id)`,
}

func withExtraIndex() describe.Definition {
	def := append(describe.Definition{}, baseDefinition...)
	return append(def, `    "orders_zz_idx" btree (id)`)
}

func TestRenderDiff(t *testing.T) {
	t.Run("added_index_line", func(t *testing.T) {
		diff, err := RenderDiff(baseDefinition, withExtraIndex(), "TABLES.db1.orders", "TABLES.db2.orders")
		require.NoError(t, err)

		expected := `--- TABLES.db1.orders
+++ TABLES.db2.orders
@@ -1,6 +1,7 @@
 Table "public.orders"
  Column | Type
 --------+------
  id     | integer
 Indexes:
     "orders_pkey" PRIMARY KEY, btree (id)
+    "orders_zz_idx" btree (id)
`
		assert.Equal(t, expected, diff)
	})

	t.Run("full_context", func(t *testing.T) {
		first := describe.Definition{"h", "--", " a", " b", " c", " d", " e", " f", " g", " h", " i", " j", " k"}
		second := describe.Definition{"h", "--", " a", " b", " c", " d", " e", " f", " g", " h", " i", " j", " z"}

		diff, err := RenderDiff(first, second, "a", "b")
		require.NoError(t, err)

		body := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
		require.GreaterOrEqual(t, len(body), 3)
		assert.Equal(t, "@@ -1,13 +1,13 @@", body[2])
		hunk := body[3:]
		for _, line := range first {
			assert.True(t, contains(hunk, " "+line) || contains(hunk, "-"+line), "missing %q", line)
		}
		for _, line := range second {
			assert.True(t, contains(hunk, " "+line) || contains(hunk, "+"+line), "missing %q", line)
		}
		assert.Len(t, hunk, 14)
	})

	t.Run("equal_definitions_render_empty", func(t *testing.T) {
		diff, err := RenderDiff(baseDefinition, baseDefinition, "a", "b")
		require.NoError(t, err)
		assert.Empty(t, diff)
	})
}

func contains(lines []string, want string) bool {
	for _, line := range lines {
		if line == want {
			return true
		}
	}
	return false
}

func TestDiffLabel(t *testing.T) {
	assert.Equal(t, "MATERIALIZED VIEWS.shop.totals", DiffLabel(CategoryMaterializedViews, "shop", "totals"))
}

func TestDiffWriter(t *testing.T) {
	t.Run("creates_directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "diffs")
		w := DiffWriter{Dir: dir}

		path, err := w.Write("orders", "diff text")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "orders.diff"), path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "diff text", string(content))
	})

	t.Run("overwrites_existing_file", func(t *testing.T) {
		dir := t.TempDir()
		w := DiffWriter{Dir: dir}

		_, err := w.Write("orders", "old content that is longer")
		require.NoError(t, err)
		path, err := w.Write("orders", "new")
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(content))
	})

	t.Run("disabled_without_directory", func(t *testing.T) {
		w := DiffWriter{}
		assert.False(t, w.Enabled())
		path, err := w.Write("orders", "diff")
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("escapes_path_separators", func(t *testing.T) {
		dir := t.TempDir()
		path, err := DiffWriter{Dir: dir}.Write("a/b", "diff")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "a%2Fb.diff"), path)
	})

	t.Run("directory_is_a_file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, err := DiffWriter{Dir: file}.Write("orders", "diff")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create diff directory")
	})
}
