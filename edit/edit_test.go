package edit

import (
	"testing"

	"github.com/revelaction/terms/pattern"
	"github.com/revelaction/terms/storage/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	store := filesystem.NewRuleStore(t.TempDir())
	h, err := NewHandler(store)
	require.NoError(t, err)
	assert.Empty(t, h.Library)

	msg, err := h.Apply("ADJ-NOUN ADJ NOUN")
	require.NoError(t, err)
	assert.Equal(t, "added to ADJ-NOUN", msg)

	_, err = h.Apply("ADJ-NOUN ADJ NOUN")
	assert.Error(t, err)

	_, err = h.Apply("ADJ-NOUN ADJ+ PROPN")
	require.NoError(t, err)

	r, ok := h.Library.Rule("ADJ-NOUN")
	require.True(t, ok)
	assert.Len(t, r.Pattern, 2)

	stored, err := store.Read("ADJ-NOUN")
	require.NoError(t, err)
	assert.True(t, pattern.EqualRule(r, stored))

	msg, err = h.Apply("ADJ-NOUN ADJ NOUN/")
	require.NoError(t, err)
	assert.Equal(t, "removed from ADJ-NOUN", msg)

	_, err = h.Apply("ADJ-NOUN ADJ NOUN /")
	assert.Error(t, err)

	msg, err = h.Apply("ADJ-NOUN ADJ+ PROPN /")
	require.NoError(t, err)
	assert.Equal(t, "deleted rule ADJ-NOUN", msg)
	assert.Empty(t, h.Library)
}

func TestApplyErrors(t *testing.T) {
	h, err := NewHandler(filesystem.NewRuleStore(t.TempDir()))
	require.NoError(t, err)

	for _, in := range []string{"", "ADJ-NOUN", "NOUN-NOUN NOUN/", "X ,"} {
		_, err := h.Apply(in)
		assert.Error(t, err, in)
	}
}

func TestApplyRemovesPrintedSequence(t *testing.T) {
	h, err := NewHandler(filesystem.NewRuleStore(t.TempDir()))
	require.NoError(t, err)

	for _, in := range []string{"R NOUN,lemma=house", "D dep=nsubj", "T tag=NN", "P _? is_punct=false"} {
		_, err := h.Apply(in)
		require.NoError(t, err, in)
	}

	for _, label := range []string{"R", "D", "T", "P"} {
		r, ok := h.Library.Rule(label)
		require.True(t, ok, label)

		msg, err := h.Apply(label + " " + seqString(r.Pattern[0]) + "/")
		require.NoError(t, err, label)
		assert.Equal(t, "deleted rule "+label, msg)
	}

	assert.Empty(t, h.Library)
}
