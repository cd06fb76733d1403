package extract

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalilKhassep/extractwind/internal/dom"
	"github.com/khalilKhassep/extractwind/internal/ident"
)

func sequential(doc *dom.Document) ident.Generator {
	return ident.NewSequential(ident.DefaultPrefix, ExistingIDs(doc, DefaultAttr))
}

func TestRunCard(t *testing.T) {
	doc := dom.Parse([]byte(`<div class="flex p-2">hello</div>`))

	res, err := Run(doc, Options{FileBase: "card", Generator: sequential(doc)})
	require.NoError(t, err)

	assert.Equal(t, `<div class="auto-gen-1-card" data-class-name="auto-gen-1">hello</div>`, string(doc.Bytes()))
	require.Equal(t, 1, res.Mapping.Len())

	rec, ok := res.Mapping.Get("auto-gen-1")
	require.True(t, ok)
	assert.Equal(t, []string{"flex", "p-2"}, rec.OriginalClasses)
	assert.Equal(t, "auto-gen-1-card", rec.NewClass)
	assert.Equal(t, 1, res.Generated())
	assert.Equal(t, 0, res.Reused())
}

func TestRunRandomIDs(t *testing.T) {
	doc := dom.Parse([]byte(`<div class="flex p-2"><span class="m-1"></span></div>`))

	res, err := Run(doc, Options{FileBase: "card", Generator: &ident.Random{Prefix: ident.DefaultPrefix}})
	require.NoError(t, err)
	require.Len(t, res.Changes, 2)

	pattern := regexp.MustCompile(`^auto-gen-[0-9a-z]{13}$`)
	for _, c := range res.Changes {
		assert.Regexp(t, pattern, c.ID)
		assert.Equal(t, c.ID+"-card", c.NewClass)
	}
	assert.NotEqual(t, res.Changes[0].ID, res.Changes[1].ID)
}

func TestRunIdempotentIDs(t *testing.T) {
	input := `<section class="grid gap-4">
  <h2 class="text-lg font-bold">Title</h2>
  <p class="{{ $cls }}">Body</p>
</section>`

	first := dom.Parse([]byte(input))
	res1, err := Run(first, Options{FileBase: "page", Generator: &ident.Random{Prefix: ident.DefaultPrefix}})
	require.NoError(t, err)

	second := dom.Parse(first.Bytes())
	res2, err := Run(second, Options{FileBase: "page", Generator: &ident.Random{Prefix: ident.DefaultPrefix}})
	require.NoError(t, err)

	assert.Equal(t, res1.Mapping.Keys(), res2.Mapping.Keys())
	assert.Equal(t, 0, res2.Generated())
	assert.Equal(t, 3, res2.Reused())
	assert.Equal(t, string(first.Bytes()), string(second.Bytes()))
}

func TestRunRecordCompleteness(t *testing.T) {
	input := `<ul class="list">
  <li class="a">1</li>
  <li>no class</li>
  <li class="">empty</li>
  <li class="b c" data-class-name="keep-me">3</li>
</ul>
<svg class="h-4"><path class="fill-current"/></svg>`

	doc := dom.Parse([]byte(input))
	classed := len(doc.FindAll(dom.HasAttr(ClassAttr)))

	res, err := Run(doc, Options{FileBase: "list", Generator: sequential(doc)})
	require.NoError(t, err)
	assert.Equal(t, classed, res.Mapping.Len())
	assert.Equal(t, 6, classed)

	for _, el := range doc.FindAll(dom.HasAttr(ClassAttr)) {
		id, ok := el.Attr(DefaultAttr)
		require.True(t, ok)
		class, _ := el.Attr(ClassAttr)
		assert.Equal(t, id+"-list", class)

		rec, ok := res.Mapping.Get(id)
		require.True(t, ok)
		assert.Equal(t, class, rec.NewClass)
	}

	rec, _ := res.Mapping.Get("keep-me")
	assert.Equal(t, []string{"b", "c"}, rec.OriginalClasses)
	assert.Equal(t, 1, res.Reused())
}

func TestRunEmptyClass(t *testing.T) {
	doc := dom.Parse([]byte(`<span class="{{ $cls }}">x</span>`))

	res, err := Run(doc, Options{FileBase: "badge", Generator: sequential(doc)})
	require.NoError(t, err)

	rec, ok := res.Mapping.Get("auto-gen-1")
	require.True(t, ok)
	assert.NotNil(t, rec.OriginalClasses)
	assert.Empty(t, rec.OriginalClasses)
	assert.Equal(t, `<span class="auto-gen-1-badge" data-class-name="auto-gen-1">x</span>`, string(doc.Bytes()))
}

func TestRunDiscardedTokens(t *testing.T) {
	doc := dom.Parse([]byte(`<div class="p-4 w-[10px] @if($a) hidden @endif">x</div>`))

	res, err := Run(doc, Options{FileBase: "v", Generator: sequential(doc)})
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)

	assert.Equal(t, []string{"w-[10px]"}, res.Changes[0].Discarded)
	rec, _ := res.Mapping.Get(res.Changes[0].ID)
	assert.Equal(t, []string{"p-4", "hidden"}, rec.OriginalClasses)
}

func TestRunDuplicateIDs(t *testing.T) {
	doc := dom.Parse([]byte(`<a class="x" data-class-name="dup"></a><b class="y" data-class-name="dup"></b>`))

	res, err := Run(doc, Options{FileBase: "v", Generator: sequential(doc)})
	require.NoError(t, err)

	assert.Equal(t, []string{"dup"}, res.Duplicates)
	assert.Equal(t, 1, res.Mapping.Len())
	rec, _ := res.Mapping.Get("dup")
	assert.Equal(t, []string{"y"}, rec.OriginalClasses)
}

func TestRunEmptyIDRegenerated(t *testing.T) {
	doc := dom.Parse([]byte(`<div class="m-2" data-class-name="">x</div>`))

	res, err := Run(doc, Options{FileBase: "v", Generator: sequential(doc)})
	require.NoError(t, err)
	assert.Equal(t, `<div class="auto-gen-1-v" data-class-name="auto-gen-1">x</div>`, string(doc.Bytes()))
	assert.Equal(t, 1, res.Generated())
}

func TestRunDirectiveInTag(t *testing.T) {
	doc := dom.Parse([]byte(`<input class="form-control" @if($errors->has('email')) autofocus @endif>`))

	res, err := Run(doc, Options{FileBase: "login", Generator: sequential(doc)})
	require.NoError(t, err)
	assert.Equal(t,
		`<input class="auto-gen-1-login" data-class-name="auto-gen-1" @if($errors->has('email')) autofocus @endif>`,
		string(doc.Bytes()))
	rec, ok := res.Mapping.Get("auto-gen-1")
	require.True(t, ok)
	assert.Equal(t, []string{"form-control"}, rec.OriginalClasses)
}

func TestRunCustomAttr(t *testing.T) {
	doc := dom.Parse([]byte(`<div class="m-2">x</div>`))

	_, err := Run(doc, Options{Attr: "data-x", FileBase: "v", Generator: ident.NewSequential("id", nil)})
	require.NoError(t, err)
	assert.Equal(t, `<div class="id1-v" data-x="id1">x</div>`, string(doc.Bytes()))
}

type failingGen struct{}

func (failingGen) Next() (string, error) { return "", errors.New("entropy exhausted") }

func TestRunGeneratorError(t *testing.T) {
	doc := dom.Parse([]byte(`<div class="m-2">x</div>`))

	_, err := Run(doc, Options{FileBase: "v", Generator: failingGen{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element <div>")
	assert.Contains(t, err.Error(), "entropy exhausted")

	_, err = Run(doc, Options{FileBase: "v"})
	assert.Error(t, err)
}

func TestFileBase(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"resources/views/card.blade.php", "card"},
		{"card.blade.php", "card"},
		{"a/b/user-profile.blade.php", "user-profile"},
		{"plain.php", "plain.php"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FileBase(tt.path, ".blade.php"))
		})
	}
}
