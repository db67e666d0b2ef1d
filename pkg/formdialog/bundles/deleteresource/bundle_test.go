package deleteresource

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

func labels(defs []formspec.FieldDefinition) []string {
	var out []string
	for _, def := range defs {
		if def.Kind == formspec.KindLabel {
			out = append(out, def.Label)
		}
	}
	return out
}

func findField(defs []formspec.FieldDefinition, id string) (formspec.FieldDefinition, bool) {
	for _, def := range defs {
		if def.ID == id {
			return def, true
		}
	}
	return formspec.FieldDefinition{}, false
}

func TestSingleResourceWithoutSiblings(t *testing.T) {
	t.Parallel()

	req := Request{Resources: []Resource{{Path: "/news/a.html"}}}
	defs, err := Fields(req)
	require.NoError(t, err)

	require.Equal(t, "Delete /news/a.html", Title(req))
	require.Equal(t, []string{"Do you really want to delete this resource?"}, labels(defs))
	_, ok := findField(defs, FieldDeleteSiblings)
	require.False(t, ok)
}

func TestSingleResourceWithSiblingsWarns(t *testing.T) {
	t.Parallel()

	req := Request{Resources: []Resource{{Path: "/news/a.html", Siblings: 2}}, DeleteSiblings: true}
	defs, err := Fields(req)
	require.NoError(t, err)

	require.Equal(t, []string{
		"Do you really want to delete these resources?",
		"Some of the selected resources have siblings.",
	}, labels(defs))
	sel, ok := findField(defs, FieldDeleteSiblings)
	require.True(t, ok)
	require.Equal(t, formspec.KindSelect, sel.Kind)
	require.Equal(t, "true", sel.Default)
	require.Len(t, sel.Options, 2)
}

func TestMultipleResourcesOfferSiblingModeWithoutWarning(t *testing.T) {
	t.Parallel()

	req := Request{
		Locale:    "de",
		Resources: []Resource{{Path: "/a.html"}, {Path: "/b.html"}},
	}
	defs, err := Fields(req)
	require.NoError(t, err)

	require.Equal(t, "2 Ressourcen löschen", Title(req))
	require.Equal(t, []string{"Wollen Sie diese Ressourcen wirklich löschen?"}, labels(defs))
	sel, ok := findField(defs, FieldDeleteSiblings)
	require.True(t, ok)
	require.Equal(t, "false", sel.Default)
}

func TestFolderOffersSiblingMode(t *testing.T) {
	t.Parallel()

	defs, err := Fields(Request{Resources: []Resource{{Path: "/news/", Folder: true}}})
	require.NoError(t, err)
	_, ok := findField(defs, FieldDeleteSiblings)
	require.True(t, ok)
	require.NotContains(t, labels(defs), "Some of the selected resources have siblings.")
}

func TestRelationsAreListedSortedByResource(t *testing.T) {
	t.Parallel()

	defs, err := Fields(Request{Resources: []Resource{
		{Path: "/b.html", Relations: []Relation{{SourcePath: "/index.html"}}},
		{Path: "/a.html", Relations: []Relation{{SourcePath: "/shop/list.html", Site: "Shop"}}},
		{Path: "/c.html"},
	}})
	require.NoError(t, err)

	require.Equal(t, []string{
		"Do you really want to delete these resources?",
		"Deleting will break links from /a.html",
		"  • /shop/list.html (site Shop)",
		"Deleting will break links from /b.html",
		"  • /index.html",
	}, labels(defs))
	require.NoError(t, formspec.Normalize(defs))
}

func TestNoResources(t *testing.T) {
	t.Parallel()

	_, err := Fields(Request{})
	require.ErrorIs(t, err, cmserror.New(messages.ErrorDeleteNoResources))
	require.Empty(t, Title(Request{}))

	_, err = Bundle(Request{})()
	require.Error(t, err)
}

func TestParseRequest(t *testing.T) {
	t.Parallel()

	require.Equal(t, Decision{DeleteSiblings: true}, ParseRequest(map[string]string{FieldDeleteSiblings: "true"}))
	require.Equal(t, Decision{}, ParseRequest(map[string]string{FieldDeleteSiblings: "false"}))
	require.Equal(t, Decision{}, ParseRequest(nil))
}
