package containerprops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BrianJOC/formdialog/pkg/formdialog"
	"github.com/BrianJOC/formdialog/utils/containerpage"
)

func TestBundleBuildsDialog(t *testing.T) {
	t.Parallel()

	c := containerpage.Container{Name: "main", Type: "content", Width: 960}
	require.Equal(t, "Container main", Title(c, "en"))

	_, err := formdialog.New(formdialog.WithTitle(Title(c, "en")), formdialog.WithBundle(Bundle(c, "en")))
	require.NoError(t, err)

	rows := Bundle(c, "en")()
	require.Equal(t, "main", rows[0].Default)
}

func TestApplyKeepsElements(t *testing.T) {
	t.Parallel()

	c := containerpage.Container{Name: "main", Elements: []containerpage.Element{{ID: "e1"}}}
	updated, err := Apply(c, map[string]string{containerpage.FieldWidth: "480"})
	require.NoError(t, err)
	require.Equal(t, 480, updated.Width)
	require.Len(t, updated.Elements, 1)

	_, err = Apply(c, map[string]string{containerpage.FieldMaxElements: "many"})
	require.Error(t, err)
}
