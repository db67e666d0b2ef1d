package containerpage

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

func sampleContainer() Container {
	return Container{
		Name:        "main",
		Type:        "content",
		Width:       960,
		MaxElements: 5,
		Elements: []Element{
			{ID: "e1", SitePath: "/sites/default/news/a.xml"},
			{ID: "e2"},
		},
	}
}

func TestMarshalUsesWireNames(t *testing.T) {
	t.Parallel()

	data, err := Marshal(sampleContainer())
	require.NoError(t, err)
	require.JSONEq(t, `[{"name":"main","type":"content","width":960,"maxElements":5,
		"elements":[{"id":"e1","sitePath":"/sites/default/news/a.xml"},{"id":"e2"}]}]`, string(data))

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, []Container{sampleContainer()}, decoded)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Unmarshal([]byte(`{"name":`))
	require.ErrorIs(t, err, cmserror.New(messages.ErrorContainerDecode))
}

func TestFind(t *testing.T) {
	t.Parallel()

	containers := []Container{{Name: "header"}, sampleContainer()}
	c, ok := Find(containers, "main")
	require.True(t, ok)
	require.Equal(t, 960, c.Width)
	_, ok = Find(containers, "footer")
	require.False(t, ok)
}

func TestFieldsDescribeSettingsDialog(t *testing.T) {
	t.Parallel()

	defs := Fields(sampleContainer(), "de")
	require.NoError(t, formspec.Normalize(defs))
	require.Len(t, defs, 5)
	require.Equal(t, "Breite", defs[2].Label)
	require.Equal(t, "960", defs[2].Default)
	require.Equal(t, formspec.KindLabel, defs[4].Kind)
	require.Equal(t, "Der Container enthält derzeit 2 Elemente.", defs[4].Label)

	empty := Fields(Container{}, "en")
	require.Empty(t, empty[2].Default)
}

func TestFromValues(t *testing.T) {
	t.Parallel()

	base := sampleContainer()
	updated, err := FromValues(base, map[string]string{
		FieldName:        " aside ",
		FieldWidth:       "300",
		FieldMaxElements: "",
	})
	require.NoError(t, err)
	require.Equal(t, "aside", updated.Name)
	require.Equal(t, "content", updated.Type)
	require.Equal(t, 300, updated.Width)
	require.Zero(t, updated.MaxElements)
	require.Equal(t, base.Elements, updated.Elements)
}

func TestFromValuesRejectsBadNumbers(t *testing.T) {
	t.Parallel()

	_, err := FromValues(sampleContainer(), map[string]string{FieldWidth: "wide"})
	require.ErrorIs(t, err, cmserror.New(messages.ErrorContainerNumber, "", ""))
	require.Equal(t, `Ungültige Zahl "wide" für width: strconv.Atoi: parsing "wide": invalid syntax`,
		cmserror.Localize(err, language.German))
}
