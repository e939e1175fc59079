package mta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescrape/internal/dom"
	"sitescrape/internal/record"
)

func TestStations(t *testing.T) {
	raw := "Menu\nAtlantic Av-Barclays Ctr (2)(3)(4)(5)(B)(Q) \nBay Ridge-95 St (R)\nDownload (PDF)\nBay Ridge-95 St (R)\nSearch"
	assert.Equal(t, []string{
		"Atlantic Av-Barclays Ctr (2)(3)(4)(5)(B)(Q)",
		"Bay Ridge-95 St (R)",
	}, Stations(raw))
}

func TestExtractMaps(t *testing.T) {
	ctx := context.Background()
	root, err := dom.ParseString(`<html><body>
<h1>Brooklyn Neighborhood Maps</h1>
<button>Menu</button>
<button>Atlantic Av-Barclays Ctr (2)(3)(4)(5)(B)(Q)</button>
<button>Bay Ridge-95 St (R)</button>
</body></html>`)
	require.NoError(t, err)

	extracted, err := Site.Extractor("https://new.mta.info/maps/neighborhood-maps/brooklyn").Extract(ctx, root)
	require.NoError(t, err)
	require.Len(t, extracted.Records, 1)

	res := &record.RunResult{Records: extracted.Records}
	require.NoError(t, cleanStations(ctx, nil, res))

	maps, ok := res.Records[0].Get("maps")
	require.True(t, ok)
	assert.Equal(t, "Atlantic Av-Barclays Ctr (2)(3)(4)(5)(B)(Q)\nBay Ridge-95 St (R)", maps)
	assert.Equal(t, "Brooklyn Neighborhood Maps", res.Records[0].Title())
}

func TestCleanStationsNone(t *testing.T) {
	var rec record.Record
	rec.SetString("maps", "Menu\nSearch")
	res := &record.RunResult{Records: []record.Record{rec}}

	assert.Error(t, cleanStations(context.Background(), nil, res))
	_, ok := res.Records[0].Get("maps")
	assert.False(t, ok)
}
