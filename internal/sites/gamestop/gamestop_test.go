package gamestop

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescrape/internal/dom"
	"sitescrape/internal/fetcher"
	"sitescrape/internal/normalize"
	"sitescrape/internal/record"
)

const storeText = `Hollywood Blvd
Open until 9:00 PM
(323) 555-0100
6801 Hollywood Blvd
Los Angeles, CA 90028
Get Directions
Store Details
HOURS
Sun:
11:00 AM - 7:00 PM
Mon:
10:00 AM - 9:00 PM`

func TestParseStore(t *testing.T) {
	got, ok := ParseStore(storeText)
	require.True(t, ok)

	want := Store{
		Name:    "Hollywood Blvd",
		Phone:   "(323) 555-0100",
		Address: "6801 Hollywood Blvd, Los Angeles, CA 90028",
		Status:  "Open until 9:00 PM",
		Hours: normalize.WeeklyHours{
			"Sun": "11:00 AM - 7:00 PM",
			"Mon": "10:00 AM - 9:00 PM",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseStore mismatch (-want +got):\n%s", diff)
	}

	_, ok = ParseStore("Set as Home Store")
	assert.False(t, ok)
}

const storesPage = `<html><body><div class="results">
<div data-store-id="6123">
  <h2>Hollywood Blvd</h2>
  <div>Open until 9:00 PM</div>
  <div>(323) 555-0100</div>
  <div>6801 Hollywood Blvd</div>
  <div>Los Angeles, CA 90028</div>
  <a href="/maps">Get Directions</a>
  <div>HOURS</div>
  <div>Sun:</div><div>11:00 AM - 7:00 PM</div>
  <div>Mon:</div><div>10:00 AM - 9:00 PM</div>
</div>
<div data-store-id="6124">
  <h2>Sunset &amp; Vine</h2>
  <div>Closed until 10:00 AM</div>
  <div>1520 N Vine St</div>
</div>
</div></body></html>`

func TestExtractAndFill(t *testing.T) {
	ctx := context.Background()
	root, err := dom.ParseString(storesPage)
	require.NoError(t, err)
	page := &fetcher.Page{Root: root, URL: "https://www.gamestop.com/stores/?postalCode=90028"}

	extracted, err := Site.Extractor(page.URL).Extract(ctx, root)
	require.NoError(t, err)
	require.Len(t, extracted.Records, 2)
	assert.Empty(t, extracted.Warnings, "missing optional fields are not warnings")

	res := &record.RunResult{Records: extracted.Records}
	err = fillFromStoreText(ctx, page, res)
	assert.EqualError(t, err, "1 of 2 stores without a phone number")

	first := res.Records[0]
	assert.Equal(t, "Hollywood Blvd", first.Title())
	phone, _ := first.Get("phone")
	assert.Equal(t, "(323) 555-0100", phone)
	address, _ := first.Get("address")
	assert.Equal(t, "6801 Hollywood Blvd, Los Angeles, CA 90028", address)
	status, _ := first.Get("status")
	assert.Equal(t, "Open until 9:00 PM", status)
	hours, _ := first.Get("hours")
	assert.Equal(t, "Sun: 11:00 AM - 7:00 PM; Mon: 10:00 AM - 9:00 PM", hours)

	second := res.Records[1]
	assert.Equal(t, "Sunset & Vine", second.Title())
	_, ok := second.Get("phone")
	assert.False(t, ok)
	status, _ = second.Get("status")
	assert.Equal(t, "Closed until 10:00 AM", status)
	_, ok = second.Get("address")
	assert.False(t, ok, "no address without a phone line to anchor it")
}
