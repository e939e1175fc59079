package sites

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescrape/internal/scraper"
)

func TestBuiltinSites(t *testing.T) {
	sites := scraper.Sites()
	require.Len(t, sites, 10)

	for _, site := range sites {
		t.Run(site.Name, func(t *testing.T) {
			require.NoError(t, site.Validate())
			assert.NotEmpty(t, site.Title)

			urls := site.Candidates(site.CriteriaWith(scraper.Overrides{}))
			require.NotEmpty(t, urls)
			for _, u := range urls {
				assert.True(t, strings.HasPrefix(u, "https://"), u)
				assert.NotContains(t, u, "{", "unfilled placeholder in %s", u)
			}
		})
	}
}

func TestTargetJobsLocationVariants(t *testing.T) {
	site, ok := scraper.Get("target-jobs")
	require.True(t, ok)

	urls := site.Candidates(site.CriteriaWith(scraper.Overrides{}))
	assert.Equal(t, []string{
		"https://corporate.target.com/careers/job-search?query=Human+Resources&location=Miami%2C+FL",
		"https://corporate.target.com/careers/job-search?query=Human+Resources&location=Miami%2C+Florida",
		"https://corporate.target.com/careers/job-search?query=Human+Resources&location=Miami",
		"https://jobs.target.com/search-jobs/Human+Resources/Miami%2C+FL",
		"https://jobs.target.com/search-jobs/Human+Resources/Miami%2C+Florida",
		"https://jobs.target.com/search-jobs/Human+Resources/Miami",
		"https://corporate.target.com/careers/job-search?query=Human+Resources",
	}, urls)
}

func TestGameStopZipArgument(t *testing.T) {
	site, ok := scraper.Get("gamestop")
	require.True(t, ok)

	urls := site.Candidates(site.CriteriaWith(scraper.Overrides{Arg: "10001"}))
	assert.Equal(t, "https://www.gamestop.com/stores/?postalCode=10001&showMap=true&horizontalView=true&isForm=true", urls[0])
}

func TestCarMaxFilters(t *testing.T) {
	site, ok := scraper.Get("carmax")
	require.True(t, ok)

	urls := site.Candidates(site.CriteriaWith(scraper.Overrides{}))
	assert.Equal(t, []string{
		"https://www.carmax.com/cars?search=toyota+corolla&yearMin=2018&yearMax=2023&color=Red",
		"https://www.carmax.com/cars/toyota/corolla?yearMin=2018&yearMax=2023&color=Red",
		"https://www.carmax.com/cars?yearMin=2018&yearMax=2023&color=Red",
	}, urls)
}
