// Package sites links every built-in site into the binary.
package sites

import (
	_ "sitescrape/internal/sites/carmax"
	_ "sitescrape/internal/sites/discogs"
	_ "sitescrape/internal/sites/eventbrite"
	_ "sitescrape/internal/sites/flightaware"
	_ "sitescrape/internal/sites/foxsports"
	_ "sitescrape/internal/sites/gamestop"
	_ "sitescrape/internal/sites/marriott"
	_ "sitescrape/internal/sites/mta"
	_ "sitescrape/internal/sites/target"
	_ "sitescrape/internal/sites/targetjobs"
)
