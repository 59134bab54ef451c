package ports

// Reloader pushes live-reload notifications to connected browsers.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	// Reload asks every client to reload the page.
	Reload()
	// ReloadCSS asks every client to swap the given stylesheets in place.
	ReloadCSS(paths ...string)
}
