package devserver

// SetBrowserOpener replaces the function used to open the browser.
func (s *Server) SetBrowserOpener(fn func(url string) error) {
	s.openBrowser = fn
}
