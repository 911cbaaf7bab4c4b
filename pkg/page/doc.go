// Package page loads a server-rendered document, installs the page behaviors
// on DOMContentLoaded and drives them with simulated user actions.
//
//	p, err := page.Load(r, page.WithSubmitter(submitter))
//	_ = p.Click("add-link")
//	p.Settle()
//	html, _ := p.HTML()
package page
