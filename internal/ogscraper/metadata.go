package ogscraper

// Metadata is the Open Graph view of a fetched page. Empty strings and nil
// slices mean the page did not provide the value.
type Metadata struct {
	// URL is the page address that was requested.
	URL         string
	Title       string
	Description string
	// Images holds og:image candidates in document order.
	Images []string
	// TwitterImages holds twitter:image candidates in document order.
	TwitterImages []string
	// MetaImage is the content of a <meta> whose name or property is "image".
	MetaImage string
	// Favicon is the href of the first icon link, unresolved.
	Favicon string
	// HTML is the decoded markup the metadata was extracted from.
	HTML string
}
