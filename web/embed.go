package web

import "embed"

// Templates embeds the HTML template tree, including nested page
// directories like pages/masterdata and pages/reports.
//
//go:embed templates
var Templates embed.FS

// Static embeds stylesheets and other public assets.
//
//go:embed static
var Static embed.FS
