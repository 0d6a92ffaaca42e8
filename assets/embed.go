package assets

import "embed"

// AssetsFS holds the static files served under /assets/.
// Run "go run ./cmd/nextstep css" to rebuild css/output.css.
//
//go:embed css js
var AssetsFS embed.FS
