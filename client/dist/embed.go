package clientdist

import _ "embed"

// LiveJS is the live client script.
//
// It is served at "/_live/client.js" and published next to static pages.
//go:embed live.js
var LiveJS []byte
