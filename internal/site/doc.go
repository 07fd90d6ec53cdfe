// Package site holds the built-in landing page: its copy, markup,
// stylesheet and the static bundle built from them.
package site
